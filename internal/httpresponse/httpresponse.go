// Package httpresponse provides ChemistFlow's uniform JSON response
// helpers, shared by the httpapi handlers and the middleware stack so
// both write the same error envelope.
package httpresponse

import (
	"encoding/json"
	"net/http"

	"chemistflow/pkg/chemerr"
)

// JSON writes data as a JSON body with statusCode. A nil data sends only
// the status line and headers.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes the uniform {"error","message"} envelope.
func Error(w http.ResponseWriter, statusCode int, kind, message string) {
	JSON(w, statusCode, map[string]string{"error": kind, "message": message})
}

// ChemError writes err's envelope, deriving the status code from its
// Kind. Non-*chemerr.Error values are reported as an opaque InternalError.
func ChemError(w http.ResponseWriter, err error) {
	if ce, ok := err.(*chemerr.Error); ok {
		Error(w, ce.Kind.StatusCode(), string(ce.Kind), ce.Message)
		return
	}
	Error(w, http.StatusInternalServerError, "InternalError", err.Error())
}
