package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chemistflow/internal/compute"
	"chemistflow/internal/domain"
	"chemistflow/internal/httpresponse"
	"chemistflow/pkg/chemerr"
)

func (rt *Router) handleGetReaction(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if _, err := strconv.ParseInt(idStr, 10, 64); err != nil {
		httpresponse.Error(w, http.StatusBadRequest, string(chemerr.KindBadRequest), "id must be an integer")
		return
	}

	details, err := rt.reactions.Get(r.Context(), idStr)
	if err != nil {
		httpresponse.ChemError(w, err)
		return
	}
	httpresponse.JSON(w, http.StatusOK, details)
}

func (rt *Router) handleCreateReaction(w http.ResponseWriter, r *http.Request) {
	var payload domain.Reaction
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpresponse.Error(w, http.StatusBadRequest, string(chemerr.KindDecodingError), "invalid request body")
		return
	}

	created, err := rt.reactions.Create(r.Context(), payload, func(d domain.ReactionDetails) string {
		return strconv.FormatInt(int64(d.Reaction.ReactionID), 10)
	})
	if err != nil {
		httpresponse.ChemError(w, err)
		return
	}
	httpresponse.JSON(w, http.StatusCreated, created)
}

func (rt *Router) handleDeleteReaction(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if _, err := strconv.ParseInt(idStr, 10, 64); err != nil {
		httpresponse.Error(w, http.StatusBadRequest, string(chemerr.KindBadRequest), "id must be an integer")
		return
	}

	if err := rt.reactions.Delete(r.Context(), idStr); err != nil {
		httpresponse.ChemError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleGetMechanism(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if _, err := strconv.ParseInt(idStr, 10, 64); err != nil {
		httpresponse.Error(w, http.StatusBadRequest, string(chemerr.KindBadRequest), "id must be an integer")
		return
	}

	details, err := rt.mechanisms.Get(r.Context(), idStr)
	if err != nil {
		httpresponse.ChemError(w, err)
		return
	}
	httpresponse.JSON(w, http.StatusOK, details)
}

func (rt *Router) handleComputeProperties(w http.ResponseWriter, r *http.Request) {
	var req compute.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresponse.Error(w, http.StatusBadRequest, string(chemerr.KindDecodingError), "invalid request body")
		return
	}

	results, err := rt.compute.Compute(r.Context(), req)
	if err != nil {
		// Only the reaction fetch's own unrecoverable errors (NotFound,
		// decoding) propagate here; a network failure fetching the reaction
		// is already folded into a one-slot engine-error result by
		// compute.Service, and per-SystemState Engine failures are isolated
		// to their own result slot. Neither reaches this branch.
		httpresponse.ChemError(w, err)
		return
	}
	httpresponse.JSON(w, http.StatusOK, results)
}
