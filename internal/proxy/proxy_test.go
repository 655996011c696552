package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chemistflow/internal/cache"
	"chemistflow/internal/httpclient"
)

type reaction struct {
	ReactionID   int    `json:"reactionId"`
	ReactionName string `json:"reactionName"`
}

func newTestService(t *testing.T, handler http.HandlerFunc) *Service[reaction] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := cache.New[reaction](cache.Config{LocalMaxItems: 100, LocalTTL: time.Minute}, nil, nil, nil)
	client := httpclient.New(httpclient.DefaultConfig("preprocessor"), nil)
	return New[reaction](srv.URL, client, store, nil)
}

func TestService_Get_CacheMissThenUpstreamHit(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"reactionId":42,"reactionName":"R"}`))
	})

	got, err := svc.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 42, got.ReactionID)

	_, err = svc.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second get should be served from cache")
}

func TestService_Get_NotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := svc.Get(context.Background(), "1")
	require.Error(t, err)
}

func TestService_Create_WriteThrough(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"reactionId":7,"reactionName":"X"}`))
	})

	created, err := svc.Create(context.Background(), reaction{ReactionName: "X"}, func(r reaction) string {
		return strconv.Itoa(r.ReactionID)
	})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ReactionID)

	_, err = svc.Get(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "follow-up get should be served from cache after write-through")
}

func TestService_Delete_InvalidatesCache(t *testing.T) {
	getCalls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getCalls++
			w.Write([]byte(`{"reactionId":7,"reactionName":"X"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	_, err := svc.Get(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, 1, getCalls)

	require.NoError(t, svc.Delete(context.Background(), "7"))

	_, err = svc.Get(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, 2, getCalls, "get after delete must round-trip the Preprocessor again")
}
