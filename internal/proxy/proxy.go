// Package proxy implements ChemistFlow's remote-resource proxy protocol:
// cache-first GET, passthrough POST with write-through, passthrough
// DELETE with local invalidation. ReactionService and MechanismService
// are both instantiations of the same generic shape.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"chemistflow/internal/cache"
	"chemistflow/internal/httpclient"
	"chemistflow/pkg/chemerr"
)

// Service is a cache-first proxy over one Preprocessor resource family.
type Service[TDetails any] struct {
	baseURI string
	client  *httpclient.Client
	cache   *cache.Store[TDetails]
	logger  *zap.Logger
}

// New constructs a proxy for one resource family rooted at baseURI, e.g.
// "http://preprocessor:8080/reaction".
func New[TDetails any](baseURI string, client *httpclient.Client, store *cache.Store[TDetails], logger *zap.Logger) *Service[TDetails] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service[TDetails]{baseURI: baseURI, client: client, cache: store, logger: logger}
}

// Get returns the cached value for id, falling through to the
// Preprocessor on a cache miss and populating the cache on success.
func (s *Service[TDetails]) Get(ctx context.Context, id string) (TDetails, error) {
	var zero TDetails

	if v, ok, err := s.cache.Get(ctx, id); err == nil && ok {
		return v, nil
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s", s.baseURI, id), nil)
	if err != nil {
		return zero, chemerr.NetworkError("build request", err)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return zero, chemerr.NetworkError(fmt.Sprintf("fetch %s", id), err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return zero, chemerr.NotFound(fmt.Sprintf("resource %s not found", id))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return zero, chemerr.HttpError(fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}

	var details TDetails
	if err := json.Unmarshal(resp.Body, &details); err != nil {
		return zero, chemerr.DecodingError("decode response body", err)
	}

	if err := s.cache.Set(ctx, id, details); err != nil {
		s.logger.Warn("cache populate failed after Preprocessor read", zap.String("id", id), zap.Error(err))
	}

	return details, nil
}

// Create posts payload to the Preprocessor and caches the created record
// under the id idOf extracts from the decoded response, since the id is
// only known once the Preprocessor assigns it.
func (s *Service[TDetails]) Create(ctx context.Context, payload any, idOf func(TDetails) string) (TDetails, error) {
	var zero TDetails

	encoded, err := json.Marshal(payload)
	if err != nil {
		return zero, chemerr.DecodingError("encode request body", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURI, bytes.NewReader(encoded))
	if err != nil {
		return zero, chemerr.NetworkError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return zero, chemerr.NetworkError("create", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, chemerr.CreationError(fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}

	var created TDetails
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return zero, chemerr.DecodingError("decode response body", err)
	}

	if err := s.cache.Set(ctx, idOf(created), created); err != nil {
		s.logger.Warn("cache populate failed after create", zap.Error(err))
	}

	return created, nil
}

// Delete issues a DELETE to the Preprocessor. On success it invalidates
// the local tier for id, matching the testable contract that subsequent
// reads of a deleted id do not return stale local data without a
// Preprocessor round-trip.
func (s *Service[TDetails]) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/%s", s.baseURI, id), nil)
	if err != nil {
		return chemerr.NetworkError("build request", err)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return chemerr.NetworkError("delete", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return chemerr.DeletionError(fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("cache invalidation failed after delete", zap.String("id", id), zap.Error(err))
	}
	return nil
}
