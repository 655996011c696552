// Package httpclient provides ChemistFlow's shared outbound HTTP client,
// wrapping every call to the Preprocessor or Engine in a circuit breaker
// so a failing upstream degrades into fast rejections instead of
// cascading timeouts across the request pool.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config configures one breaker-guarded client.
type Config struct {
	Name                string
	Timeout             time.Duration
	MaxFailures         uint32
	OpenDuration        time.Duration
	HalfOpenMaxRequests uint32
}

// DefaultConfig returns sensible per-upstream defaults, mirroring the
// failure thresholds the teacher's decorator used before this service
// switched to gobreaker for the breaker state machine itself.
func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		Timeout:             10 * time.Second,
		MaxFailures:         5,
		OpenDuration:        30 * time.Second,
		HalfOpenMaxRequests: 3,
	}
}

// Response is the fully-drained result of an outbound call. StatusCode
// interpretation (404 vs other non-2xx) is left to the caller, since
// Preprocessor and Engine attach different meaning to the same codes.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs outbound GET/POST/DELETE calls against an upstream,
// tripping its breaker on a run of transport failures or 5xx responses.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// New constructs a breaker-guarded client for one upstream.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenMaxRequests,
		Timeout:     cfg.OpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Do executes req through the breaker. A transport failure or breaker
// rejection is returned as err with a nil Response. A completed
// round-trip — 2xx, 4xx, or 5xx alike — always returns a populated
// Response with a nil err, leaving status interpretation (404 vs other
// 4xx vs 5xx) entirely to the caller; a 5xx still counts against the
// breaker's failure count internally, but that bookkeeping is not
// surfaced as an error to callers that need to inspect the response body
// (e.g. to build an HttpError/CreationError carrying the upstream's
// reason text).
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	req = req.WithContext(ctx)

	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		out := &Response{StatusCode: resp.StatusCode, Body: body}
		if resp.StatusCode >= 500 {
			return out, fmt.Errorf("upstream %s returned status %d", req.URL, resp.StatusCode)
		}
		return out, nil
	})

	if result != nil {
		return result.(*Response), nil
	}
	if err != nil {
		return nil, errAsNetworkFailure(err, req.URL.String())
	}
	return nil, nil
}

func errAsNetworkFailure(err error, target string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("request to %s failed: %w", target, err)
}
