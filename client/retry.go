package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Fetch issues req and returns the response whatever its status code.
// Transport-level failures are retried in a bounded loop until the
// attempt budget set by WithRetries is spent; the caller owns the
// returned body.
func (c *Client) Fetch(req *http.Request) (*http.Response, error) {
	req, span := c.startSpan(req)

	resp, attempts, err := c.fetch(req)
	endSpan(span, resp, attempts, err)

	return resp, err
}

func (c *Client) fetch(req *http.Request) (*http.Response, int, error) {
	ctx := req.Context()

	policy := c.backoff()
	policy.Reset()

	var (
		attempts int
		lastErr  error
	)
	for attempts < c.attempts {
		if attempts > 0 {
			wait := policy.NextBackOff()
			if wait == backoff.Stop {
				break
			}
			if err := sleep(ctx, wait); err != nil {
				return nil, attempts, fmt.Errorf("waiting to retry: %w", err)
			}

			next, err := rewind(req)
			if err != nil {
				return nil, attempts, err
			}
			req = next
			c.metrics.retried()
		}

		attempts++
		resp, err := c.c.Do(req)
		if err == nil {
			return resp, attempts, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, attempts, fmt.Errorf("exec http do: %w", err)
		}

		if attempts < c.attempts {
			c.logger.Warn("transport failure, retrying",
				"attempt", attempts,
				"max_attempts", c.attempts,
				"path", req.URL.Path,
				"error", err,
			)
		}
	}

	return nil, attempts, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr)
}

// rewind returns a copy of req with a fresh body so it can be re-sent.
func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("replaying request body: %w", err)
	}

	cpy := req.Clone(req.Context())
	cpy.Body = body

	return cpy, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func zeroBackoff() backoff.BackOff {
	return &backoff.ZeroBackOff{}
}
