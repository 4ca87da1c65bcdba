package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/osudirect/direct/client/download"
	"github.com/osudirect/direct/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	attempts          int
	backoff           func() backoff.BackOff
	registerer        prometheus.Registerer
	tracer            trace.Tracer
}

// WithClient replaces the default [http.Client] used by the [Client].
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// A download counts as one request, so keep this generous when fetching sets.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket pacing with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithRetries sets the total number of attempts made for a request that
// fails at the transport level. HTTP error statuses are never retried.
func WithRetries(attempts int) Option {
	return func(c *options) error {
		if attempts < 1 {
			return fmt.Errorf("attempts[%d] must be at least 1", attempts)
		}
		c.attempts = attempts
		return nil
	}
}

// WithBackoff sets the delay policy between attempts. newFn is called once
// per logical request so stateful policies are never shared.
func WithBackoff(newFn func() backoff.BackOff) Option {
	return func(c *options) error {
		if newFn == nil {
			return errors.New("backoff constructor must not be nil")
		}
		c.backoff = newFn
		return nil
	}
}

// WithMetrics registers request, latency and retry collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		c.registerer = reg
		return nil
	}
}

// WithTracer starts a span per logical request with tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// DoOption is a functional option for [Client.Do].
type DoOption func(options *doOpts) error

type doOpts struct {
	responseBody any
}

// WithDestination decodes the HTTP response body into bodyTemplate.
// bodyTemplate must be a pointer.
func WithDestination[T any](bodyTemplate *T) DoOption {
	return func(opts *doOpts) error {
		if bodyTemplate == nil {
			return errors.New("destination must not be nil")
		}
		opts.responseBody = bodyTemplate

		return nil
	}
}

// DownloadOption is a functional option for [Client.Download].
type DownloadOption = download.Option

// RequestOption is a functional option for [Request].
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	headers map[string][]string
}

// WithHeaders adds custom headers to the outgoing request.
func WithHeaders(headers map[string][]string) RequestOption {
	return func(opts *requestOpts) error {
		opts.headers = headers

		return nil
	}
}

// URLOption is a functional option for [URL].
type URLOption func(options *urlOpts)

type urlOpts struct {
	query url.Values
	port  *int
}

// WithQueryValues sets the URL query. Repeated keys are preserved.
func WithQueryValues(query url.Values) URLOption {
	return func(opts *urlOpts) {
		opts.query = query
	}
}

// WithPort sets the port number on the URL's host.
func WithPort(port int) URLOption {
	return func(opts *urlOpts) {
		opts.port = &port
	}
}
