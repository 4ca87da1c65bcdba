package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/osudirect/direct/client/download"
	"github.com/osudirect/direct/client/throttle"
)

// Client wraps the std-lib *http.Client with retries, tracing and
// optional metrics and throttling, all configured via functional options.
type Client struct {
	c        *http.Client
	logger   *slog.Logger
	attempts int
	backoff  func() backoff.BackOff
	tracer   trace.Tracer
	metrics  *metrics
}

func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:        &http.Client{},
		logger:   slog.Default(),
		attempts: DefaultAttempts,
		backoff:  zeroBackoff,
		tracer:   noop.NewTracerProvider().Tracer(""),
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.attempts > 0 {
		client.attempts = opts.attempts
	}

	if opts.backoff != nil {
		client.backoff = opts.backoff
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.registerer != nil {
		m, err := newMetrics(opts.registerer)
		if err != nil {
			return nil, fmt.Errorf("configuring metrics: %w", err)
		}
		client.metrics = m
		transport = m.instrument(transport)
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Logger returns the logger the client reports through.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Do will fire the request, and write response to the given dest object if any.
func (c *Client) Do(req *http.Request, expCode int, opts ...DoOption) error {
	var settings doOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return err
		}
	}

	doFunc := func(resp *http.Response) error {
		if settings.responseBody != nil {
			if err := json.NewDecoder(resp.Body).Decode(settings.responseBody); err != nil {
				return fmt.Errorf("decoding body: %w", err)
			}
		}

		return nil
	}

	return c.exec(req, expCode, doFunc)
}

// Download executes a request that's intended to stream the response body to destPath.
// Data streams to a temp file in the same directory, then the temp file is renamed to
// destPath on success or removed on failure. A status other than expCode
// returns an [UnexpectedStatusError] and leaves the filesystem untouched.
// With download.WithSkipExisting and an existing destPath no request is sent.
func (c *Client) Download(req *http.Request, expCode int, destPath string, opts ...DownloadOption) error {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	skip, err := download.Skip(destPath, opts...)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if skip {
		c.logger.Info("skipping existing file", "path", destPath)
		return nil
	}

	dlFunc := func(resp *http.Response) error {
		if err := download.Handle(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger, opts...); err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	return c.exec(req, expCode, dlFunc)
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// URL creates a url.URL for use in Request.
// It's just a convenience method that wraps the public URL func.
func (c *Client) URL(scheme, host, path string, opts ...URLOption) *url.URL {
	return URL(scheme, host, path, opts...)
}

// exec runs the request and injected function on success after validating the expected status code.
func (c *Client) exec(req *http.Request, expCode int, fn execFn) error {
	resp, err := c.Fetch(req)
	if err != nil {
		return err
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != expCode {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        ErrUnexpectedStatusCode,
		}
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// Request instantiates a body-less *http.Request with the provided information.
// Accept defaults to `application/json`; override it with WithHeaders.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range settings.headers {
		req.Header.Del(k)
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// URL creates a url.URL for use in Request.
func URL(scheme, host, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.port != nil {
		host = fmt.Sprintf("%s:%d", host, *settings.port)
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if len(settings.query) > 0 {
		endpoint.RawQuery = settings.query.Encode()
	}

	return &endpoint
}
