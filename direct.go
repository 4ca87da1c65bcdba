package direct

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/osudirect/direct/client"
	"github.com/osudirect/direct/client/download"
)

const (
	// DefaultQuota is the number of downloads a Client may start unless
	// WithQuota says otherwise.
	DefaultQuota = 100
	// DefaultUserAgent is sent unless overridden via WithHTTPOptions.
	DefaultUserAgent = "direct-go/1.0"
)

// Client talks to one mirror host. The base URL is fixed at construction;
// the download quota only ever decreases.
type Client struct {
	base   *url.URL
	http   *client.Client
	logger *slog.Logger
	dir    string
	quota  atomic.Int64
}

// New resolves server to a host and builds a Client for it.
func New(server Server, optFns ...Option) (*Client, error) {
	opts := options{
		quota: DefaultQuota,
		dir:   ".",
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	raw := strings.TrimRight(ResolveHost(server, opts.customURL), "/")
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing host %q: %w", raw, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("host %q must be an absolute URL", raw)
	}
	if base.User != nil || base.RawQuery != "" || base.ForceQuery || base.Fragment != "" {
		return nil, fmt.Errorf("host %q must not carry user info, a query or a fragment", raw)
	}

	httpOpts := append([]client.Option{client.WithUserAgent(DefaultUserAgent)}, opts.httpOpts...)
	if opts.logger != nil {
		httpOpts = append(httpOpts, client.WithLogger(opts.logger))
	}

	hc, err := client.Build(httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("building http client: %w", err)
	}

	c := &Client{
		base:   base,
		http:   hc,
		logger: hc.Logger(),
		dir:    opts.dir,
	}
	c.quota.Store(opts.quota)

	return c, nil
}

// Host returns the resolved base URL.
func (c *Client) Host() string {
	return c.base.String()
}

// Quota returns the number of downloads the client may still start.
func (c *Client) Quota() int {
	return int(c.quota.Load())
}

// Status fetches the mirror's health snapshot.
func (c *Client) Status(ctx context.Context) (Status, error) {
	status, err := getJSON[Status](ctx, c, "/api", nil)
	if err != nil {
		return Status{}, fmt.Errorf("status: %w", err)
	}

	return status, nil
}

// Beatmap looks up a single difficulty by id. A 404 from the mirror is
// reported as found == false with a nil error.
func (c *Client) Beatmap(ctx context.Context, id int) (bm Beatmap, found bool, err error) {
	bm, err = getJSON[Beatmap](ctx, c, "/api/v2/"+strconv.Itoa(id), nil)
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
			return Beatmap{}, false, nil
		}
		return Beatmap{}, false, fmt.Errorf("beatmap %d: %w", id, err)
	}

	return bm, true, nil
}

// Search lists beatmap sets matching q. A nil q matches everything.
func (c *Client) Search(ctx context.Context, q *SearchQuery) ([]BeatmapSet, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	sets, err := getJSON[[]BeatmapSet](ctx, c, "/api/v2/search", q.Values())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return sets, nil
}

// Download streams beatmap set id to disk. The no-video variant is
// requested unless WithVideo is given.
//
// With WithSkipExisting an existing destination finishes the call without
// a request and without spending quota. A spent quota or a non-200 status
// ends the call with a result carrying the code and a nil error; neither
// touches the filesystem. Transport failures and interrupted streams
// return an error, after any partial file has been removed.
func (c *Client) Download(ctx context.Context, id string, optFns ...DownloadOption) (DownloadResult, error) {
	var opts downloadOpts
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return DownloadResult{}, fmt.Errorf("applying download option: %w", err)
		}
	}

	if id == "" || strings.ContainsAny(id, `/\`) {
		return DownloadResult{}, fmt.Errorf("invalid beatmap set id %q", id)
	}

	name := id
	if !opts.video {
		name += "n"
	}

	destPath := opts.destPath
	if destPath == "" {
		destPath = filepath.Join(c.dir, name+".osz")
	}

	skip, err := download.Skip(destPath, opts.download...)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("download %s: %w", name, err)
	}
	if skip {
		c.logger.Info("skipping existing file", "id", name, "path", destPath)
		return DownloadResult{Finished: true, Path: destPath}, nil
	}

	if !c.takeQuota() {
		c.logger.Info("download quota exhausted", "id", id)
		return DownloadResult{Code: http.StatusTooManyRequests}, nil
	}

	req, err := c.http.Request(ctx, c.endpoint("/d/"+url.PathEscape(name), nil), http.MethodGet,
		client.WithHeaders(map[string][]string{"Accept": {"application/octet-stream", "*/*"}}),
	)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("download %s: %w", name, err)
	}

	err = c.http.Download(req, http.StatusOK, destPath, opts.download...)

	var statusErr *client.UnexpectedStatusError
	switch {
	case err == nil:
		return DownloadResult{Finished: true, Path: destPath}, nil
	case errors.As(err, &statusErr):
		c.logger.Info("download refused", "id", name, "status", statusErr.StatusCode)
		return DownloadResult{Code: statusErr.StatusCode}, nil
	default:
		return DownloadResult{}, fmt.Errorf("download %s: %w", name, err)
	}
}

// takeQuota spends one unit of quota, reporting false when none is left.
func (c *Client) takeQuota() bool {
	for {
		n := c.quota.Load()
		if n <= 0 {
			return false
		}
		if c.quota.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

func (c *Client) endpoint(path string, query url.Values) *url.URL {
	return client.URL(c.base.Scheme, c.base.Host, c.base.Path+path, client.WithQueryValues(query))
}

// getJSON fetches path and decodes a 200 response into T. Other statuses
// become a *ServerError.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var dest T

	req, err := c.http.Request(ctx, c.endpoint(path, query), http.MethodGet)
	if err != nil {
		return dest, err
	}

	if err := c.http.Do(req, http.StatusOK, client.WithDestination(&dest)); err != nil {
		var statusErr *client.UnexpectedStatusError
		if errors.As(err, &statusErr) {
			return dest, &ServerError{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
		}
		return dest, err
	}

	return dest, nil
}
