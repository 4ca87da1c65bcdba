package direct

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"

	"github.com/osudirect/direct/client"
	"github.com/osudirect/direct/client/download"
)

// Option is a functional option for configuring a [Client] via [New].
type Option func(*options) error

type options struct {
	customURL string
	quota     int64
	dir       string
	logger    *slog.Logger
	httpOpts  []client.Option
}

// WithCustomURL sets the base URL used when the server is [Custom]. It may
// carry a path prefix but no user info, query or fragment.
func WithCustomURL(raw string) Option {
	return func(o *options) error {
		o.customURL = raw
		return nil
	}
}

// WithQuota sets how many downloads the client may start. Zero makes
// every download fail fast with 429.
func WithQuota(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("quota[%d] must not be negative", n)
		}
		o.quota = int64(n)
		return nil
	}
}

// WithDownloadDir sets the directory default download paths are built in.
func WithDownloadDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.New("download dir must not be empty")
		}
		o.dir = dir
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the client and its transport.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithHTTPOptions configures the underlying transport, e.g. retries,
// timeouts, metrics or tracing.
func WithHTTPOptions(opts ...client.Option) Option {
	return func(o *options) error {
		o.httpOpts = append(o.httpOpts, opts...)
		return nil
	}
}

// DownloadOption is a functional option for [Client.Download].
type DownloadOption func(*downloadOpts) error

type downloadOpts struct {
	video    bool
	destPath string
	download []download.Option
}

// WithVideo requests the full archive instead of the no-video variant.
func WithVideo() DownloadOption {
	return func(o *downloadOpts) error {
		o.video = true
		return nil
	}
}

// WithDestPath writes the archive to path instead of the default
// {dir}/{id}[n].osz.
func WithDestPath(path string) DownloadOption {
	return func(o *downloadOpts) error {
		if path == "" {
			return errors.New("destination path must not be empty")
		}
		o.destPath = path
		return nil
	}
}

// WithChecksum verifies the archive against the hex digest produced by h.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return forward(download.WithChecksum(h, expected))
}

// WithProgress logs transfer progress through the client's logger.
func WithProgress() DownloadOption { return forward(download.WithProgress()) }

// WithProgressBar renders a terminal progress bar to w.
func WithProgressBar(w io.Writer) DownloadOption { return forward(download.WithProgressBar(w)) }

// WithSkipExisting finishes immediately when the destination already exists,
// without contacting the mirror or spending quota.
func WithSkipExisting() DownloadOption { return forward(download.WithSkipExisting()) }

func forward(opt download.Option) DownloadOption {
	return func(o *downloadOpts) error {
		o.download = append(o.download, opt)
		return nil
	}
}
