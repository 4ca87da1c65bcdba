package download

import (
	"errors"
	"hash"
	"io"
	"os"
)

// Option defines optional settings for [Handle].
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	progress     bool
	progressBar  io.Writer
	skipExisting bool
}

// WithChecksum validates the streamed body against expected, the
// hex-encoded digest produced by h (e.g. md5.New() for mirror archives).
// h is reset at the start of every Handle call, so the option may be
// reused across sequential downloads but not concurrent ones.
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

// WithProgress logs transfer progress at most once per second via the
// logger supplied to Handle.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

// WithProgressBar renders a byte-counting terminal progress bar to w.
func WithProgressBar(w io.Writer) Option {
	return func(opts *options) error {
		if w == nil {
			return errors.New("progress bar writer must not be nil")
		}
		opts.progressBar = w
		return nil
	}
}

// WithSkipExisting makes Handle return nil without reading the body
// when the destination file already exists.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

func (o options) skip(destPath string) bool {
	if !o.skipExisting {
		return false
	}
	_, err := os.Stat(destPath)
	return err == nil
}
