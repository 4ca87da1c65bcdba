package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Handle streams body to a temp file in the same directory as destPath,
// renaming it to destPath on success. On any error the temp file is removed.
func Handle(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) error {
	opts, err := apply(optFns)
	if err != nil {
		return err
	}

	if opts.skip(destPath) {
		logger.Info("skipping existing file", "path", destPath)
		return nil
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	file, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		opts.checksum.hash.Reset()
		writer = io.MultiWriter(writer, opts.checksum)
	}

	if opts.progress {
		writer = &progressWriter{
			w:         writer,
			logger:    logger,
			total:     contentLength,
			startTime: time.Now(),
		}
	}

	if opts.progressBar != nil {
		bar := newProgressBar(opts.progressBar, contentLength, filepath.Base(destPath))
		defer func() {
			if successful {
				_ = bar.Finish()
			}
		}()
		writer = io.MultiWriter(writer, bar)
	}

	n, err := io.Copy(writer, &contextReader{ctx: ctx, r: body})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		return fmt.Errorf("copying file body: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return err
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(file.Name(), destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return nil
}

// Skip reports whether optFns include WithSkipExisting and destPath
// already exists, in which case Handle would not read the body. Callers
// use it to avoid issuing the request at all.
func Skip(destPath string, optFns ...Option) (bool, error) {
	opts, err := apply(optFns)
	if err != nil {
		return false, err
	}

	return opts.skip(destPath), nil
}

func apply(optFns []Option) (options, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, fmt.Errorf("applying option: %w", err)
		}
	}

	return opts, nil
}
