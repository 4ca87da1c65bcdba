package download

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// failingReader yields data then fails, simulating a connection reset mid-body.
type failingReader struct {
	data []byte
	err  error
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, f.err
	}
	f.done = true
	return copy(p, f.data), nil
}

func assertNoLeftovers(t *testing.T, dir, destPath string) {
	t.Helper()

	matches, _ := filepath.Glob(filepath.Join(dir, tempPattern))
	if len(matches) > 0 {
		t.Errorf("expected no temp files, found: %v", matches)
	}

	if _, err := os.Stat(destPath); !os.IsNotExist(err) {
		t.Errorf("expected dest file to not exist at %s", destPath)
	}
}

func TestHandle(t *testing.T) {
	body := []byte("osu file format v14")
	sum := md5.Sum(body)

	testCases := map[string]struct {
		body          io.Reader
		contentLength int64
		opts          []Option
		expErr        error
	}{
		"complete": {
			body:          bytes.NewReader(body),
			contentLength: int64(len(body)),
		},
		"unknownLength": {
			body:          bytes.NewReader(body),
			contentLength: -1,
		},
		"checksumPass": {
			body:          bytes.NewReader(body),
			contentLength: int64(len(body)),
			opts:          []Option{WithChecksum(md5.New(), hex.EncodeToString(sum[:]))},
		},
		"checksumUpperCase": {
			body:          bytes.NewReader(body),
			contentLength: int64(len(body)),
			opts:          []Option{WithChecksum(md5.New(), strings.ToUpper(hex.EncodeToString(sum[:])))},
		},
		"checksumFail": {
			body:          bytes.NewReader(body),
			contentLength: int64(len(body)),
			opts:          []Option{WithChecksum(md5.New(), "deadbeef")},
			expErr:        ErrChecksumMismatch,
		},
		"shortBody": {
			body:          bytes.NewReader(body),
			contentLength: int64(len(body)) + 10,
			expErr:        ErrContentLengthMismatch,
		},
		"streamError": {
			body:          &failingReader{data: body[:4], err: io.ErrUnexpectedEOF},
			contentLength: int64(len(body)),
			expErr:        io.ErrUnexpectedEOF,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			destPath := filepath.Join(dir, "1.osz")

			err := Handle(t.Context(), tc.body, tc.contentLength, destPath, discardLogger, tc.opts...)
			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got: %v", tc.expErr, err)
				}
				assertNoLeftovers(t, dir, destPath)
				return
			}
			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}

			got, err := os.ReadFile(destPath)
			if err != nil {
				t.Fatalf("reading downloaded file: %v", err)
			}
			if !bytes.Equal(got, body) {
				t.Errorf("file contents mismatch; got %q, want %q", got, body)
			}
		})
	}
}

func TestHandle_Cancelled(t *testing.T) {
	dir := t.TempDir()
	destPath := filepath.Join(dir, "cancelled.osz")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := Handle(ctx, bytes.NewReader([]byte("data")), 4, destPath, discardLogger)
	if !errors.Is(err, ErrDownloadCancelled) {
		t.Fatalf("expected ErrDownloadCancelled, got: %v", err)
	}
	assertNoLeftovers(t, dir, destPath)
}

func TestHandle_SkipExisting(t *testing.T) {
	destPath := filepath.Join(t.TempDir(), "existing.osz")
	if err := os.WriteFile(destPath, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	err := Handle(t.Context(), bytes.NewReader([]byte("replacement")), -1, destPath, discardLogger, WithSkipExisting())
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(got) != "existing" {
		t.Errorf("expected existing file untouched, got %q", got)
	}
}

func TestHandle_ReusedChecksumOption(t *testing.T) {
	dir := t.TempDir()
	body := []byte("beatmap archive")
	sum := md5.Sum(body)
	verify := WithChecksum(md5.New(), hex.EncodeToString(sum[:]))

	for _, name := range []string{"first.osz", "second.osz"} {
		destPath := filepath.Join(dir, name)
		if err := Handle(t.Context(), bytes.NewReader(body), int64(len(body)), destPath, discardLogger, verify); err != nil {
			t.Fatalf("%s: exp nil err, got: %v", name, err)
		}
	}
}

func TestSkip(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.osz")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	testCases := map[string]struct {
		path    string
		opts    []Option
		expSkip bool
		expErr  bool
	}{
		"existingWithOption":    {path: existing, opts: []Option{WithSkipExisting()}, expSkip: true},
		"existingWithoutOption": {path: existing},
		"missingWithOption":     {path: filepath.Join(dir, "missing.osz"), opts: []Option{WithSkipExisting()}},
		"invalidOption":         {path: existing, opts: []Option{WithProgressBar(nil)}, expErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			skip, err := Skip(tc.path, tc.opts...)
			if (err != nil) != tc.expErr {
				t.Fatalf("exp err=%v, got: %v", tc.expErr, err)
			}
			if skip != tc.expSkip {
				t.Errorf("exp skip=%v, got %v", tc.expSkip, skip)
			}
		})
	}
}

func TestHandle_CreatesDestinationDir(t *testing.T) {
	destPath := filepath.Join(t.TempDir(), "songs", "nested", "2.osz")

	if err := Handle(t.Context(), bytes.NewReader([]byte("x")), 1, destPath, discardLogger); err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	if _, err := os.Stat(destPath); err != nil {
		t.Errorf("expected file at %s: %v", destPath, err)
	}
}

func TestHandle_ProgressBar(t *testing.T) {
	var out bytes.Buffer
	body := bytes.Repeat([]byte("b"), 4096)
	destPath := filepath.Join(t.TempDir(), "bar.osz")

	err := Handle(t.Context(), bytes.NewReader(body), int64(len(body)), destPath, discardLogger,
		WithProgressBar(&out),
		WithProgress(),
	)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	if out.Len() == 0 {
		t.Error("expected progress bar output")
	}
}

func TestOptions_Validation(t *testing.T) {
	testCases := map[string]Option{
		"nilHash":       WithChecksum(nil, "abc"),
		"emptyChecksum": WithChecksum(md5.New(), ""),
		"nilBarWriter":  WithProgressBar(nil),
	}

	for name, opt := range testCases {
		t.Run(name, func(t *testing.T) {
			err := Handle(t.Context(), bytes.NewReader(nil), 0, filepath.Join(t.TempDir(), "x"), discardLogger, opt)
			if err == nil {
				t.Fatal("expected option error")
			}
		})
	}
}
