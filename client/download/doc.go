// Package download streams HTTP response bodies to disk with optional
// checksum validation and progress reporting.
//
// [Handle] writes the response body to a temporary file alongside the
// destination path, then renames it into place on success. On every
// failure path the temporary file is removed, so a destination either
// holds the complete body or does not exist:
//
//	err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		download.WithChecksum(md5.New(), expectedHex),
//	)
//
// Most callers should use the higher-level
// [github.com/osudirect/direct] package, which resolves the mirror path,
// applies the download quota and maps failures into a result.
package download
