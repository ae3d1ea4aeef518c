// Package ixerr defines the sentinel error kinds shared across the
// indexing and retrieval packages.
package ixerr

import "errors"

// Error kinds surfaced by the codec, index file, BSBI builder and query
// packages. Callers compare against these with errors.Is; wrapped causes
// (e.g. the underlying os error on an IoError) are attached with %w.
var (
	// ErrInvalidQuery means the query string contained a stopword or a
	// malformed token.
	ErrInvalidQuery = errors.New("ixerr: invalid query")

	// ErrEncode means a value exceeded the codec's representable range.
	ErrEncode = errors.New("ixerr: value not representable by codec")

	// ErrFormat means on-disk bytes were malformed: bad selector,
	// truncated header, non-multiple-of-8 Simple8b stream, or a sidecar
	// inconsistent with the main file.
	ErrFormat = errors.New("ixerr: malformed index data")

	// ErrIO wraps an underlying read/write failure.
	ErrIO = errors.New("ixerr: io failure")

	// ErrNotIndexed means a query was requested before build artifacts
	// exist.
	ErrNotIndexed = errors.New("ixerr: no build artifacts at output path")

	// ErrProgramming means the writer was invoked out of ascending
	// termID order, or some other caller-contract violation occurred.
	ErrProgramming = errors.New("ixerr: programming error")
)
