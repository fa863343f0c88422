package mpq

import "github.com/pkg/errors"

var (
	// ErrFormat is returned for unrecognized magic, unknown format
	// versions and fixed-width structures cut short by the source.
	ErrFormat = errors.New("invalid archive format")

	// ErrNotFound is returned when a name has no hash table match or its
	// block entry is not marked as existing.
	ErrNotFound = errors.New("file not found")

	// ErrUnsupportedCodec is returned when a compressed member uses a
	// compression method other than zlib/deflate.
	ErrUnsupportedCodec = errors.New("unsupported compression method")

	// ErrCorruptData is returned when a member's bytes cannot be
	// decompressed.
	ErrCorruptData = errors.New("corrupt file data")
)
