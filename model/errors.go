package model

import "github.com/pkg/errors"

// Error kinds. Every one of them aborts the decode it happens in; callers
// match them with errors.Is.
var (
	ErrOutOfRange         = errors.New("offset out of range")
	ErrShortRead          = errors.New("short read")
	ErrMalformedHeader    = errors.New("malformed header")
	ErrMalformedSection   = errors.New("malformed section")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrNotFound           = errors.New("not found")
)
