package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDomain     = errors.New("invalid domain")
	ErrNoLogoFound       = errors.New("no logo found")
	ErrRenderFailed      = errors.New("render failed")
	ErrDecodeFailed      = errors.New("image decode failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
