package tiled

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind tells which decode stage produced an Error.
type ErrorKind int

const (
	// KindParse means the JSON itself is malformed or a field has the wrong type.
	KindParse ErrorKind = iota
	// KindDecompress means a zlib, gzip or zstd stream could not be inflated.
	KindDecompress
	// KindBase64 means base64 tile data could not be decoded.
	KindBase64
	// KindFormat covers every other structural violation: wrong tile data shape,
	// partial tile ids, bad colors, unknown layer types.
	KindFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindDecompress:
		return "decompress"
	case KindBase64:
		return "base64"
	case KindFormat:
		return "format"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrParse      = errors.New("tiled: parse error")
	ErrDecompress = errors.New("tiled: decompression error")
	ErrBase64     = errors.New("tiled: base64 error")
	ErrFormat     = errors.New("tiled: format error")
)

// Error is the single failure type returned by the decoder.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "tiled: " + e.Kind.String() + " error"
	}
	return "tiled: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause from github.com/pkg/errors reach the root cause.
func (e *Error) Cause() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Kind == KindParse
	case ErrDecompress:
		return e.Kind == KindDecompress
	case ErrBase64:
		return e.Kind == KindBase64
	case ErrFormat:
		return e.Kind == KindFormat
	}
	return false
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

func formatErrorf(format string, args ...any) error {
	return &Error{Kind: KindFormat, Err: errors.Errorf(format, args...)}
}

func parseErrorf(format string, args ...any) error {
	return &Error{Kind: KindParse, Err: errors.Errorf(format, args...)}
}

func parseError(err error, msg string) error {
	if _, ok := KindOf(err); ok {
		return errors.Wrap(err, msg)
	}
	return &Error{Kind: KindParse, Err: errors.Wrap(err, msg)}
}

func decompressError(err error, codec string) error {
	return &Error{Kind: KindDecompress, Err: errors.Wrapf(err, "inflate %s", codec)}
}

func base64Error(err error) error {
	return &Error{Kind: KindBase64, Err: errors.Wrap(err, "decode base64 tile data")}
}
