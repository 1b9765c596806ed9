package cbor

import (
	"fmt"
	"strconv"
	"strings"
)

const resumableDefault = false

var (
	// ErrNestingTooDeep is returned when an array or map is opened while
	// MaxNesting containers are already open.
	ErrNestingTooDeep error = errStructural("cbor: arrays and maps nested too deeply")

	// ErrArrayOrMapTooLong is returned when a container holds, or declares,
	// more than MaxItemsInContainer items.
	ErrArrayOrMapTooLong error = errStructural("cbor: array or map has too many items")

	// ErrOffsetOverflow is returned when a container is opened beyond
	// MaxOffset bytes into the output.
	ErrOffsetOverflow error = errStructural("cbor: output offset too large for container start")

	// ErrCloseMismatch is returned when a close has no open container or
	// names a different container kind than the one open.
	ErrCloseMismatch error = errStructural("cbor: close does not match open container")

	// ErrUnexpectedBreak is returned when a break appears outside an
	// indefinite-length container.
	ErrUnexpectedBreak error = errStructural("cbor: break outside indefinite-length container")

	// ErrUnexpectedEnd is returned when the input ends before the items
	// declared by its own headers.
	ErrUnexpectedEnd error = errStructural("cbor: input ended inside an item or container")

	// ErrAllocatorOutOfMemory is returned when an allocator cannot satisfy
	// a request. Retrying with a larger pool is up to the caller.
	ErrAllocatorOutOfMemory error = errStructural("cbor: string allocator out of memory")

	// ErrAllocationDisabled is returned when an item needs string
	// allocation and no allocator is configured.
	ErrAllocationDisabled error = errStructural("cbor: string allocation not configured")

	// ErrBufferTooSmall is returned when the output does not fit the
	// caller-supplied buffer.
	ErrBufferTooSmall error = errStructural("cbor: output buffer too small")

	// ErrArrayOrMapStillOpen is returned by Finish when containers remain
	// open.
	ErrArrayOrMapStillOpen error = errStructural("cbor: array or map still open")

	// ErrNoMoreItems is returned by GetNext at the end of a complete input.
	ErrNoMoreItems error = errStructural("cbor: no more items")

	// ErrExtraBytes is returned by Finish when input remains after the
	// last complete item.
	ErrExtraBytes error = errStructural("cbor: extra bytes after last item")

	// ErrMapLabelType is returned when a map label has a type the decode
	// mode does not accept.
	ErrMapLabelType error = errStructural("cbor: map label of unsupported type")

	// ErrIndefiniteChunk is returned when an indefinite-length string
	// contains something other than a definite string of the same type.
	ErrIndefiniteChunk error = errStructural("cbor: bad chunk in indefinite-length string")

	// ErrIndefiniteForbidden is returned when an indefinite-length item is
	// present but the decode mode forbids it.
	ErrIndefiniteForbidden error = errStructural("cbor: indefinite-length item not allowed")

	// ErrUnsupported is returned for reserved additional info values and
	// simple values this decoder does not support.
	ErrUnsupported error = errStructural("cbor: unsupported or reserved encoding")

	// ErrTooManyTags is returned when an item carries more than
	// MaxTagsPerItem tags or a caller tag list exceeds MaxCallerTags.
	ErrTooManyTags error = errStructural("cbor: too many tags")

	// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8
	ErrInvalidUTF8 error = errStructural("cbor: invalid UTF-8 in text string")

	// ErrOddMapItems is returned when a map is closed after a label with
	// no value.
	ErrOddMapItems error = errStructural("cbor: map closed with a dangling label")

	// ErrBadTagContent is returned when a date or bignum tag wraps an item
	// of the wrong type.
	ErrBadTagContent error = errStructural("cbor: tag content has the wrong type")

	// ErrIntOverflow is returned when a negative integer does not fit an
	// int64.
	ErrIntOverflow error = errStructural("cbor: integer overflows int64")

	// ErrTagWithoutContent is returned when a container is closed, or the
	// encoding finished, right after a tag that has no item yet.
	ErrTagWithoutContent error = errStructural("cbor: tag without content item")
)

// Error is the interface satisfied
// by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable returns whether
	// or not the error means that
	// the stream of data is malformed
	// and the information is unrecoverable.
	Resumable() bool
}

// errStructural is a malformed-input or misuse error. None of them are
// resumable: the context that reported it stops doing work.
type errStructural string

func (e errStructural) Error() string   { return string(e) }
func (e errStructural) Resumable() bool { return false }

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable returns whether or not the error means that the stream of data is
// malformed and the information is unrecoverable.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of the
// input that caused the problem to be identified. Underlying errors
// can be retrieved using Cause() or errors.Is.
//
// The input error is not modified - a new error is returned.
func WrapError(err error, ctx ...any) error {
	if err == nil {
		return nil
	}
	return errWrapped{cause: err, ctx: ctxString(ctx)}
}

func ctxString(ctx []any) string {
	parts := make([]string, 0, len(ctx))
	for _, c := range ctx {
		parts = append(parts, fmt.Sprint(c))
	}
	return strings.Join(parts, "/")
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	}
	return e.cause.Error()
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

// UintOverflow is returned when a declared length does not fit
// the platform int.
type UintOverflow struct {
	Value         uint64 // value of the uint
	FailedBitsize int    // the bit size that couldn't fit the value
}

// Error implements the error interface
func (u UintOverflow) Error() string {
	return "cbor: " + strconv.FormatUint(u.Value, 10) + " overflows int" + strconv.Itoa(u.FailedBitsize)
}

// Resumable is always 'false' for length overflows
func (u UintOverflow) Resumable() bool { return false }
