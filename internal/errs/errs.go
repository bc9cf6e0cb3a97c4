// Package errs defines the error taxonomy used across the destination
// connector and the RPC-header-safe truncation helper. Fallible
// operations return errors instead of panicking; most return an
// *IngestError, and a plain error (some builders in sqlgen, typemap and
// core return one) is classified as KindInternal by KindOf, so the RPC
// boundary is the only place that needs to know about status codes.
package errs

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Kind classifies an IngestError for RPC-status mapping and logging.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindRecoverable     Kind = "RECOVERABLE"
	KindIO              Kind = "IO"
	KindCrypto          Kind = "CRYPTO"
	KindWarehouse       Kind = "WAREHOUSE"
	KindPrecondition    Kind = "PRECONDITION"
	KindInternal        Kind = "INTERNAL"
)

// IngestError is the single boundary error type for the connector.
// It carries a Kind (for RPC-status mapping), a human message, and an
// optional wrapped cause.
type IngestError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *IngestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *IngestError) Unwrap() error { return e.Cause }

// New builds an IngestError with no wrapped cause.
func New(kind Kind, message string) *IngestError {
	return &IngestError{Kind: kind, Message: message}
}

// Wrap builds an IngestError of the given kind wrapping cause. If cause
// is itself an *IngestError, its Kind and Message stay only inside the
// wrapped chain; KindOf reports the outer kind.
func Wrap(kind Kind, message string, cause error) *IngestError {
	return &IngestError{Kind: kind, Message: message, Cause: cause}
}

// InvalidArgument is a convenience constructor matching the spec's
// InvalidArgument kind.
func InvalidArgument(format string, args ...any) *IngestError {
	return New(KindInvalidArgument, fmt.Sprintf(format, args...))
}

// IO is a convenience constructor for filesystem/stream failures.
func IO(format string, args ...any) *IngestError {
	return New(KindIO, fmt.Sprintf(format, args...))
}

// Malformed reports a structurally invalid input file; it surfaces as
// InvalidArgument at the RPC boundary, matching spec.md's treatment of
// "malformed file" under InvalidArgument.
func Malformed(format string, args ...any) *IngestError {
	return New(KindInvalidArgument, fmt.Sprintf(format, args...))
}

// Crypto wraps a cipher-library failure with the phase it occurred in.
func Crypto(phase string, cause error) *IngestError {
	return Wrap(KindCrypto, fmt.Sprintf("Error during decrypt %s", phase), cause)
}

// Precondition reports a contract violation such as ConnectionFactory
// rebinding or history-timestamp monotonicity.
func Precondition(format string, args ...any) *IngestError {
	return New(KindPrecondition, fmt.Sprintf(format, args...))
}

// Warehouse wraps a SQL execution error verbatim, preserving cause.Error().
func Warehouse(cause error) *IngestError {
	return Wrap(KindWarehouse, "warehouse execution error", cause)
}

// Recoverable reports a user-actionable condition (typically expired or
// invalid auth) that the caller should surface as a reconfiguration prompt.
func Recoverable(format string, args ...any) *IngestError {
	return New(KindRecoverable, fmt.Sprintf(format, args...))
}

// Internal reports a programming-bug-class failure.
func Internal(format string, args ...any) *IngestError {
	return New(KindInternal, fmt.Sprintf(format, args...))
}

// KindOf extracts the Kind of err if it is (or wraps) an *IngestError,
// defaulting to KindInternal for unrecognized errors.
func KindOf(err error) Kind {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindInternal
}

const truncationSuffix = "...[truncated]"

// Truncate truncates msg to fit within budget bytes, cutting at the
// nearest UTF-8 rune boundary and appending truncationSuffix when
// truncation actually occurred and budget has room for it; a budget no
// larger than the suffix gives a plain rune-boundary cut with no suffix.
// It never splits a multi-byte codepoint.
func Truncate(msg string, budget int) string {
	if budget <= 0 || len(msg) <= budget {
		return msg
	}

	keep := budget - len(truncationSuffix)
	if keep <= 0 {
		// Budget too small even for the suffix alone; just cut at a rune
		// boundary within budget and skip the suffix.
		return truncateAtRuneBoundary(msg, budget)
	}

	cut := truncateAtRuneBoundary(msg, keep)
	return cut + truncationSuffix
}

func truncateAtRuneBoundary(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
