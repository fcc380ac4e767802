// Package bytering provides a fixed-capacity, thread-safe byte ring buffer
// for exchanging byte streams between threads and decoupling synchronous
// from asynchronous io.
//
// The blocking Write/Read pair follows io.Writer/io.Reader semantics: Write
// delivers every byte, blocking for space, and Read blocks only until at
// least one byte is available (short-read contract). The non-blocking
// TryWrite/TryRead pair is all-or-nothing and intended for polling callers.
package bytering

import (
	"io"

	"github.com/FerroO2000/bytering/internal/rb"
)

// Buffer is a fixed-capacity concurrent byte ring buffer.
type Buffer = rb.Buffer

// ErrNotInitialized is returned when operating on a handle that was never
// initialized or was already destroyed.
var ErrNotInitialized = rb.ErrNotInitialized

// ErrAlreadyInitialized is returned by Init on a live handle.
var ErrAlreadyInitialized = rb.ErrAlreadyInitialized

// ErrInvalidCapacity is returned when the requested capacity is not positive.
var ErrInvalidCapacity = rb.ErrInvalidCapacity

// ErrInsufficientSpace is returned by TryWrite when the request does not fit
// right now.
var ErrInsufficientSpace = rb.ErrInsufficientSpace

// ErrInsufficientData is returned by TryRead when the request exceeds the
// current occupancy.
var ErrInsufficientData = rb.ErrInsufficientData

// ErrRequestTooLarge is returned when a non-blocking request can never fit.
var ErrRequestTooLarge = rb.ErrRequestTooLarge

var _ io.Writer = (*Buffer)(nil)
var _ io.Reader = (*Buffer)(nil)

// New returns an initialized buffer with an arena of capacity bytes.
func New(capacity int) (*Buffer, error) {
	return rb.New(capacity)
}
