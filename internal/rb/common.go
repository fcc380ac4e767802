package rb

import "errors"

// ErrNotInitialized is returned when an operation is called on a handle that
// was never initialized or was already destroyed.
var ErrNotInitialized = errors.New("ring buffer: not initialized")

// ErrAlreadyInitialized is returned when a live handle is initialized again
// without an intervening Destroy.
var ErrAlreadyInitialized = errors.New("ring buffer: already initialized")

// ErrInvalidCapacity is returned when the requested capacity is not positive.
var ErrInvalidCapacity = errors.New("ring buffer: invalid capacity")

// ErrInsufficientSpace is returned by TryWrite when the request does not fit
// in the currently free space. The condition is transient.
var ErrInsufficientSpace = errors.New("ring buffer: insufficient space")

// ErrInsufficientData is returned by TryRead when the request exceeds the
// current occupancy. The condition is transient.
var ErrInsufficientData = errors.New("ring buffer: insufficient data")

// ErrRequestTooLarge is returned when a non-blocking request exceeds the
// total capacity. The condition is permanent for this buffer.
var ErrRequestTooLarge = errors.New("ring buffer: request exceeds capacity")

// notify raises a sticky wakeup token on a capacity-1 channel.
// If a token is already pending the signal is coalesced with it.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
