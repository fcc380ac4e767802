// Package rb provides a fixed-capacity, thread-safe byte ring buffer that
// bridges blocking and non-blocking producers/consumers over the same arena.
package rb

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Buffer is a fixed-capacity concurrent byte ring buffer.
//
// The short lock mu guards the arena and the indices and is held only across
// index arithmetic and the copy itself, never across a wait. Blocking calls
// of the same direction are serialized by wrMu/rdMu; non-blocking calls touch
// only the short lock and may interleave with a blocking call's multi-step
// fulfillment.
//
// The zero value is a valid, uninitialized handle: call Init before use.
type Buffer struct {
	// wrMu serializes blocking writers against each other.
	wrMu sync.Mutex

	// rdMu serializes blocking readers against each other.
	rdMu sync.Mutex

	_ cpu.CacheLinePad

	// mu is the short lock guarding the fields below.
	mu       sync.Mutex
	arena    []byte
	capacity int

	// tail indexes the oldest unread byte. The write position is always
	// derived as (tail+used)%capacity.
	tail int

	// used is the count of valid unread bytes.
	used int

	// lost counts bytes the caller reported as discarded outside the
	// buffer's own transfer logic. The transfer paths never touch it.
	lost uint64

	_ cpu.CacheLinePad

	// live states whether the handle is initialized. Definitive checks
	// happen under mu; the atomic allows cheap fast-path rejects.
	live atomic.Bool

	// dataAvail carries a sticky token after bytes are enqueued,
	// spaceAvail after bytes are dequeued. Only blocking calls wait on
	// them, and at most one waiter per channel exists because waiters
	// hold the direction mutex.
	dataAvail  chan struct{}
	spaceAvail chan struct{}

	// done is closed by Destroy to unblock waiters.
	done chan struct{}
}

// New returns an initialized buffer with an arena of capacity bytes.
func New(capacity int) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Init(capacity); err != nil {
		return nil, err
	}
	return b, nil
}

// Init allocates the arena and the synchronization primitives.
// It fails with ErrAlreadyInitialized on a live handle and with
// ErrInvalidCapacity if capacity is not positive. On failure nothing is
// retained by the handle.
func (b *Buffer) Init(capacity int) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.live.Load() {
		return ErrAlreadyInitialized
	}

	b.arena = make([]byte, capacity)
	b.capacity = capacity
	b.tail = 0
	b.used = 0
	b.lost = 0

	b.dataAvail = make(chan struct{}, 1)
	b.spaceAvail = make(chan struct{}, 1)
	b.done = make(chan struct{})

	b.live.Store(true)

	return nil
}

// Destroy releases the arena and invalidates the handle. Callers blocked in
// Write or Read are woken and return ErrNotInitialized. Destroying an already
// destroyed (or never initialized) handle fails with ErrNotInitialized.
// A destroyed handle may be re-initialized.
func (b *Buffer) Destroy() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.live.Load() {
		return ErrNotInitialized
	}

	b.live.Store(false)
	close(b.done)

	b.arena = nil
	b.capacity = 0
	b.tail = 0
	b.used = 0

	return nil
}

// Write writes all of p, blocking as long as necessary for readers to free
// space. It returns len(p) on success. Every byte is delivered exactly once,
// in order. Concurrent blocking writers are serialized.
//
// Write satisfies io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		if !b.live.Load() {
			return 0, ErrNotInitialized
		}
		return 0, nil
	}

	b.wrMu.Lock()
	defer b.wrMu.Unlock()

	written := 0
	for {
		b.mu.Lock()
		if !b.live.Load() {
			b.mu.Unlock()
			return written, ErrNotInitialized
		}

		// Copy as many bytes as currently fit
		n := b.put(p[written:])
		dataAvail, spaceAvail, done := b.dataAvail, b.spaceAvail, b.done
		b.mu.Unlock()

		written += n
		if n > 0 {
			notify(dataAvail)
		}

		if written == len(p) {
			return written, nil
		}

		// The arena is full, wait for a reader to drain
		select {
		case <-spaceAvail:
		case <-done:
			return written, ErrNotInitialized
		}
	}
}

// TryWrite writes all of p without blocking. It fails with
// ErrRequestTooLarge if p can never fit and with ErrInsufficientSpace if it
// does not fit right now; in both cases nothing is written.
func (b *Buffer) TryWrite(p []byte) (int, error) {
	b.mu.Lock()

	if !b.live.Load() {
		b.mu.Unlock()
		return 0, ErrNotInitialized
	}
	if len(p) > b.capacity {
		b.mu.Unlock()
		return 0, ErrRequestTooLarge
	}
	if len(p) > b.capacity-b.used {
		b.mu.Unlock()
		return 0, ErrInsufficientSpace
	}

	n := b.put(p)
	dataAvail := b.dataAvail
	b.mu.Unlock()

	if n > 0 {
		notify(dataAvail)
	}

	return n, nil
}

// Read reads up to len(p) bytes. It blocks only while nothing has been
// delivered yet: once at least one byte has been handed to the caller and no
// further bytes are immediately available it returns the partial count
// instead of waiting again. Callers must be prepared for short reads.
// Concurrent blocking readers are serialized.
//
// Read satisfies io.Reader semantics for len(p) > 0.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		if !b.live.Load() {
			return 0, ErrNotInitialized
		}
		return 0, nil
	}

	b.rdMu.Lock()
	defer b.rdMu.Unlock()

	var spaceAvail chan struct{}

	read := 0
	for read < len(p) {
		b.mu.Lock()
		if !b.live.Load() {
			b.mu.Unlock()
			return read, ErrNotInitialized
		}

		n := b.take(p[read:])
		dataAvail, done := b.dataAvail, b.done
		spaceAvail = b.spaceAvail
		b.mu.Unlock()

		if n == 0 {
			if read > 0 {
				// Short read: something was already delivered
				break
			}

			// Nothing delivered yet, wait for a writer
			select {
			case <-dataAvail:
			case <-done:
				return 0, ErrNotInitialized
			}
			continue
		}

		read += n
	}

	// A reader reports drained space exactly once per call
	notify(spaceAvail)

	return read, nil
}

// TryRead reads exactly len(p) bytes without blocking. It fails with
// ErrRequestTooLarge if len(p) exceeds the capacity and with
// ErrInsufficientData if fewer than len(p) bytes are stored; in both cases
// nothing is read.
func (b *Buffer) TryRead(p []byte) (int, error) {
	b.mu.Lock()

	if !b.live.Load() {
		b.mu.Unlock()
		return 0, ErrNotInitialized
	}
	if len(p) > b.capacity {
		b.mu.Unlock()
		return 0, ErrRequestTooLarge
	}
	if len(p) > b.used {
		b.mu.Unlock()
		return 0, ErrInsufficientData
	}

	n := b.take(p)
	spaceAvail := b.spaceAvail
	b.mu.Unlock()

	if n > 0 {
		notify(spaceAvail)
	}

	return n, nil
}

// Clear atomically resets the occupancy, the tail and the lost counter.
// The arena contents are not touched; stale bytes are simply unreachable.
// Writers blocked on a full arena are woken.
func (b *Buffer) Clear() error {
	b.mu.Lock()

	if !b.live.Load() {
		b.mu.Unlock()
		return ErrNotInitialized
	}

	b.tail = 0
	b.used = 0
	b.lost = 0
	spaceAvail := b.spaceAvail
	b.mu.Unlock()

	notify(spaceAvail)

	return nil
}

// ReportLoss adds n to the lost counter on behalf of a caller that discarded
// bytes outside the buffer's own logic, and returns the new total.
func (b *Buffer) ReportLoss(n uint64) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.live.Load() {
		return 0, ErrNotInitialized
	}

	b.lost += n
	return b.lost, nil
}

// Lost returns the current total of the lost counter.
func (b *Buffer) Lost() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.live.Load() {
		return 0, ErrNotInitialized
	}

	return b.lost, nil
}

// ClearLost resets the lost counter and returns the previous total.
func (b *Buffer) ClearLost() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.live.Load() {
		return 0, ErrNotInitialized
	}

	lost := b.lost
	b.lost = 0
	return lost, nil
}

// Capacity returns the total byte count of the arena, or 0 on a destroyed
// handle.
func (b *Buffer) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Used returns a snapshot of the occupancy. Concurrent operations may change
// it immediately after.
func (b *Buffer) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Free returns a snapshot of the currently free space.
func (b *Buffer) Free() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity - b.used
}
