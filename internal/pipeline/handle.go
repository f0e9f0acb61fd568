package pipeline

import (
	"context"
	"sync"

	"github.com/kmacinski/tinydiff/internal/diff"
)

// Result is the outcome of one fetch. Err is set when the fetch failed or
// was cancelled, Document otherwise.
type Result struct {
	Token     uint64
	Selection Selection
	Document  diff.Document
	Err       error
}

// Handle is one submitted fetch. Its result is assigned exactly once.
type Handle struct {
	token  uint64
	sel    Selection
	cancel context.CancelFunc

	once   sync.Once
	done   chan struct{}
	result Result
}

func newHandle(token uint64, sel Selection, cancel context.CancelFunc) *Handle {
	return &Handle{
		token:  token,
		sel:    sel,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Token identifies the fetch; later fetches have larger tokens
func (h *Handle) Token() uint64 { return h.token }

// Selection returns the selection the fetch was submitted for
func (h *Handle) Selection() Selection { return h.sel }

// Cancel asks the fetch to stop. It is safe to call more than once and after
// completion.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed once the result is available
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the fetch completes and returns its result
func (h *Handle) Wait() Result {
	<-h.done
	return h.result
}

// finish assigns the result. Only the first call has an effect.
func (h *Handle) finish(r Result) {
	h.once.Do(func() {
		h.result = r
		h.cancel()
		close(h.done)
	})
}
