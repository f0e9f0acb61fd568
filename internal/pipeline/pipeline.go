package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kmacinski/tinydiff/internal/diff"
	"github.com/kmacinski/tinydiff/internal/logging"
)

// ErrFetchFailed wraps every genuine fetch failure returned by Publish
var ErrFetchFailed = errors.New("fetch failed")

// State of the pipeline. Rendered, Cancelled and Failed are resting states
// like Idle; they record how the last fetch ended.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateRendered
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateRendered:
		return "rendered"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher produces raw unified diff text for a selection
type Fetcher interface {
	FetchDiff(ctx context.Context, repo, path, commit string) (string, error)
	ResolveWorkingCopyPath(repo, path string) (string, error)
}

// Renderer turns raw diff text into a document
type Renderer interface {
	Render(raw, previewPath string) diff.Document
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// Pipeline owns the document shown by one diff surface. SetSelection, Clear,
// Refresh and Publish must be called from the UI goroutine; fetching and
// rendering happen on worker goroutines.
type Pipeline struct {
	fetcher  Fetcher
	renderer Renderer
	log      logging.Logger

	ctx  context.Context
	stop context.CancelFunc

	mu         sync.Mutex
	seq        uint64
	state      State
	inflight   *Handle
	desired    Selection
	hasDesired bool
	shown      Selection
	hasShown   bool
	current    diff.Document
	observers  map[int]func(diff.Document)
	nextObs    int
}

// New creates a pipeline showing the placeholder document
func New(fetcher Fetcher, renderer Renderer, opts ...Option) *Pipeline {
	ctx, stop := context.WithCancel(context.Background())
	p := &Pipeline{
		fetcher:   fetcher,
		renderer:  renderer,
		log:       logging.Nop(),
		ctx:       ctx,
		stop:      stop,
		current:   diff.Placeholder(""),
		observers: make(map[int]func(diff.Document)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit starts fetching and rendering sel on a worker goroutine. The fetch
// is not tracked; its result is only published when it came from
// SetSelection or Refresh.
func (p *Pipeline) Submit(sel Selection) *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitLocked(sel)
}

func (p *Pipeline) submitLocked(sel Selection) *Handle {
	p.seq++
	ctx, cancel := context.WithCancel(p.ctx)
	h := newHandle(p.seq, sel, cancel)
	p.log.Debug("fetch submitted", "token", h.token, "selection", sel.String())
	go p.run(ctx, h)
	return h
}

func (p *Pipeline) run(ctx context.Context, h *Handle) {
	res := Result{Token: h.token, Selection: h.sel}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("fetch panicked: %v", r)
			res.Document = diff.Document{}
		}
		h.finish(res)
	}()

	raw, err := p.fetcher.FetchDiff(ctx, h.sel.Repository, h.sel.Path, h.sel.Commit)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		res.Err = err
		return
	}

	// A commit's blob is not on disk; only working copy files get a preview.
	var preview string
	if h.sel.IsWorkingCopy() {
		preview, err = p.fetcher.ResolveWorkingCopyPath(h.sel.Repository, h.sel.Path)
		if err != nil {
			p.log.Debug("no preview path", "path", h.sel.Path, "error", err)
			preview = ""
		}
	}
	res.Document = p.renderer.Render(raw, preview)
}

// SetSelection makes sel the desired selection. Selecting the desired
// selection again does nothing and returns nil. Selecting the one already
// shown only drops the in-flight fetch. Otherwise the in-flight fetch is
// cancelled and a new one is returned.
func (p *Pipeline) SetSelection(sel Selection) *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hasDesired && p.desired == sel {
		return nil
	}
	p.cancelLocked()
	p.desired, p.hasDesired = sel, true

	if p.hasShown && p.shown == sel {
		p.state = StateIdle
		return nil
	}

	p.state = StateFetching
	p.inflight = p.submitLocked(sel)
	return p.inflight
}

// Refresh fetches the desired selection again, e.g. after the working copy
// changed on disk. It returns nil when nothing is selected.
func (p *Pipeline) Refresh() *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasDesired {
		return nil
	}
	p.cancelLocked()
	p.state = StateFetching
	p.inflight = p.submitLocked(p.desired)
	return p.inflight
}

// Clear drops the selection and publishes the placeholder document
func (p *Pipeline) Clear() {
	p.mu.Lock()
	p.cancelLocked()
	p.hasDesired, p.hasShown = false, false
	p.desired, p.shown = Selection{}, Selection{}
	p.state = StateIdle
	notify := p.replaceLocked(diff.Placeholder(""))
	p.mu.Unlock()

	notify()
}

func (p *Pipeline) cancelLocked() {
	if p.inflight != nil {
		p.log.Debug("fetch cancelled", "token", p.inflight.token, "selection", p.inflight.sel.String())
		p.inflight.Cancel()
		p.inflight = nil
	}
}

// Publish applies the result of a fetch. It reports whether the document was
// replaced. Results of superseded or cancelled fetches are dropped. A failed
// fetch publishes the placeholder and returns an error wrapping
// ErrFetchFailed.
func (p *Pipeline) Publish(res Result) (bool, error) {
	p.mu.Lock()

	if p.inflight == nil || p.inflight.token != res.Token {
		p.mu.Unlock()
		p.log.Debug("stale result dropped", "token", res.Token, "selection", res.Selection.String())
		return false, nil
	}
	p.inflight = nil

	if errors.Is(res.Err, context.Canceled) {
		p.state = StateCancelled
		p.mu.Unlock()
		p.log.Debug("cancelled result dropped", "token", res.Token)
		return false, nil
	}

	var err error
	doc := res.Document
	if res.Err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrFetchFailed, res.Selection.Path, res.Err)
		doc = diff.Placeholder("")
		p.state = StateFailed
		p.hasShown = false
		p.log.Warn("fetch failed", "token", res.Token, "selection", res.Selection.String(), "error", res.Err)
	} else {
		p.state = StateRendered
		p.shown, p.hasShown = res.Selection, true
		p.log.Debug("document published", "token", res.Token, "rows", len(doc.Rows))
	}
	notify := p.replaceLocked(doc)
	p.mu.Unlock()

	notify()
	return true, err
}

// replaceLocked swaps the current document and returns the observer
// notification to run once the lock is released.
func (p *Pipeline) replaceLocked(doc diff.Document) func() {
	p.current = doc
	observers := make([]func(diff.Document), 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	return func() {
		for _, fn := range observers {
			fn(doc)
		}
	}
}

// Subscribe registers fn to be called with every published document. The
// returned function removes it.
func (p *Pipeline) Subscribe(fn func(diff.Document)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextObs
	p.nextObs++
	p.observers[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

// Current returns the published document
func (p *Pipeline) Current() diff.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// State returns the pipeline state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Desired returns the selection last asked for, if any
func (p *Pipeline) Desired() (Selection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desired, p.hasDesired
}

// Shown returns the selection whose document is published, if any
func (p *Pipeline) Shown() (Selection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown, p.hasShown
}

// Close cancels every outstanding fetch
func (p *Pipeline) Close() {
	p.stop()
}
