package exam

import (
	"context"
	"log"
	"sync"
)

// Hub owns the single active attempt: it resolves a test code to a
// running Flow, creating or resuming the session as needed, and manages
// the optional server-side timer goroutine. Only one attempt is live at
// a time; starting a test while another is active replaces it.
type Hub struct {
	mu          sync.Mutex
	store       *Store
	serverTimer bool

	flow   *Flow
	testID string
	cancel context.CancelFunc // stops the server timer, if running
}

func NewHub(store *Store, serverTimer bool) *Hub {
	return &Hub{store: store, serverTimer: serverTimer}
}

// Start enters a test by code: creates a fresh session or resumes the
// persisted one when it belongs to the same test.
func (h *Hub) Start(ctx context.Context, code string) (View, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startLocked(ctx, code)
}

func (h *Hub) startLocked(ctx context.Context, code string) (View, error) {
	t, err := h.store.GetTestByCode(ctx, code)
	if err != nil {
		return View{}, err
	}
	f, err := StartOrResume(ctx, h.store, t)
	if err != nil {
		return View{}, err
	}
	h.stopTimerLocked()
	h.flow = f
	h.testID = t.ID
	if h.serverTimer {
		// Detached from the request: the countdown outlives the call and
		// stops on exit or replacement.
		tctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		go func() {
			_ = RunTimer(tctx, f, func() { log.Printf("session %s: time is up", t.Code) })
		}()
	}
	return f.View(), nil
}

// flowFor returns the live flow for a code, transparently resuming
// after a server restart (the persisted session carries all state).
func (h *Hub) flowFor(ctx context.Context, code string) (*Flow, error) {
	t, err := h.store.GetTestByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if h.flow != nil && h.testID == t.ID {
		return h.flow, nil
	}
	if _, err := h.startLocked(ctx, code); err != nil {
		return nil, err
	}
	return h.flow, nil
}

func (h *Hub) ChooseLevel(ctx context.Context, code string, level Level) (View, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, err := h.flowFor(ctx, code)
	if err != nil {
		return View{}, err
	}
	return f.ChooseLevel(ctx, level)
}

func (h *Hub) Advance(ctx context.Context, code string) (View, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, err := h.flowFor(ctx, code)
	if err != nil {
		return View{}, err
	}
	return f.Advance(ctx)
}

// Tick is the browser-driven countdown step, used when the server timer
// is off.
func (h *Hub) Tick(ctx context.Context, code string) (View, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, err := h.flowFor(ctx, code)
	if err != nil {
		return View{}, false, err
	}
	up, err := f.Tick(ctx)
	if err != nil {
		return View{}, false, err
	}
	return f.View(), up, nil
}

// View is a pure read: it never creates a session. Without a live flow
// it resumes from the stored session, and reports ErrNoSession when
// none belongs to this test.
func (h *Hub) View(ctx context.Context, code string) (View, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, err := h.store.GetTestByCode(ctx, code)
	if err != nil {
		return View{}, err
	}
	if h.flow != nil && h.testID == t.ID {
		return h.flow.View(), nil
	}
	prev, err := h.store.GetSession(ctx)
	if err != nil {
		return View{}, err
	}
	if prev == nil || prev.TestID != t.ID {
		return View{}, ErrNoSession
	}
	if _, err := h.startLocked(ctx, code); err != nil {
		return View{}, err
	}
	return h.flow.View(), nil
}

// Exit tears the attempt down: timer cancelled, session record removed.
func (h *Hub) Exit(ctx context.Context, code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, err := h.store.GetTestByCode(ctx, code)
	if err != nil {
		return err
	}
	if h.flow == nil || h.testID != t.ID {
		return h.store.ClearSession(ctx)
	}
	h.stopTimerLocked()
	f := h.flow
	h.flow = nil
	h.testID = ""
	return f.Exit(ctx)
}

func (h *Hub) stopTimerLocked() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}
