package session

import (
	"sync"
	"time"

	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/widget"
)

// entry pairs a session with its own lock so that read-modify-write cycles
// for one user serialize without blocking other users.
type entry struct {
	mu sync.Mutex
	s  Session
}

// Store holds every known session, keyed by exact-match user ID.
// Sessions are created lazily on first contact and live until the process
// exits.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	// maxHistoryTurns caps stored history length; 0 means unbounded.
	maxHistoryTurns int

	logger log.Logger
}

// New creates an empty Store. A maxHistoryTurns of 0 disables the history cap.
func New(maxHistoryTurns int, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{
		sessions:        make(map[string]*entry),
		maxHistoryTurns: maxHistoryTurns,
		logger:          logger,
	}
}

// ensure returns the entry for userID, creating it on first reference.
func (st *Store) ensure(userID string) *entry {
	st.mu.RLock()
	e, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return e
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok = st.sessions[userID]; ok {
		return e
	}
	e = &entry{s: Session{createdAt: time.Now()}}
	st.sessions[userID] = e
	st.logger.Debug("session created", "user_id", userID)
	return e
}

// Ensure lazily creates the session for userID. Idempotent.
func (st *Store) Ensure(userID string) {
	st.ensure(userID)
}

// Count returns the number of known sessions without creating any.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// AddWidget appends a widget to the user's list, preserving insertion order.
// There is no uniqueness constraint on widget names.
func (st *Store) AddWidget(userID string, w widget.Widget) {
	e := st.ensure(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.widgets = append(e.s.widgets, w)
}

// RemoveWidget deletes the widget with the given ID from the user's list.
// Removing an absent ID is a no-op that still reports success.
func (st *Store) RemoveWidget(userID, widgetID string) {
	e := st.ensure(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.s.widgets[:0]
	for _, w := range e.s.widgets {
		if w.ID != widgetID {
			kept = append(kept, w)
		}
	}
	e.s.widgets = kept
}

// Widgets returns a copy of the user's widget list in creation order.
func (st *Store) Widgets(userID string) []widget.Widget {
	e := st.ensure(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]widget.Widget, len(e.s.widgets))
	copy(out, e.s.widgets)
	return out
}

// AppendExchange appends the user turn and the assistant turn, in that order,
// in one lock acquisition so concurrent requests cannot interleave a pair.
func (st *Store) AppendExchange(userID, userText, assistantText string) {
	e := st.ensure(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.s.history = append(e.s.history,
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleAssistant, Content: assistantText},
	)

	if st.maxHistoryTurns > 0 && len(e.s.history) > st.maxHistoryTurns {
		drop := len(e.s.history) - st.maxHistoryTurns
		e.s.history = append(e.s.history[:0], e.s.history[drop:]...)
	}
}

// History returns a copy of the user's chat history in conversation order.
func (st *Store) History(userID string) []Turn {
	e := st.ensure(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Turn, len(e.s.history))
	copy(out, e.s.history)
	return out
}

// CreatedAt reports when the user's session was first referenced.
func (st *Store) CreatedAt(userID string) time.Time {
	e := st.ensure(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.createdAt
}
