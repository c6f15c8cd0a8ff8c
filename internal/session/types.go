// Package session owns all per-user conversation state: the widget list and
// the chat history, keyed by an opaque externally supplied user identifier.
//
// State is held in memory for the lifetime of the process; persistence across
// restarts is out of scope. The Store is safe for concurrent use: mutations
// for the same user serialize on a per-session lock, while different users
// never block each other.
package session

import (
	"time"

	"github.com/89534449434inside-eng/ai-platform/internal/widget"
)

// Role constants define valid turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single conversation entry. Ordering equals conversation order.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-user container of widgets and chat history.
// All mutation goes through the Store; the struct itself is never handed out.
type Session struct {
	widgets   []widget.Widget
	history   []Turn
	createdAt time.Time
}
