// Package widget defines the widget data model and the natural-language
// intent parser that extracts widget-creation commands from chat messages.
package widget

import "github.com/google/uuid"

// Type identifies the kind of widget a user can create.
type Type string

// Supported widget types.
const (
	TypeButton  Type = "button"
	TypeCounter Type = "counter"
	TypeList    Type = "list"
)

// Config is the type-specific initial state of a widget. Its shape is fully
// determined by the widget type at creation time and is never validated
// afterwards.
type Config map[string]any

// Widget is a named, typed UI element record owned by a session.
type Widget struct {
	ID     string `json:"id"`
	Type   Type   `json:"type"`
	Name   string `json:"name"`
	Config Config `json:"config"`
}

// Command is a parsed widget-creation intent.
type Command struct {
	Type Type
	Name string
}

// DefaultConfig returns the initial config for the given widget type:
// {} for button, {"value": 0} for counter, {"items": []} for list.
func DefaultConfig(t Type) Config {
	switch t {
	case TypeCounter:
		return Config{"value": 0}
	case TypeList:
		return Config{"items": []any{}}
	default:
		return Config{}
	}
}

// New mints a widget from a parsed command with a fresh process-unique ID.
func New(cmd Command) Widget {
	return Widget{
		ID:     uuid.NewString(),
		Type:   cmd.Type,
		Name:   cmd.Name,
		Config: DefaultConfig(cmd.Type),
	}
}

// Label returns the human-readable (accusative) Russian label used in
// creation confirmations.
func (t Type) Label() string {
	switch t {
	case TypeButton:
		return "кнопку"
	case TypeCounter:
		return "счётчик"
	case TypeList:
		return "список"
	default:
		return "виджет"
	}
}
