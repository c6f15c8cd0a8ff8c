package widget

import "strings"

// trigger pairs a widget type with the phrase that creates it.
type trigger struct {
	typ    Type
	phrase string
}

// triggers are scanned in order: button first, then counter, then list.
// Matching is a case-insensitive substring search, so a phrase appearing
// mid-sentence still matches. The counter list carries the "счетчик"
// spelling variant (е instead of ё).
var triggers = []trigger{
	{TypeButton, "создай кнопку"},
	{TypeButton, "добавь кнопку"},
	{TypeButton, "сделай кнопку"},
	{TypeCounter, "создай счётчик"},
	{TypeCounter, "добавь счётчик"},
	{TypeCounter, "сделай счётчик"},
	{TypeCounter, "создай счетчик"},
	{TypeList, "создай список"},
	{TypeList, "добавь список"},
	{TypeList, "сделай список"},
}

// ParseCommand inspects a raw chat message and extracts a widget-creation
// command, if any. The widget name is everything in the original-case text
// after the first occurrence of the matched phrase, with surrounding
// whitespace and one layer of quote characters stripped.
//
// A match whose resulting name is empty produces no command; scanning
// continues with the remaining trigger phrases. If nothing matches, the
// message is ordinary chat and ok is false.
func ParseCommand(text string) (Command, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	orig := strings.TrimSpace(text)

	for _, tr := range triggers {
		idx := strings.Index(lower, tr.phrase)
		if idx < 0 {
			continue
		}
		name := trimName(orig[min(idx+len(tr.phrase), len(orig)):])
		if name == "" {
			continue
		}
		return Command{Type: tr.typ, Name: name}, true
	}

	return Command{}, false
}

// trimName strips surrounding whitespace and a single layer of quotes.
func trimName(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
