package models

import "strings"

// MatchesSearch reports whether q occurs in the title or description,
// ignoring case. An empty query matches everything.
func (t *Task) MatchesSearch(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// MatchesSearch reports whether q occurs in the subtask title, ignoring case.
func (s SubTask) MatchesSearch(q string) bool {
	return q == "" || strings.Contains(strings.ToLower(s.Title), strings.ToLower(q))
}
