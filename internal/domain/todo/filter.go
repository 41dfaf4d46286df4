package todo

// Filter holds optional filter criteria for listing todos.
// Zero-value fields mean "no filter" for that dimension.
type Filter struct {
	IsComplete *bool
}

// Matches reports whether t satisfies every criterion set on f.
func (f Filter) Matches(t *Todo) bool {
	if f.IsComplete != nil && t.IsComplete != *f.IsComplete {
		return false
	}
	return true
}
