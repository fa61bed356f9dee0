// Package league tracks the mapping from league tag to a stable index.
// Indexes are assigned in first-seen order during the historical pass and
// frozen afterwards so future/inference passes resolve the same ordering.
package league

// Identifier assigns and resolves league indexes.
type Identifier struct {
	indexes map[string]int
	order   []string
	frozen  bool
}

// NewIdentifier creates an empty identifier.
func NewIdentifier() *Identifier {
	return &Identifier{
		indexes: make(map[string]int),
	}
}

// Observe resolves the index for a league, assigning the next first-seen
// index when the league is new. After Freeze, unseen leagues resolve to -1
// instead of being assigned.
func (i *Identifier) Observe(league string) int {
	if league == "" {
		return -1
	}
	if idx, ok := i.indexes[league]; ok {
		return idx
	}
	if i.frozen {
		return -1
	}
	idx := len(i.order)
	i.indexes[league] = idx
	i.order = append(i.order, league)
	return idx
}

// Index returns the index for a league without assigning one.
func (i *Identifier) Index(league string) (int, bool) {
	idx, ok := i.indexes[league]
	return idx, ok
}

// Freeze stops further index assignment.
func (i *Identifier) Freeze() { i.frozen = true }

// Thaw re-enables index assignment for a new historical pass. Existing
// indexes are never reassigned.
func (i *Identifier) Thaw() { i.frozen = false }

// Frozen reports whether the identifier stopped assigning indexes.
func (i *Identifier) Frozen() bool { return i.frozen }

// Leagues returns the known leagues in first-seen order.
func (i *Identifier) Leagues() []string {
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// Reset drops all assignments and unfreezes the identifier.
func (i *Identifier) Reset() {
	i.indexes = make(map[string]int)
	i.order = nil
	i.frozen = false
}
