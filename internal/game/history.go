package game

// History is a bounded arena of state versions, most recent last.
// Versions are clones taken before a mutating action and are never
// modified while they sit in the arena. It is only touched under the game
// lock.
type History struct {
	versions []*State
	depth    int
}

// NewHistory creates an empty history keeping at most depth versions.
func NewHistory(depth int) *History {
	h := &History{}
	h.Reset(depth)
	return h
}

// Record stores a clone of s. The oldest version is evicted once the
// arena is full.
func (h *History) Record(s *State) {
	h.versions = append(h.versions, s.Clone())
	if len(h.versions) > h.depth {
		h.versions[0] = nil
		h.versions = h.versions[1:]
	}
}

// Pop removes and returns the most recent version, or nil if empty.
// The caller owns the returned state.
func (h *History) Pop() *State {
	n := len(h.versions)
	if n == 0 {
		return nil
	}
	s := h.versions[n-1]
	h.versions[n-1] = nil
	h.versions = h.versions[:n-1]
	return s
}

// Discard drops the most recent version without restoring it. Handlers
// use it when they reject after recording.
func (h *History) Discard() {
	h.Pop()
}

// Size returns the number of recorded versions.
func (h *History) Size() int {
	return len(h.versions)
}

// Reset empties the arena and sets its depth for the next game.
func (h *History) Reset(depth int) {
	if depth < 1 {
		depth = 1
	}
	h.versions = nil
	h.depth = depth
}
