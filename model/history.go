package model

// historySize is how many recent grid hashes are kept for cycle detection
const historySize = 5

// History remembers the hashes of recent generations so a host can spot a
// still life or a short cycle
type History struct {
	hashes []string
}

// UpdateHistory adds the grid's current state to history and maintains size
func (h *History) UpdateHistory(g *Grid) {
	h.hashes = append(h.hashes, g.GetGridHash())

	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant reports whether g matches one of the last three recorded
// generations, i.e. a still life or a cycle of period up to 3
func (h *History) IsStagnant(g *Grid) bool {
	if len(h.hashes) < 3 {
		return false
	}

	currentHash := g.GetGridHash()
	for i := len(h.hashes) - 1; i >= len(h.hashes)-3; i-- {
		if h.hashes[i] == currentHash {
			return true
		}
	}
	return false
}

// Len returns the number of recorded hashes
func (h *History) Len() int { return len(h.hashes) }

// Clear forgets every recorded hash
func (h *History) Clear() { h.hashes = nil }
