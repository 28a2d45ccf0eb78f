package session

// Marker is the per-browsing-session flag. It survives page loads but not
// a browser restart.
type Marker interface {
	Active() bool
	Activate()
	Clear()
}

type MemoryMarker struct {
	active      bool
	activations int
}

func NewMemoryMarker(active bool) *MemoryMarker {
	return &MemoryMarker{active: active}
}

func (m *MemoryMarker) Active() bool { return m.active }

func (m *MemoryMarker) Activate() {
	if m.active {
		return
	}
	m.active = true
	m.activations++
}

func (m *MemoryMarker) Clear() { m.active = false }

// Activations counts inactive-to-active transitions.
func (m *MemoryMarker) Activations() int { return m.activations }
