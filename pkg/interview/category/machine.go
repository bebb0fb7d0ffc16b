package category

// Machine resolves forward transitions over a fixed category order.
// Traversal never moves backward and the terminal category absorbs every
// step after it.
type Machine struct {
	order  []Category
	byName map[Category]int
}

// NewMachine builds a machine over the default interview order.
func NewMachine() *Machine {
	return NewMachineWithOrder(DefaultOrder())
}

// NewMachineWithOrder builds a machine over a custom order. The last entry
// is the terminal, absorbing category. An empty order falls back to the
// default.
func NewMachineWithOrder(order []Category) *Machine {
	if len(order) == 0 {
		order = DefaultOrder()
	}
	byName := make(map[Category]int, len(order))
	for i, c := range order {
		byName[c] = i
	}
	return &Machine{order: order, byName: byName}
}

// First returns the opening category.
func (m *Machine) First() Category {
	return m.order[0]
}

// Terminal returns the absorbing final category.
func (m *Machine) Terminal() Category {
	return m.order[len(m.order)-1]
}

// Known reports whether c belongs to the configured order. Callers log the
// reset Next performs on unrecognized input.
func (m *Machine) Known(c Category) bool {
	_, ok := m.byName[c]
	return ok
}

// Next returns the category that follows current. It is total: the
// terminal category maps to itself, and an unrecognized value resets to
// the first category instead of failing the conversation.
func (m *Machine) Next(current Category) Category {
	i, ok := m.byName[current]
	if !ok {
		return m.First()
	}
	if i >= len(m.order)-1 {
		return m.Terminal()
	}
	return m.order[i+1]
}

// Index returns the position of c in the order, or -1 when unknown.
func (m *Machine) Index(c Category) int {
	i, ok := m.byName[c]
	if !ok {
		return -1
	}
	return i
}

// All returns a copy of the configured order.
func (m *Machine) All() []Category {
	out := make([]Category, len(m.order))
	copy(out, m.order)
	return out
}

// Progress maps c to a 0..1 completion ratio for status reporting. The
// terminal category reports 1.0; unknown values report 0.
func (m *Machine) Progress(c Category) float64 {
	i, ok := m.byName[c]
	if !ok {
		return 0
	}
	if len(m.order) == 1 {
		return 1
	}
	return float64(i) / float64(len(m.order)-1)
}
