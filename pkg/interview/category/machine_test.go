package category

import "testing"

func TestNextFollowsOrder(t *testing.T) {
	m := NewMachine()

	tests := []struct {
		name    string
		current Category
		want    Category
	}{
		{"start to functionality", Start, Functionality},
		{"functionality to users", Functionality, Users},
		{"users to demographics", Users, Demographics},
		{"demographics to design", Demographics, Design},
		{"design to market", Design, Market},
		{"market to technical", Market, Technical},
		{"technical to review", Technical, Review},
		{"review to complete", Review, Complete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Next(tt.current); got != tt.want {
				t.Errorf("Next(%s) = %s, want %s", tt.current, got, tt.want)
			}
		})
	}
}

func TestNextTerminalIsAbsorbing(t *testing.T) {
	m := NewMachine()
	if got := m.Next(Complete); got != Complete {
		t.Errorf("Next(COMPLETE) = %s, want COMPLETE", got)
	}
	// Repeated application stays put.
	c := Complete
	for i := 0; i < 5; i++ {
		c = m.Next(c)
	}
	if c != Complete {
		t.Errorf("repeated Next from COMPLETE drifted to %s", c)
	}
}

func TestNextUnknownResetsToFirst(t *testing.T) {
	m := NewMachine()
	if got := m.Next(Category("BOGUS")); got != Start {
		t.Errorf("Next(unknown) = %s, want %s", got, Start)
	}
	if m.Known(Category("BOGUS")) {
		t.Error("Known(unknown) = true, want false")
	}
	if !m.Known(Market) {
		t.Error("Known(MARKET) = false, want true")
	}
}

func TestTraversalIsMonotone(t *testing.T) {
	m := NewMachine()
	current := m.First()
	prevIndex := m.Index(current)

	for steps := 0; steps < len(m.All())+3; steps++ {
		next := m.Next(current)
		nextIndex := m.Index(next)
		if next != Complete && nextIndex <= prevIndex {
			t.Fatalf("advance from %s to %s did not increase index (%d -> %d)",
				current, next, prevIndex, nextIndex)
		}
		current = next
		prevIndex = nextIndex
	}
	if current != Complete {
		t.Errorf("full traversal ended at %s, want COMPLETE", current)
	}
}

func TestCustomOrder(t *testing.T) {
	m := NewMachineWithOrder([]Category{Start, Review, Complete})
	if got := m.Next(Start); got != Review {
		t.Errorf("Next(START) = %s, want REVIEW", got)
	}
	if got := m.Next(Review); got != Complete {
		t.Errorf("Next(REVIEW) = %s, want COMPLETE", got)
	}
	if got := m.Next(Functionality); got != Start {
		t.Errorf("Next of category outside custom order = %s, want reset to START", got)
	}
}

func TestProgress(t *testing.T) {
	m := NewMachine()
	if got := m.Progress(Start); got != 0 {
		t.Errorf("Progress(START) = %f, want 0", got)
	}
	if got := m.Progress(Complete); got != 1 {
		t.Errorf("Progress(COMPLETE) = %f, want 1", got)
	}
	mid := m.Progress(Design)
	if mid <= 0 || mid >= 1 {
		t.Errorf("Progress(DESIGN) = %f, want strictly between 0 and 1", mid)
	}
	if got := m.Progress(Category("BOGUS")); got != 0 {
		t.Errorf("Progress(unknown) = %f, want 0", got)
	}
}
