package browser

// Selection is an optional cursor into a list. The zero value selects nothing.
type Selection struct {
	index int
	set   bool
}

// Index returns the selected index and whether anything is selected.
func (s Selection) Index() (int, bool) {
	return s.index, s.set
}

// Next moves forward, wrapping from the last item to the first. With no
// selection it selects the first item. It returns false and clears the
// selection when the list is empty.
func (s *Selection) Next(n int) bool {
	if n <= 0 {
		s.Clear()
		return false
	}
	if !s.set {
		return s.Select(0, n)
	}
	return s.Select((s.index+1)%n, n)
}

// Previous moves backward, wrapping from the first item to the last. With no
// selection it selects the first item.
func (s *Selection) Previous(n int) bool {
	if n <= 0 {
		s.Clear()
		return false
	}
	if !s.set {
		return s.Select(0, n)
	}
	if s.index == 0 {
		return s.Select(n-1, n)
	}
	return s.Select(s.index-1, n)
}

// Select sets the cursor if i is in range.
func (s *Selection) Select(i, n int) bool {
	if i < 0 || i >= n {
		return false
	}
	s.index, s.set = i, true
	return true
}

func (s *Selection) Clear() {
	s.index, s.set = 0, false
}

// Clamp keeps the selection valid for a list of length n.
func (s *Selection) Clamp(n int) {
	if !s.set {
		return
	}
	switch {
	case n <= 0:
		s.Clear()
	case s.index >= n:
		s.index = n - 1
	}
}
