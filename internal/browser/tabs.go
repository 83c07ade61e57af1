package browser

import "fmt"

// Tabs is a fixed, non-empty collection of tabs with one active at a time.
type Tabs struct {
	tabs   []*Tab
	active int
}

// NewTabs creates n root tabs. Values below one are raised to one.
func NewTabs(n int, autoLoadStat bool) *Tabs {
	if n < 1 {
		n = 1
	}
	ts := &Tabs{tabs: make([]*Tab, n)}
	for i := range ts.tabs {
		t := NewTab()
		t.autoLoadStat = autoLoadStat
		ts.tabs[i] = t
	}
	return ts
}

func (ts *Tabs) Len() int { return len(ts.tabs) }

func (ts *Tabs) ActiveIndex() int { return ts.active }

// Active returns the tab commands are routed to.
func (ts *Tabs) Active() *Tab {
	return ts.tabs[ts.active]
}

// Next activates the following tab, stopping at the last one. It reports
// whether the active index changed.
func (ts *Tabs) Next() bool {
	if ts.active >= len(ts.tabs)-1 {
		return false
	}
	ts.active++
	return true
}

// Prev activates the preceding tab, stopping at the first one.
func (ts *Tabs) Prev() bool {
	if ts.active == 0 {
		return false
	}
	ts.active--
	return true
}

// Titles lists one label per tab, numbered from one.
func (ts *Tabs) Titles() []string {
	titles := make([]string, len(ts.tabs))
	for i, t := range ts.tabs {
		titles[i] = fmt.Sprintf("%d %s", i+1, t.Title())
	}
	return titles
}
