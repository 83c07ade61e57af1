package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTabsAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, NewTabs(0, true).Len())
	assert.Equal(t, 1, NewTabs(-3, true).Len())
	assert.Equal(t, 3, NewTabs(3, true).Len())
}

func TestNewTabsAutoLoadStat(t *testing.T) {
	ts := NewTabs(2, false)
	for _, tab := range ts.tabs {
		assert.False(t, tab.AutoLoadStat())
	}
}

func TestTabsSwitchingSaturates(t *testing.T) {
	ts := NewTabs(3, true)

	assert.False(t, ts.Prev())
	assert.Equal(t, 0, ts.ActiveIndex())

	assert.True(t, ts.Next())
	assert.True(t, ts.Next())
	assert.False(t, ts.Next())
	assert.Equal(t, 2, ts.ActiveIndex())

	assert.True(t, ts.Prev())
	assert.Equal(t, 1, ts.ActiveIndex())
}

func TestTabsActiveIsStable(t *testing.T) {
	ts := NewTabs(2, true)
	first := ts.Active()
	ts.Next()
	assert.NotSame(t, first, ts.Active())
	ts.Prev()
	assert.Same(t, first, ts.Active())
}

func TestTabsTitles(t *testing.T) {
	ts := NewTabs(2, true)
	ts.Active().stack = []string{"app"}

	assert.Equal(t, []string{"1 /app", "2 /"}, ts.Titles())
}
