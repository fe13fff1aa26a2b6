package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"semdoc/internal/driver"
)

func TestApplyEventCounts(t *testing.T) {
	m := NewProgressModel("render", []string{"a", "b", "c"}, nil).(*progressModel)

	m.applyEvent(driver.Event{Index: 0, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{Index: 0, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Index: 1, Status: driver.StatusCached})
	m.applyEvent(driver.Event{Index: 1, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Index: 7, Status: driver.StatusDone})

	assert.Equal(t, 2, m.finished)
	assert.Equal(t, 1, m.cached)
	assert.Equal(t, driver.StatusCached, m.items[1].status)
	assert.Equal(t, driver.StatusQueued, m.items[2].status)
}

func TestViewShowsWorkingFirst(t *testing.T) {
	ids := make([]string, 30)
	for i := range ids {
		ids[i] = "attr." + strings.Repeat("x", i%3) + string(rune('a'+i%26))
	}
	m := NewProgressModel("render", ids, nil).(*progressModel)
	for i := 0; i < 20; i++ {
		m.applyEvent(driver.Event{Index: i, Status: driver.StatusDone})
	}
	m.applyEvent(driver.Event{Index: 25, Status: driver.StatusWorking})

	rows := m.visible()
	assert.Len(t, rows, maxVisible)
	assert.Equal(t, driver.StatusWorking, rows[0].status)
	assert.Equal(t, ids[19], rows[len(rows)-1].id)
	assert.Contains(t, m.View(), "(20/30, 0 cached)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
