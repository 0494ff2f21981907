package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/replyforge/replyforge/internal/action"
)

func TestIsValidType(t *testing.T) {
	for _, v := range action.ValidTypes {
		assert.True(t, action.IsValidType(v), v)
	}
	assert.False(t, action.IsValidType("giveaway"))
	assert.False(t, action.IsValidType(""))
	assert.False(t, action.IsValidType("Announcement"))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{action.StatusPending, action.StatusCompleted, true},
		{action.StatusPending, action.StatusPaused, true},
		{action.StatusPaused, action.StatusPending, true},
		{action.StatusPaused, action.StatusCompleted, true},
		{action.StatusCompleted, action.StatusPending, false},
		{action.StatusCompleted, action.StatusPaused, false},
		{action.StatusPending, action.StatusPending, false},
		{action.StatusPending, "archived", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, action.CanTransition(tt.from, tt.to))
		})
	}
}

func TestSummarize(t *testing.T) {
	actions := []action.Action{
		{Title: "a", Status: action.StatusPending},
		{Title: "b", Status: action.StatusCompleted},
		{Title: "c", Status: action.StatusPending},
		{Title: "d", Status: action.StatusPaused},
	}

	grouped, stats := action.Summarize(actions)

	assert.Equal(t, action.Stats{Total: 4, Pending: 2, Completed: 1, Paused: 1}, stats)
	assert.Equal(t, "a", grouped.Pending[0].Title)
	assert.Equal(t, "c", grouped.Pending[1].Title)
	assert.Equal(t, "b", grouped.Completed[0].Title)
	assert.Equal(t, "d", grouped.Paused[0].Title)
}

func TestSummarize_Empty(t *testing.T) {
	grouped, stats := action.Summarize(nil)

	assert.Equal(t, action.Stats{}, stats)
	assert.NotNil(t, grouped.Pending)
	assert.NotNil(t, grouped.Completed)
	assert.NotNil(t, grouped.Paused)
}
