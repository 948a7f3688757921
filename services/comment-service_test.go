package services

import (
	"testing"
	"time"

	"legalis-project/microservices/tasks-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsForDisplayNewestFirst(t *testing.T) {
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	stored := []models.Comment{
		{ID: "c1", Text: "first", CreatedAt: base},
		{ID: "c2", Text: "second", CreatedAt: base.Add(time.Hour)},
		{ID: "c3", Text: "third", CreatedAt: base.Add(2 * time.Hour)},
	}

	display := commentsForDisplay(stored)

	require.Len(t, display, 3)
	assert.Equal(t, "c3", display[0].ID)
	assert.Equal(t, "c2", display[1].ID)
	assert.Equal(t, "c1", display[2].ID)

	// Storage order stays untouched.
	assert.Equal(t, "c1", stored[0].ID)
}

func TestCommentsForDisplayKeepsReplyOrder(t *testing.T) {
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	stored := []models.Comment{
		{
			ID:        "c1",
			CreatedAt: base,
			Replies: []models.Reply{
				{ID: "r1", CreatedAt: base.Add(time.Minute)},
				{ID: "r2", CreatedAt: base.Add(2 * time.Minute)},
			},
		},
	}

	display := commentsForDisplay(stored)
	require.Len(t, display, 1)
	require.Len(t, display[0].Replies, 2)
	assert.Equal(t, "r1", display[0].Replies[0].ID)
	assert.Equal(t, "r2", display[0].Replies[1].ID)
}
