package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() Task {
	return Task{
		Name:      "Prepare deposition outline",
		Priority:  PriorityMedium,
		Status:    StatusToDo,
		CreatedBy: Member{ID: "u-owner", Name: "Olivia Owner"},
		AssignedTo: []Member{
			{ID: "u-a", Name: "Jane Doe"},
		},
		Collaborators: []Member{
			{ID: "u-c", Name: "Mark"},
		},
	}
}

func TestValidateRejectsEmptyName(t *testing.T) {
	task := validTask()
	task.Name = "   "

	err := task.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateRejectsAssigneeCollaboratorOverlap(t *testing.T) {
	task := validTask()
	task.Collaborators = append(task.Collaborators, Member{ID: "u-a", Name: "Jane Doe"})

	err := task.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateRejectsEndDateBeforeStartDate(t *testing.T) {
	task := validTask()
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	task.StartDate = &start
	task.EndDate = &end

	err := task.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestApplyRejectsInvalidPatchWithoutPartialUpdate(t *testing.T) {
	task := validTask()
	original := task

	overlap := []Member{{ID: "u-a", Name: "Jane Doe"}}
	patch := TaskPatch{
		Name:          strPtr("Renamed"),
		Collaborators: &overlap,
	}

	err := task.Apply(patch)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Nothing from the patch may stick, not even the valid name change.
	assert.Equal(t, original.Name, task.Name)
	assert.Equal(t, original.Collaborators, task.Collaborators)
}

func TestApplyUpdatesPatchedFields(t *testing.T) {
	task := validTask()

	status := StatusOngoing
	priority := PriorityHigh
	patch := TaskPatch{
		Status:   &status,
		Priority: &priority,
	}

	require.NoError(t, task.Apply(patch))
	assert.Equal(t, StatusOngoing, task.Status)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, "Prepare deposition outline", task.Name)
}

func TestProgressEmptyChecklistIsZero(t *testing.T) {
	task := validTask()
	assert.Equal(t, float64(0), task.Progress())
}

func TestProgressCountsCompletedShare(t *testing.T) {
	task := validTask()
	task.Subtasks = []Subtask{
		{ID: "s1", Title: "Draft", IsCompleted: true},
		{ID: "s2", Title: "Review"},
		{ID: "s3", Title: "File", IsCompleted: true},
		{ID: "s4", Title: "Serve"},
	}
	assert.InDelta(t, 50.0, task.Progress(), 0.001)
}

func TestTaskForceDeduplicatesById(t *testing.T) {
	task := validTask()
	// The owner also appearing in a list must not be counted twice.
	task.AssignedTo = append(task.AssignedTo, Member{ID: "u-owner", Name: "Olivia Owner"})

	force := task.TaskForce()
	require.Len(t, force, 3)
	assert.Equal(t, "u-owner", force[0].ID)
}

func TestFindSubtaskAndComment(t *testing.T) {
	task := validTask()
	task.Subtasks = []Subtask{{ID: "s1", Title: "Draft"}}
	task.Comments = []Comment{{ID: "c1", Author: task.CreatedBy, Text: "hello"}}

	require.NotNil(t, task.FindSubtask("s1"))
	assert.Nil(t, task.FindSubtask("missing"))
	require.NotNil(t, task.FindComment("c1"))
	assert.Nil(t, task.FindComment("missing"))
}

func strPtr(s string) *string { return &s }
