package services

import (
	"testing"

	"legalis-project/microservices/tasks-service/models"

	"github.com/stretchr/testify/assert"
)

func membershipTask() *models.Task {
	return &models.Task{
		Name:      "Review retainer agreement",
		Priority:  models.PriorityMedium,
		Status:    models.StatusToDo,
		CreatedBy: models.Member{ID: "u-owner", Name: "Olivia Owner"},
		AssignedTo: []models.Member{
			{ID: "u-a", Name: "Jane Doe"},
		},
		Collaborators: []models.Member{
			{ID: "u-c", Name: "Mark"},
		},
	}
}

func TestRoleOf(t *testing.T) {
	task := membershipTask()

	tests := []struct {
		name   string
		userID string
		want   TaskRole
	}{
		{"owner", "u-owner", RoleOwner},
		{"assignee", "u-a", RoleAssignee},
		{"collaborator", "u-c", RoleCollaborator},
		{"stranger", "u-x", RoleNone},
		{"empty id", "", RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleOf(task, tt.userID))
		})
	}
}

func TestOwnerTakesPrecedenceOverListRoles(t *testing.T) {
	task := membershipTask()
	task.AssignedTo = append(task.AssignedTo, models.Member{ID: "u-owner", Name: "Olivia Owner"})

	assert.Equal(t, RoleOwner, RoleOf(task, "u-owner"))
	assert.True(t, CanManageSubtasks(task, "u-owner"))
}

func TestCapabilityFlags(t *testing.T) {
	task := membershipTask()

	assert.True(t, CanManageSubtasks(task, "u-owner"))
	assert.True(t, CanManageSubtasks(task, "u-a"))
	assert.True(t, CanManageSubtasks(task, "u-c"))
	assert.False(t, CanManageSubtasks(task, "u-x"))

	assert.True(t, CanEditOrDeleteTask(task, "u-owner"))
	assert.False(t, CanEditOrDeleteTask(task, "u-a"))
	assert.False(t, CanEditOrDeleteTask(task, "u-c"))
	assert.False(t, CanEditOrDeleteTask(task, "u-x"))
}
