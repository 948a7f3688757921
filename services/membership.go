package services

import "legalis-project/microservices/tasks-service/models"

type TaskRole string

const (
	RoleOwner        TaskRole = "owner"
	RoleAssignee     TaskRole = "assignee"
	RoleCollaborator TaskRole = "collaborator"
	RoleNone         TaskRole = "none"
)

// RoleOf computes the relationship between a user and a task. Owner takes
// precedence over the list roles.
func RoleOf(task *models.Task, userID string) TaskRole {
	if userID == "" {
		return RoleNone
	}
	if task.CreatedBy.ID == userID {
		return RoleOwner
	}
	for _, m := range task.AssignedTo {
		if m.ID == userID {
			return RoleAssignee
		}
	}
	for _, m := range task.Collaborators {
		if m.ID == userID {
			return RoleCollaborator
		}
	}
	return RoleNone
}

// CanManageSubtasks reports whether the user may mutate the subtask
// checklist and post to the discussion thread: any task-force member.
func CanManageSubtasks(task *models.Task, userID string) bool {
	return RoleOf(task, userID) != RoleNone
}

// CanEditOrDeleteTask reports whether the user may edit task fields or
// delete the task: the owner only.
func CanEditOrDeleteTask(task *models.Task, userID string) bool {
	return RoleOf(task, userID) == RoleOwner
}
