package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusToDo      TaskStatus = "to-do"
	StatusOngoing   TaskStatus = "ongoing"
	StatusCompleted TaskStatus = "completed"
	StatusCancelled TaskStatus = "cancelled"
	StatusOverdue   TaskStatus = "overdue"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusToDo, StatusOngoing, StatusCompleted, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the aggregate root. Subtasks, comments and replies are embedded
// in the task document so every list mutation is a single-document update.
type Task struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Priority      TaskPriority       `json:"priority" bson:"priority"`
	Status        TaskStatus         `json:"status" bson:"status"`
	CreatedBy     Member             `json:"createdBy" bson:"createdBy"`
	AssignedTo    []Member           `json:"assignedTo" bson:"assignedTo"`
	Collaborators []Member           `json:"collaborators" bson:"collaborators"`
	CaseID        string             `json:"caseId,omitempty" bson:"caseId,omitempty"`
	StartDate     *time.Time         `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate       *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Subtasks      []Subtask          `json:"subtasks" bson:"subtasks"`
	Comments      []Comment          `json:"comments" bson:"comments"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

type Subtask struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	IsCompleted bool   `json:"isCompleted" bson:"isCompleted"`
}

// TaskPatch carries an owner-initiated edit. Nil fields are left untouched.
type TaskPatch struct {
	Name          *string       `json:"name,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Priority      *TaskPriority `json:"priority,omitempty"`
	Status        *TaskStatus   `json:"status,omitempty"`
	AssignedTo    *[]Member     `json:"assignedTo,omitempty"`
	Collaborators *[]Member     `json:"collaborators,omitempty"`
	CaseID        *string       `json:"caseId,omitempty"`
	StartDate     *time.Time    `json:"startDate,omitempty"`
	EndDate       *time.Time    `json:"endDate,omitempty"`
}

// Apply copies the non-nil patch fields onto the task and re-validates the
// result. The task is only modified when validation passes.
func (t *Task) Apply(patch TaskPatch) error {
	updated := *t

	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Priority != nil {
		updated.Priority = *patch.Priority
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		updated.AssignedTo = *patch.AssignedTo
	}
	if patch.Collaborators != nil {
		updated.Collaborators = *patch.Collaborators
	}
	if patch.CaseID != nil {
		updated.CaseID = *patch.CaseID
	}
	if patch.StartDate != nil {
		updated.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		updated.EndDate = patch.EndDate
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	*t = updated
	return nil
}

// Validate checks the task invariants: non-empty name, known enum values,
// date ordering, and assignee/collaborator disjointness.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Validation("name", "task name must not be empty")
	}
	if !t.Priority.IsValid() {
		return Validation("priority", "unknown task priority: "+string(t.Priority))
	}
	if !t.Status.IsValid() {
		return Validation("status", "unknown task status: "+string(t.Status))
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return Validation("endDate", "end date must not precede start date")
	}

	assigned := make(map[string]bool, len(t.AssignedTo))
	for _, m := range t.AssignedTo {
		assigned[m.ID] = true
	}
	for _, m := range t.Collaborators {
		if assigned[m.ID] {
			return Validation("collaborators", "user "+m.ID+" cannot be both assignee and collaborator")
		}
	}

	return nil
}

// TaskForce returns the owner plus all assignees and collaborators,
// deduplicated by user id. Order is owner first, then assignees, then
// collaborators.
func (t *Task) TaskForce() []Member {
	force := make([]Member, 0, 1+len(t.AssignedTo)+len(t.Collaborators))
	seen := make(map[string]bool)

	appendMember := func(m Member) {
		if m.ID == "" || seen[m.ID] {
			return
		}
		seen[m.ID] = true
		force = append(force, m)
	}

	appendMember(t.CreatedBy)
	for _, m := range t.AssignedTo {
		appendMember(m)
	}
	for _, m := range t.Collaborators {
		appendMember(m)
	}
	return force
}

// Progress is the completed share of the subtask checklist in percent.
// An empty checklist reports 0 rather than dividing by zero.
func (t *Task) Progress() float64 {
	if len(t.Subtasks) == 0 {
		return 0
	}
	completed := 0
	for _, s := range t.Subtasks {
		if s.IsCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(t.Subtasks)) * 100
}

// FindSubtask returns the subtask with the given id, or nil.
func (t *Task) FindSubtask(subtaskID string) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// FindComment returns the comment with the given id, or nil.
func (t *Task) FindComment(commentID string) *Comment {
	for i := range t.Comments {
		if t.Comments[i].ID == commentID {
			return &t.Comments[i]
		}
	}
	return nil
}
