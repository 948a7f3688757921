package models

type EventType string

const (
	EventTaskCreated       EventType = "TaskCreated"
	EventTaskStatusChanged EventType = "TaskStatusChanged"
	EventTaskAssigned      EventType = "TaskAssigned"
	EventSubtaskAdded      EventType = "SubtaskAdded"
	EventCommentPosted     EventType = "CommentPosted"
	EventReplyPosted       EventType = "ReplyPosted"
)

// Event is the boundary payload handed to the notifications service after
// a task mutation commits. Delivery is fire-and-forget; at-least-once is
// acceptable.
type Event struct {
	Type     EventType `json:"type"`
	TaskID   string    `json:"taskId"`
	TaskName string    `json:"taskName"`
	Actor    Member    `json:"actor"`

	// Status change.
	From TaskStatus `json:"from,omitempty"`
	To   TaskStatus `json:"to,omitempty"`

	// Assignment.
	AddedUsers []Member `json:"addedUsers,omitempty"`

	// Comments and replies carry the literal @Name tokens resolved
	// best-effort against the task force at trigger time.
	MentionedNames []string `json:"mentionedNames,omitempty"`

	Recipients []Member `json:"recipients,omitempty"`
}
