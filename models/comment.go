package models

import "time"

// Comment is a discussion entry on a task. Replies are embedded; the
// thread depth is fixed at two (no replies to replies).
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	Author    Member    `json:"author" bson:"author"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Replies   []Reply   `json:"replies" bson:"replies"`
}

type Reply struct {
	ID        string    `json:"id" bson:"id"`
	Author    Member    `json:"author" bson:"author"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// FindReply returns the reply with the given id, or nil.
func (c *Comment) FindReply(replyID string) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return &c.Replies[i]
		}
	}
	return nil
}
