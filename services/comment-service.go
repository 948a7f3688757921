package services

import (
	"context"
	"strings"
	"time"

	"legalis-project/microservices/tasks-service/logging"
	"legalis-project/microservices/tasks-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentService manages the discussion thread embedded in a task.
// Posting requires task-force membership; deletion is author-only.
type CommentService struct {
	tasksCollection *mongo.Collection
	notifier        Notifier
}

func NewCommentService(tasksCollection *mongo.Collection, notifier Notifier) *CommentService {
	return &CommentService{tasksCollection: tasksCollection, notifier: notifier}
}

// ListComments returns the thread for display: comments newest first,
// replies within each comment oldest first. Storage order is untouched.
func (s *CommentService) ListComments(ctx context.Context, taskID primitive.ObjectID) ([]models.Comment, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}
	return commentsForDisplay(task.Comments), nil
}

func commentsForDisplay(comments []models.Comment) []models.Comment {
	display := make([]models.Comment, len(comments))
	for i, c := range comments {
		display[len(comments)-1-i] = c
	}
	return display
}

// PostComment appends a comment to the thread. The stored text keeps its
// literal @Name tokens; mentioned members are resolved only for the
// notification trigger.
func (s *CommentService) PostComment(ctx context.Context, requesterID string, taskID primitive.ObjectID, text string) (*models.Comment, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageSubtasks(task, requesterID) {
		return nil, models.PermissionDenied("only task members can post comments")
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.Validation("text", "comment text must not be empty")
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		Author:    memberFromForce(task, requesterID),
		Text:      text,
		CreatedAt: time.Now(),
		Replies:   []models.Reply{},
	}

	update := bson.M{"$push": bson.M{"comments": comment}}
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: COMMENT_POSTED, Description: Comment %s posted on task %s by user %s", comment.ID, taskID.Hex(), requesterID)

	s.publishMentionEvent(models.EventCommentPosted, task, comment.Author, text)

	return &comment, nil
}

// PostReply appends a reply to an existing comment. Thread depth is fixed
// at two, so replies never nest further.
func (s *CommentService) PostReply(ctx context.Context, requesterID string, taskID primitive.ObjectID, commentID, text string) (*models.Reply, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageSubtasks(task, requesterID) {
		return nil, models.PermissionDenied("only task members can post replies")
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.Validation("text", "reply text must not be empty")
	}
	if task.FindComment(commentID) == nil {
		return nil, models.NotFound("commentId", "comment not found: "+commentID)
	}

	reply := models.Reply{
		ID:        uuid.New().String(),
		Author:    memberFromForce(task, requesterID),
		Text:      text,
		CreatedAt: time.Now(),
	}

	update := bson.M{"$push": bson.M{"comments.$[c].replies": reply}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"c.id": commentID}},
	})
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update, opts)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: REPLY_POSTED, Description: Reply %s posted on comment %s of task %s by user %s", reply.ID, commentID, taskID.Hex(), requesterID)

	s.publishMentionEvent(models.EventReplyPosted, task, reply.Author, text)

	return &reply, nil
}

// DeleteComment removes a comment and all of its replies in one update.
// Only the comment's author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, requesterID string, taskID primitive.ObjectID, commentID string) error {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return err
	}

	comment := task.FindComment(commentID)
	if comment == nil {
		return models.NotFound("commentId", "comment not found: "+commentID)
	}
	if comment.Author.ID != requesterID {
		return models.PermissionDenied("only the comment author can delete the comment")
	}

	// Replies are embedded in the comment, so the pull removes them with
	// it; there is no partial outcome.
	update := bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}}
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: COMMENT_DELETED, Description: Comment %s and %d replies deleted from task %s by author %s", commentID, len(comment.Replies), taskID.Hex(), requesterID)
	return nil
}

// DeleteReply removes a single reply. Only the reply's author may delete
// it.
func (s *CommentService) DeleteReply(ctx context.Context, requesterID string, taskID primitive.ObjectID, commentID, replyID string) error {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return err
	}

	comment := task.FindComment(commentID)
	if comment == nil {
		return models.NotFound("commentId", "comment not found: "+commentID)
	}
	reply := comment.FindReply(replyID)
	if reply == nil {
		return models.NotFound("replyId", "reply not found: "+replyID)
	}
	if reply.Author.ID != requesterID {
		return models.PermissionDenied("only the reply author can delete the reply")
	}

	update := bson.M{"$pull": bson.M{"comments.$[c].replies": bson.M{"id": replyID}}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"c.id": commentID}},
	})
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update, opts)
	if err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: REPLY_DELETED, Description: Reply %s deleted from comment %s of task %s by author %s", replyID, commentID, taskID.Hex(), requesterID)
	return nil
}

// publishMentionEvent emits the boundary event for a posted comment or
// reply. Mentioned members are the @Name tokens resolved at trigger time
// against the current task force; a stale mention notifies nobody, but
// the event itself is published for every post.
func (s *CommentService) publishMentionEvent(eventType models.EventType, task *models.Task, author models.Member, text string) {
	force := task.TaskForce()
	mentioned := ExtractMentions(text, force)

	byName := make(map[string]models.Member, len(force))
	for _, m := range force {
		byName[m.Name] = m
	}

	recipients := []models.Member{}
	for _, name := range mentioned {
		if m, ok := byName[name]; ok {
			recipients = append(recipients, m)
		}
	}

	s.notifier.Publish(models.Event{
		Type:           eventType,
		TaskID:         task.ID.Hex(),
		TaskName:       task.Name,
		Actor:          author,
		MentionedNames: mentioned,
		Recipients:     recipients,
	})
}
