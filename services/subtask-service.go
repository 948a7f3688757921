package services

import (
	"context"
	"strings"

	"legalis-project/microservices/tasks-service/logging"
	"legalis-project/microservices/tasks-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubtaskService manages the ordered checklist embedded in a task. Every
// operation requires task-force membership.
type SubtaskService struct {
	tasksCollection *mongo.Collection
	notifier        Notifier
}

func NewSubtaskService(tasksCollection *mongo.Collection, notifier Notifier) *SubtaskService {
	return &SubtaskService{tasksCollection: tasksCollection, notifier: notifier}
}

// AddSubtask appends a new unchecked subtask to the end of the checklist
// and returns the updated task.
func (s *SubtaskService) AddSubtask(ctx context.Context, requesterID string, taskID primitive.ObjectID, title string) (*models.Task, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageSubtasks(task, requesterID) {
		return nil, models.PermissionDenied("only task members can manage subtasks")
	}
	if strings.TrimSpace(title) == "" {
		return nil, models.Validation("title", "subtask title must not be empty")
	}

	subtask := models.Subtask{
		ID:          uuid.New().String(),
		Title:       title,
		IsCompleted: false,
	}

	// $push appends atomically, so concurrent adds never overwrite each
	// other's entries.
	update := bson.M{"$push": bson.M{"subtasks": subtask}}
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: SUBTASK_ADDED, Description: Subtask %s added to task %s by user %s", subtask.ID, taskID.Hex(), requesterID)

	s.notifier.Publish(models.Event{
		Type:       models.EventSubtaskAdded,
		TaskID:     taskID.Hex(),
		TaskName:   task.Name,
		Actor:      memberFromForce(task, requesterID),
		Recipients: []models.Member{task.CreatedBy},
	})

	return findTask(ctx, s.tasksCollection, taskID)
}

// ToggleSubtask flips the completion flag. Two toggles restore the
// original state.
func (s *SubtaskService) ToggleSubtask(ctx context.Context, requesterID string, taskID primitive.ObjectID, subtaskID string) (*models.Task, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageSubtasks(task, requesterID) {
		return nil, models.PermissionDenied("only task members can manage subtasks")
	}

	if task.FindSubtask(subtaskID) == nil {
		return nil, models.NotFound("subtaskId", "subtask not found: "+subtaskID)
	}

	// The flip negates the stored value inside the update itself, so two
	// concurrent toggles land as two state changes, not one.
	update := bson.A{
		bson.M{"$set": bson.M{
			"subtasks": bson.M{
				"$map": bson.M{
					"input": "$subtasks",
					"as":    "st",
					"in": bson.M{
						"$cond": bson.A{
							bson.M{"$eq": bson.A{"$$st.id", subtaskID}},
							bson.M{"$mergeObjects": bson.A{"$$st", bson.M{"isCompleted": bson.M{"$not": "$$st.isCompleted"}}}},
							"$$st",
						},
					},
				},
			},
		}},
	}
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, err
	}

	return findTask(ctx, s.tasksCollection, taskID)
}

// EditSubtask replaces a subtask title in place without reordering the
// checklist.
func (s *SubtaskService) EditSubtask(ctx context.Context, requesterID string, taskID primitive.ObjectID, subtaskID, newTitle string) (*models.Task, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageSubtasks(task, requesterID) {
		return nil, models.PermissionDenied("only task members can manage subtasks")
	}
	if strings.TrimSpace(newTitle) == "" {
		return nil, models.Validation("title", "subtask title must not be empty")
	}
	if task.FindSubtask(subtaskID) == nil {
		return nil, models.NotFound("subtaskId", "subtask not found: "+subtaskID)
	}

	update := bson.M{"$set": bson.M{"subtasks.$[st].title": newTitle}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"st.id": subtaskID}},
	})
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update, opts)
	if err != nil {
		return nil, err
	}

	return findTask(ctx, s.tasksCollection, taskID)
}

// RemoveSubtask deletes a checklist entry; the remaining entries keep
// their order.
func (s *SubtaskService) RemoveSubtask(ctx context.Context, requesterID string, taskID primitive.ObjectID, subtaskID string) (*models.Task, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageSubtasks(task, requesterID) {
		return nil, models.PermissionDenied("only task members can manage subtasks")
	}
	if task.FindSubtask(subtaskID) == nil {
		return nil, models.NotFound("subtaskId", "subtask not found: "+subtaskID)
	}

	update := bson.M{"$pull": bson.M{"subtasks": bson.M{"id": subtaskID}}}
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: SUBTASK_REMOVED, Description: Subtask %s removed from task %s by user %s", subtaskID, taskID.Hex(), requesterID)

	return findTask(ctx, s.tasksCollection, taskID)
}
