package services

import (
	"context"
	"time"

	"legalis-project/microservices/tasks-service/logging"
	"legalis-project/microservices/tasks-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskService struct {
	tasksCollection *mongo.Collection
	users           userDirectory
	cases           caseDirectory
	notifier        Notifier
}

func NewTaskService(tasksCollection *mongo.Collection, users userDirectory, cases caseDirectory, notifier Notifier) *TaskService {
	return &TaskService{
		tasksCollection: tasksCollection,
		users:           users,
		cases:           cases,
		notifier:        notifier,
	}
}

// findTask loads a task document or reports NotFound. Shared by the task,
// subtask and comment services.
func findTask(ctx context.Context, collection *mongo.Collection, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := collection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, models.NotFound("taskId", "task not found: "+taskID.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// statusTransitionAllowed is the single place the transition policy lives.
// The current contract permits any status-to-status change, including
// regressions such as completed back to to-do.
func statusTransitionAllowed(from, to models.TaskStatus) bool {
	return true
}

// CreateTaskInput carries the fields of a new task. Member entries only
// need ids; the users service supplies the canonical name and email.
type CreateTaskInput struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	Status        models.TaskStatus   `json:"status"`
	AssignedTo    []string            `json:"assignedTo"`
	Collaborators []string            `json:"collaborators"`
	CaseID        string              `json:"caseId"`
	StartDate     *time.Time          `json:"startDate"`
	EndDate       *time.Time          `json:"endDate"`
}

func (s *TaskService) CreateTask(ctx context.Context, requesterID string, input CreateTaskInput) (*models.Task, error) {
	owner, err := s.users.GetUser(requesterID)
	if err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Status == "" {
		input.Status = models.StatusToDo
	}

	assigned, err := s.resolveMembers(input.AssignedTo)
	if err != nil {
		return nil, err
	}
	collaborators, err := s.resolveMembers(input.Collaborators)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:            primitive.NewObjectID(),
		Name:          input.Name,
		Description:   input.Description,
		Priority:      input.Priority,
		Status:        input.Status,
		CreatedBy:     *owner,
		AssignedTo:    assigned,
		Collaborators: collaborators,
		CaseID:        input.CaseID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Subtasks:      []models.Subtask{},
		Comments:      []models.Comment{},
		CreatedAt:     time.Now(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if task.CaseID != "" {
		if _, err := s.cases.GetCaseSummary(task.CaseID); err != nil {
			return nil, err
		}
	}

	result, err := s.tasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by user %s", task.ID.Hex(), requesterID)

	s.notifier.Publish(models.Event{
		Type:       models.EventTaskCreated,
		TaskID:     task.ID.Hex(),
		TaskName:   task.Name,
		Actor:      *owner,
		Recipients: task.TaskForce(),
	})
	if len(task.AssignedTo) > 0 {
		s.notifier.Publish(models.Event{
			Type:       models.EventTaskAssigned,
			TaskID:     task.ID.Hex(),
			TaskName:   task.Name,
			Actor:      *owner,
			AddedUsers: task.AssignedTo,
			Recipients: task.AssignedTo,
		})
	}

	return task, nil
}

func (s *TaskService) resolveMembers(userIDs []string) ([]models.Member, error) {
	members := []models.Member{}
	for _, id := range userIDs {
		member, err := s.users.GetUser(id)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	return findTask(ctx, s.tasksCollection, taskID)
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) GetTasksByCase(ctx context.Context, caseID string) ([]models.Task, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{"caseId": caseID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetCaseForTask returns the display summary of the linked case.
func (s *TaskService) GetCaseForTask(ctx context.Context, taskID primitive.ObjectID) (*models.CaseSummary, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}
	if task.CaseID == "" {
		return nil, models.NotFound("caseId", "task is not linked to a case")
	}
	return s.cases.GetCaseSummary(task.CaseID)
}

// ChangeTaskStatus sets the status. Any task-force member may do this;
// edit rights are not required.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, requesterID string, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageSubtasks(task, requesterID) {
		return nil, models.PermissionDenied("only task members can change the task status")
	}
	if !status.IsValid() {
		return nil, models.Validation("status", "unknown task status: "+string(status))
	}
	if !statusTransitionAllowed(task.Status, status) {
		return nil, models.Validation("status", "transition from "+string(task.Status)+" to "+string(status)+" is not allowed")
	}

	previous := task.Status
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return nil, err
	}
	task.Status = status

	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved from '%s' to '%s' by user %s", taskID.Hex(), previous, status, requesterID)

	actor := memberFromForce(task, requesterID)
	s.notifier.Publish(models.Event{
		Type:       models.EventTaskStatusChanged,
		TaskID:     task.ID.Hex(),
		TaskName:   task.Name,
		Actor:      actor,
		From:       previous,
		To:         status,
		Recipients: task.TaskForce(),
	})

	return task, nil
}

// UpdateTask applies an owner-initiated patch. The patch is validated
// against the full aggregate before anything is written, so a violated
// invariant leaves the document untouched.
func (s *TaskService) UpdateTask(ctx context.Context, requesterID string, taskID primitive.ObjectID, patch models.TaskPatch) (*models.Task, error) {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanEditOrDeleteTask(task, requesterID) {
		return nil, models.PermissionDenied("only the task owner can edit the task")
	}

	previousAssignees := make(map[string]bool, len(task.AssignedTo))
	for _, m := range task.AssignedTo {
		previousAssignees[m.ID] = true
	}
	previousStatus := task.Status

	if err := task.Apply(patch); err != nil {
		return nil, err
	}

	// A patched status goes through the same transition policy as the
	// direct status operation.
	if patch.Status != nil && task.Status != previousStatus && !statusTransitionAllowed(previousStatus, task.Status) {
		return nil, models.Validation("status", "transition from "+string(previousStatus)+" to "+string(task.Status)+" is not allowed")
	}

	if patch.CaseID != nil && *patch.CaseID != "" {
		if _, err := s.cases.GetCaseSummary(*patch.CaseID); err != nil {
			return nil, err
		}
	}

	// Only the patched fields are written; concurrent appends to the
	// subtask and comment lists are never clobbered.
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = task.Name
	}
	if patch.Description != nil {
		set["description"] = task.Description
	}
	if patch.Priority != nil {
		set["priority"] = task.Priority
	}
	if patch.Status != nil {
		set["status"] = task.Status
	}
	if patch.AssignedTo != nil {
		set["assignedTo"] = task.AssignedTo
	}
	if patch.Collaborators != nil {
		set["collaborators"] = task.Collaborators
	}
	if patch.CaseID != nil {
		set["caseId"] = task.CaseID
	}
	if patch.StartDate != nil {
		set["startDate"] = task.StartDate
	}
	if patch.EndDate != nil {
		set["endDate"] = task.EndDate
	}
	if len(set) == 0 {
		return task, nil
	}

	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by owner %s", taskID.Hex(), requesterID)

	if patch.Status != nil && task.Status != previousStatus {
		s.notifier.Publish(models.Event{
			Type:       models.EventTaskStatusChanged,
			TaskID:     task.ID.Hex(),
			TaskName:   task.Name,
			Actor:      task.CreatedBy,
			From:       previousStatus,
			To:         task.Status,
			Recipients: task.TaskForce(),
		})
	}

	var added []models.Member
	for _, m := range task.AssignedTo {
		if !previousAssignees[m.ID] {
			added = append(added, m)
		}
	}
	if len(added) > 0 {
		s.notifier.Publish(models.Event{
			Type:       models.EventTaskAssigned,
			TaskID:     task.ID.Hex(),
			TaskName:   task.Name,
			Actor:      task.CreatedBy,
			AddedUsers: added,
			Recipients: added,
		})
	}

	return task, nil
}

// DeleteTask removes the task together with its subtasks, comments and
// replies. Owner only.
func (s *TaskService) DeleteTask(ctx context.Context, requesterID string, taskID primitive.ObjectID) error {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return err
	}

	if !CanEditOrDeleteTask(task, requesterID) {
		return models.PermissionDenied("only the task owner can delete the task")
	}

	_, err = s.tasksCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by owner %s", taskID.Hex(), requesterID)
	return nil
}

// AddMembersToTask adds users to one of the two task roles. A user already
// holding the other role is rejected, so the two sets stay disjoint.
func (s *TaskService) AddMembersToTask(ctx context.Context, requesterID string, taskID primitive.ObjectID, role TaskRole, userIDs []string) (*models.Task, error) {
	if role != RoleAssignee && role != RoleCollaborator {
		return nil, models.Validation("role", "role must be assignee or collaborator")
	}

	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	if !CanEditOrDeleteTask(task, requesterID) {
		return nil, models.PermissionDenied("only the task owner can manage task members")
	}

	members, err := s.resolveMembers(userIDs)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		current := RoleOf(task, m.ID)
		if current != RoleNone {
			return nil, models.Validation("members", "user "+m.ID+" already holds the "+string(current)+" role on this task")
		}
	}

	field := "assignedTo"
	if role == RoleCollaborator {
		field = "collaborators"
	}

	update := bson.M{"$push": bson.M{field: bson.M{"$each": members}}}
	_, err = s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_MEMBERS_ADDED, Description: %d member(s) added to task %s as %s by owner %s", len(members), taskID.Hex(), role, requesterID)

	if role == RoleAssignee && len(members) > 0 {
		s.notifier.Publish(models.Event{
			Type:       models.EventTaskAssigned,
			TaskID:     task.ID.Hex(),
			TaskName:   task.Name,
			Actor:      task.CreatedBy,
			AddedUsers: members,
			Recipients: members,
		})
	}

	return findTask(ctx, s.tasksCollection, taskID)
}

// RemoveMemberFromTask removes a user from whichever of the two roles they
// hold.
func (s *TaskService) RemoveMemberFromTask(ctx context.Context, requesterID string, taskID primitive.ObjectID, memberID string) error {
	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return err
	}

	if !CanEditOrDeleteTask(task, requesterID) {
		return models.PermissionDenied("only the task owner can manage task members")
	}

	role := RoleOf(task, memberID)
	if role != RoleAssignee && role != RoleCollaborator {
		return models.NotFound("memberId", "user "+memberID+" is not an assignee or collaborator on this task")
	}

	field := "assignedTo"
	if role == RoleCollaborator {
		field = "collaborators"
	}

	update := bson.M{"$pull": bson.M{field: bson.M{"id": memberID}}}
	result, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return models.NotFound("memberId", "member not found on task or already removed")
	}

	logging.Logger.Infof("Event ID: TASK_MEMBER_REMOVED, Description: Member %s removed from task %s by owner %s", memberID, taskID.Hex(), requesterID)
	return nil
}

// AvailableMembersForTask lists directory users who could still be added
// in the given role: everyone not already on the task in any role. The
// complement keeps the assignee and collaborator sets disjoint.
func (s *TaskService) AvailableMembersForTask(ctx context.Context, taskID primitive.ObjectID, role TaskRole) ([]models.Member, error) {
	if role != RoleAssignee && role != RoleCollaborator {
		return nil, models.Validation("role", "role must be assignee or collaborator")
	}

	task, err := findTask(ctx, s.tasksCollection, taskID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}

	available := []models.Member{}
	for _, u := range users {
		if RoleOf(task, u.ID) == RoleNone {
			available = append(available, u)
		}
	}
	return available, nil
}

// memberFromForce resolves the acting user's member snapshot from the task
// itself, avoiding a directory round trip for users already on the task.
func memberFromForce(task *models.Task, userID string) models.Member {
	for _, m := range task.TaskForce() {
		if m.ID == userID {
			return m
		}
	}
	return models.Member{ID: userID}
}
