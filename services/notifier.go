package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"legalis-project/microservices/tasks-service/logging"
	"legalis-project/microservices/tasks-service/models"

	"github.com/sony/gobreaker"
)

// Notifier receives one event per committed task mutation. Publishing is
// fire-and-forget: a delivery failure never fails the mutation.
type Notifier interface {
	Publish(event models.Event)
}

// NotificationsClient delivers events to the notifications service as one
// message per recipient, through a circuit breaker.
type NotificationsClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
}

func NewNotificationsClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *NotificationsClient {
	return &NotificationsClient{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient, Breaker: breaker}
}

func (c *NotificationsClient) Publish(event models.Event) {
	message := renderMessage(event)

	for _, recipient := range event.Recipients {
		if recipient.ID == "" || recipient.ID == event.Actor.ID {
			continue
		}

		payload := map[string]string{
			"userId":   recipient.ID,
			"username": recipient.Name,
			"message":  message,
		}
		body, err := json.Marshal(payload)
		if err != nil {
			logging.Logger.Errorf("Event ID: NOTIFICATION_MARSHAL_FAILED, Description: Failed to marshal notification payload: %v", err)
			continue
		}

		_, err = c.Breaker.Execute(func() (interface{}, error) {
			resp, err := c.HTTPClient.Post(c.BaseURL+"/api/notifications", "application/json", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
			}
			return nil, nil
		})
		if err != nil {
			logging.Logger.Errorf("Event ID: NOTIFICATION_SEND_FAILED, Description: Failed to notify user %s about %s on task %s: %v", recipient.ID, event.Type, event.TaskID, err)
			continue
		}
		logging.Logger.Infof("Event ID: NOTIFICATION_SENT, Description: Notified user %s about %s on task %s", recipient.ID, event.Type, event.TaskID)
	}
}

func renderMessage(event models.Event) string {
	switch event.Type {
	case models.EventTaskCreated:
		return fmt.Sprintf("Task '%s' was created by %s.", event.TaskName, event.Actor.Name)
	case models.EventTaskStatusChanged:
		return fmt.Sprintf("Task '%s' moved from '%s' to '%s'.", event.TaskName, event.From, event.To)
	case models.EventTaskAssigned:
		return fmt.Sprintf("You have been assigned to task '%s'.", event.TaskName)
	case models.EventSubtaskAdded:
		return fmt.Sprintf("%s added a subtask to task '%s'.", event.Actor.Name, event.TaskName)
	case models.EventCommentPosted:
		return fmt.Sprintf("%s mentioned you in a comment on task '%s'.", event.Actor.Name, event.TaskName)
	case models.EventReplyPosted:
		return fmt.Sprintf("%s mentioned you in a reply on task '%s'.", event.Actor.Name, event.TaskName)
	}
	return fmt.Sprintf("Task '%s' was updated.", event.TaskName)
}
