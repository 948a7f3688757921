package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"legalis-project/microservices/tasks-service/handlers"
	"legalis-project/microservices/tasks-service/logging"
	"legalis-project/microservices/tasks-service/services"
	"legalis-project/microservices/tasks-service/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Requester-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func newBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks Service...")
	err := godotenv.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	mongoCollectionName := os.Getenv("MONGO_COLLECTION")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tasksClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer tasksClient.Disconnect(ctx)

	if err := tasksClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	tasksCollection := tasksClient.Database(mongoDBName).Collection(mongoCollectionName)
	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collection: %s/%s", mongoDBName, mongoCollectionName)

	httpClient := utils.NewHTTPClient()

	usersBreaker := newBreaker("UsersServiceCB", 2*time.Second)
	casesBreaker := newBreaker("CasesServiceCB", 2*time.Second)
	notificationsBreaker := newBreaker("NotificationsServiceCB", 5*time.Second)

	usersClient := services.NewUsersClient(os.Getenv("USERS_SERVICE_URL"), httpClient, usersBreaker)
	casesClient := services.NewCasesClient(os.Getenv("CASES_SERVICE_URL"), httpClient, casesBreaker)
	notifier := services.NewNotificationsClient(os.Getenv("NOTIFICATIONS_SERVICE_URL"), httpClient, notificationsBreaker)

	taskService := services.NewTaskService(tasksCollection, usersClient, casesClient, notifier)
	subtaskService := services.NewSubtaskService(tasksCollection, notifier)
	commentService := services.NewCommentService(tasksCollection, notifier)

	taskHandler := handlers.NewTaskHandler(taskService)
	subtaskHandler := handlers.NewSubtaskHandler(subtaskService, taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	mentionHandler := handlers.NewMentionHandler(taskService)

	r := mux.NewRouter()

	r.HandleFunc("/api/tasks/health", taskHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/all", taskHandler.GetAllTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/create", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/case/{caseID}", taskHandler.GetTasksByCase).Methods(http.MethodGet)

	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.UpdateTask).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/case", taskHandler.GetCaseForTask).Methods(http.MethodGet)

	r.HandleFunc("/api/tasks/{taskID}/available-members", taskHandler.GetAvailableMembersForTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/add-members", taskHandler.AddMembersToTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/members/{memberID}", taskHandler.RemoveMemberFromTask).Methods(http.MethodDelete)

	r.HandleFunc("/api/tasks/{taskID}/subtasks", subtaskHandler.AddSubtask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/subtasks/progress", subtaskHandler.GetProgress).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/subtasks/{subtaskID}/toggle", subtaskHandler.ToggleSubtask).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/{taskID}/subtasks/{subtaskID}", subtaskHandler.EditSubtask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{taskID}/subtasks/{subtaskID}", subtaskHandler.RemoveSubtask).Methods(http.MethodDelete)

	r.HandleFunc("/api/tasks/{taskID}/comments", commentHandler.ListComments).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/comments", commentHandler.PostComment).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/comments/{commentID}/replies", commentHandler.PostReply).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/comments/{commentID}/replies/{replyID}", commentHandler.DeleteReply).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/comments/{commentID}", commentHandler.DeleteComment).Methods(http.MethodDelete)

	r.HandleFunc("/api/tasks/{taskID}/mentions/suggest", mentionHandler.Suggest).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/mentions/apply", mentionHandler.Apply).Methods(http.MethodPost)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
