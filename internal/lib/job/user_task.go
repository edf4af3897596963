package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskUserCreated = "user:created"

	// UsersCreatedChannel is the pub/sub channel announcing new users.
	UsersCreatedChannel = "users.created"
)

type UserCreatedPayload struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// NewUserCreatedTask builds the task on the default queue with three
// retries and a 30 second timeout.
func NewUserCreatedTask(p UserCreatedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskUserCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
