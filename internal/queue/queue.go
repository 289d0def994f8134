package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/content-compass/internal/models"
)

// Enqueuer is the part of asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewSchedulePostTask builds the auto-publish task for a post. The task id
// is derived from the post and its date, so saving an unchanged schedule
// twice queues one task.
func NewSchedulePostTask(post models.Post) (*asynq.Task, []asynq.Option, error) {
	taskPayload, err := json.Marshal(SchedulePostPayload{PostID: post.ID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.ProcessAt(post.Date),
		asynq.TaskID(fmt.Sprintf("publish-%s-%d", post.ID, post.Date.Unix())),
		asynq.MaxRetry(0),
		asynq.Retention(24 * time.Hour),
	}
	return asynq.NewTask(TaskTypeSchedulePost, taskPayload), opts, nil
}

// EnqueuePost schedules auto-publishing when the post asks for it.
func EnqueuePost(ctx context.Context, client Enqueuer, post models.Post) error {
	if post.Status != models.PostStatusScheduled || !post.AutoPublish {
		return nil
	}

	task, opts, err := NewSchedulePostTask(post)
	if err != nil {
		return err
	}

	_, err = client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("task scheduled", "post_id", post.ID, "at", post.Date)
	return nil
}
