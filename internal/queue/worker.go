package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (j *Queue) HandleSchedulePostTask(ctx context.Context, task *asynq.Task) error {
	var payload SchedulePostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	published, err := j.ps.PublishDue(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if published {
		slog.Info("post published", "post_id", payload.PostID)
	}
	return nil
}
