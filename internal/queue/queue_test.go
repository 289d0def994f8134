package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enqueuerStub struct {
	tasks []*asynq.Task
	err   error
}

func (e *enqueuerStub) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type postServiceStub struct {
	publishDue func(ctx context.Context, postID string) (bool, error)
}

func (s *postServiceStub) PublishDue(ctx context.Context, postID string) (bool, error) {
	return s.publishDue(ctx, postID)
}

func (s *postServiceStub) MarkOverdue(ctx context.Context) (int, error) { return 0, nil }

func TestEnqueuePost(t *testing.T) {
	at := time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		post models.Post
		want int
	}{
		{"scheduled auto publish", models.Post{ID: "p1", Date: at, Status: models.PostStatusScheduled, AutoPublish: true}, 1},
		{"scheduled manual", models.Post{ID: "p1", Date: at, Status: models.PostStatusScheduled}, 0},
		{"draft", models.Post{ID: "p1", Date: at, Status: models.PostStatusDraft, AutoPublish: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &enqueuerStub{}
			require.NoError(t, EnqueuePost(context.Background(), stub, tt.post))
			require.Len(t, stub.tasks, tt.want)
			if tt.want == 0 {
				return
			}
			assert.Equal(t, TaskTypeSchedulePost, stub.tasks[0].Type())
			var payload SchedulePostPayload
			require.NoError(t, json.Unmarshal(stub.tasks[0].Payload(), &payload))
			assert.Equal(t, "p1", payload.PostID)
		})
	}
}

func TestEnqueuePostDuplicateIsIgnored(t *testing.T) {
	stub := &enqueuerStub{err: asynq.ErrTaskIDConflict}
	post := models.Post{ID: "p1", Date: time.Now().Add(time.Hour), Status: models.PostStatusScheduled, AutoPublish: true}
	assert.NoError(t, EnqueuePost(context.Background(), stub, post))

	stub.err = errors.New("redis down")
	assert.Error(t, EnqueuePost(context.Background(), stub, post))
}

func TestHandleSchedulePostTask(t *testing.T) {
	var got string
	q := NewQueue(&postServiceStub{publishDue: func(ctx context.Context, postID string) (bool, error) {
		got = postID
		return true, nil
	}})

	task, _, err := NewSchedulePostTask(models.Post{ID: "p9", Date: time.Now()})
	require.NoError(t, err)
	require.NoError(t, q.HandleSchedulePostTask(context.Background(), task))
	assert.Equal(t, "p9", got)

	err = q.HandleSchedulePostTask(context.Background(), asynq.NewTask(TaskTypeSchedulePost, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
