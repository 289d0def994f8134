package queue

import (
	"github.com/maheshrc27/content-compass/internal/service"
)

type Queue struct {
	ps service.PostService
}

func NewQueue(ps service.PostService) *Queue {
	return &Queue{
		ps: ps,
	}
}

const TaskTypeSchedulePost = "schedule:post"

type SchedulePostPayload struct {
	PostID string `json:"post_id"`
}
