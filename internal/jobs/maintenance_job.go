package job

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/content-compass/internal/service"
)

type MaintenanceJob struct {
	ps service.PostService
	is service.InvitationService
}

func NewMaintenanceJob(ps service.PostService, is service.InvitationService) *MaintenanceJob {
	return &MaintenanceJob{
		ps: ps,
		is: is,
	}
}

// SweepOverdue flags scheduled posts that were never confirmed as published.
func (c *MaintenanceJob) SweepOverdue() {
	n, err := c.ps.MarkOverdue(context.Background())
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if n > 0 {
		slog.Info("posts need verification", "count", n)
	}
}

func (c *MaintenanceJob) PurgeInvitations() {
	n, err := c.is.PurgeExpired(context.Background())
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if n > 0 {
		slog.Info("expired invitations removed", "count", n)
	}
}
