// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package jobs

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/l3montree-dev/secingest/dtos"
)

// Client enqueues fire-and-forget jobs. Once enqueued there is no
// cancellation hook, the optional delay is the only timing control.
type Client struct {
	client *asynq.Client
}

func NewClient() *Client {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueIngestReports(ctx context.Context, pipelineID uuid.UUID) error {
	task, err := NewIngestReportsTask(pipelineID)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	slog.Debug("enqueued ingest reports job", "taskId", info.ID, "pipelineId", pipelineID)
	return nil
}

func (c *Client) EnqueueMarkDroppedAsResolved(ctx context.Context, projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64, delay time.Duration) error {
	task, err := NewMarkDroppedAsResolvedTask(projectID, scanType, identifierIDs)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}
	slog.Debug("enqueued mark dropped as resolved job",
		"taskId", info.ID,
		"projectId", projectID,
		"identifiers", len(identifierIDs),
		"delay", delay,
	)
	return nil
}

func (c *Client) EnqueueAutoFix(ctx context.Context, projectID uuid.UUID, pipelineID uuid.UUID) error {
	task, err := NewAutoFixTask(projectID, pipelineID)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	slog.Debug("enqueued auto fix job", "taskId", info.ID, "projectId", projectID)
	return nil
}
