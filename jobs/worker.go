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
	"encoding/json"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/l3montree-dev/secingest/monitoring"
	"github.com/l3montree-dev/secingest/shared"
)

// Worker consumes the ingestion queue. Auto-fix jobs are produced here but
// consumed by the auto-fix bot, so no handler is registered for them.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(
	pipelineRepository shared.PipelineRepository,
	ingestReports shared.IngestReportsService,
	markDropped shared.MarkDroppedAsResolvedService,
) *Worker {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				monitoring.Alert("job failed: "+task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeIngestReports, func(ctx context.Context, task *asynq.Task) error {
		var payload IngestReportsPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}
		pipeline, err := pipelineRepository.Read(payload.PipelineID)
		if err != nil {
			return err
		}
		return ingestReports.Execute(ctx, pipeline)
	})
	mux.HandleFunc(TypeMarkDroppedAsResolved, func(ctx context.Context, task *asynq.Task) error {
		var payload MarkDroppedAsResolvedPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}
		return markDropped.Execute(payload.ProjectID, payload.ScanType, payload.IdentifierIDs)
	})

	return &Worker{server: server, mux: mux}
}

func (w *Worker) Start() error {
	slog.Info("starting job worker")
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
