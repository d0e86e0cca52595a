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

package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/labstack/echo/v4"
)

// IngestController accepts ingestion requests for a pipeline and hands them
// to the job queue. The actual work happens in the worker.
type IngestController struct {
	pipelineRepository shared.PipelineRepository
	jobEnqueuer        shared.JobEnqueuer
}

func NewIngestController(pipelineRepository shared.PipelineRepository, jobEnqueuer shared.JobEnqueuer) *IngestController {
	return &IngestController{
		pipelineRepository: pipelineRepository,
		jobEnqueuer:        jobEnqueuer,
	}
}

func (c *IngestController) Enqueue(ctx echo.Context) error {
	pipelineID, err := uuid.Parse(ctx.Param("pipelineID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pipeline id")
	}

	if _, err := c.pipelineRepository.Read(pipelineID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "could not find pipeline").WithInternal(err)
	}

	if err := c.jobEnqueuer.EnqueueIngestReports(ctx.Request().Context(), pipelineID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not enqueue ingestion").WithInternal(err)
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"status":     "scheduled",
		"pipelineId": pipelineID.String(),
	})
}
