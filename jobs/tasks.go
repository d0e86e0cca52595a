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
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/l3montree-dev/secingest/dtos"
)

const (
	TypeIngestReports         = "secingest:ingest_reports"
	TypeMarkDroppedAsResolved = "secingest:mark_dropped_as_resolved"
	TypeAutoFix               = "secingest:auto_fix"
)

type IngestReportsPayload struct {
	PipelineID uuid.UUID `json:"pipelineId"`
}

type MarkDroppedAsResolvedPayload struct {
	ProjectID     uuid.UUID     `json:"projectId"`
	ScanType      dtos.ScanType `json:"scanType"`
	IdentifierIDs []int64       `json:"identifierIds"`
}

type AutoFixPayload struct {
	ProjectID  uuid.UUID `json:"projectId"`
	PipelineID uuid.UUID `json:"pipelineId"`
}

func NewIngestReportsTask(pipelineID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestReportsPayload{PipelineID: pipelineID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIngestReports, payload), nil
}

func NewMarkDroppedAsResolvedTask(projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64) (*asynq.Task, error) {
	payload, err := json.Marshal(MarkDroppedAsResolvedPayload{
		ProjectID:     projectID,
		ScanType:      scanType,
		IdentifierIDs: identifierIDs,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMarkDroppedAsResolved, payload), nil
}

func NewAutoFixTask(projectID uuid.UUID, pipelineID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(AutoFixPayload{ProjectID: projectID, PipelineID: pipelineID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAutoFix, payload), nil
}
