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

package tasks

import (
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/ingestion"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
)

// IngestFindingPipelines records that this pipeline reported each finding.
type IngestFindingPipelines struct{}

func NewIngestFindingPipelines() *IngestFindingPipelines {
	return &IngestFindingPipelines{}
}

func (t *IngestFindingPipelines) Name() string {
	return "IngestFindingPipelines"
}

func (t *IngestFindingPipelines) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	rows := utils.Map(findingMaps, func(findingMap *ingestion.FindingMap) models.FindingPipeline {
		return models.FindingPipeline{
			FindingID:  findingMap.FindingID,
			PipelineID: pipeline.ID,
		}
	})
	return bulkInsertSkipConflicts(tx, rows)
}
