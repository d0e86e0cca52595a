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
)

type IngestFindingLinks struct{}

func NewIngestFindingLinks() *IngestFindingLinks {
	return &IngestFindingLinks{}
}

func (t *IngestFindingLinks) Name() string {
	return "IngestFindingLinks"
}

func (t *IngestFindingLinks) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	var rows []models.FindingLink
	for _, findingMap := range findingMaps {
		for _, link := range findingMap.ReportFinding.Links {
			if link.URL == "" {
				continue
			}
			rows = append(rows, models.FindingLink{
				FindingID: findingMap.FindingID,
				URL:       link.URL,
				Name:      link.Name,
			})
		}
	}
	return bulkInsertSkipConflicts(tx, rows)
}
