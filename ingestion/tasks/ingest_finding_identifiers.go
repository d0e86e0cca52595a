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

// IngestFindingIdentifiers joins each finding to its identifiers, keeping the
// report ordering in the position column.
type IngestFindingIdentifiers struct{}

func NewIngestFindingIdentifiers() *IngestFindingIdentifiers {
	return &IngestFindingIdentifiers{}
}

func (t *IngestFindingIdentifiers) Name() string {
	return "IngestFindingIdentifiers"
}

func (t *IngestFindingIdentifiers) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	var rows []models.FindingIdentifier
	for _, findingMap := range findingMaps {
		for position, identifierID := range findingMap.IdentifierIDs {
			rows = append(rows, models.FindingIdentifier{
				FindingID:    findingMap.FindingID,
				IdentifierID: identifierID,
				Position:     position,
			})
		}
	}
	return bulkInsertSkipConflicts(tx, rows)
}
