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

// IngestFindingSignatures persists the tracking signatures used to
// re-identify a finding after code movement.
type IngestFindingSignatures struct{}

func NewIngestFindingSignatures() *IngestFindingSignatures {
	return &IngestFindingSignatures{}
}

func (t *IngestFindingSignatures) Name() string {
	return "IngestFindingSignatures"
}

func (t *IngestFindingSignatures) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	var rows []models.FindingSignature
	for _, findingMap := range findingMaps {
		for _, signature := range findingMap.ReportFinding.Signatures {
			rows = append(rows, models.FindingSignature{
				FindingID: findingMap.FindingID,
				Algorithm: signature.Algorithm,
				Value:     signature.Value,
				Priority:  signature.Priority(),
			})
		}
	}
	return bulkInsertSkipConflicts(tx, rows)
}
