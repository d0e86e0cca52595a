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
	"gorm.io/gorm/clause"
)

// IngestRemediations upserts the remediation diffs of the slice, deduplicated
// by checksum, and joins the findings to them.
type IngestRemediations struct{}

func NewIngestRemediations() *IngestRemediations {
	return &IngestRemediations{}
}

func (t *IngestRemediations) Name() string {
	return "IngestRemediations"
}

func (t *IngestRemediations) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	rows := make([]models.VulnerabilityRemediation, 0)
	seen := make(map[string]struct{})
	for _, findingMap := range findingMaps {
		for _, remediation := range findingMap.ReportFinding.Remediations {
			checksum := remediation.Checksum()
			if _, ok := seen[checksum]; ok {
				continue
			}
			seen[checksum] = struct{}{}
			rows = append(rows, models.VulnerabilityRemediation{
				ProjectID: pipeline.ProjectID,
				Checksum:  checksum,
				Summary:   remediation.Summary,
				DiffFile:  []byte(remediation.Diff),
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	err := bulkUpsertReturning(tx, rows,
		[]clause.Column{{Name: "project_id"}, {Name: "checksum"}},
		[]string{"summary", "updated_at"},
	)
	if err != nil {
		return err
	}

	idsByChecksum := make(map[string]int64, len(rows))
	for _, row := range rows {
		idsByChecksum[row.Checksum] = row.ID
	}

	var joinRows []models.FindingRemediation
	for _, findingMap := range findingMaps {
		for _, remediation := range findingMap.ReportFinding.Remediations {
			joinRows = append(joinRows, models.FindingRemediation{
				FindingID:     findingMap.FindingID,
				RemediationID: idsByChecksum[remediation.Checksum()],
			})
		}
	}
	return bulkInsertSkipConflicts(tx, joinRows)
}
