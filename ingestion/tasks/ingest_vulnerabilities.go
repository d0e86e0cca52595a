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
	"gorm.io/gorm/clause"
)

// IngestVulnerabilities creates a vulnerability for every newly seen finding
// and re-detects previously resolved ones. The read model row is upserted for
// every map without touching the resolved-on-default-branch flag.
type IngestVulnerabilities struct{}

func NewIngestVulnerabilities() *IngestVulnerabilities {
	return &IngestVulnerabilities{}
}

func (t *IngestVulnerabilities) Name() string {
	return "IngestVulnerabilities"
}

func (t *IngestVulnerabilities) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	newMaps := utils.Filter(findingMaps, func(findingMap *ingestion.FindingMap) bool {
		return findingMap.VulnerabilityID == 0
	})
	existingIDs := utils.Map(
		utils.Filter(findingMaps, func(findingMap *ingestion.FindingMap) bool {
			return findingMap.VulnerabilityID != 0
		}),
		func(findingMap *ingestion.FindingMap) int64 {
			return findingMap.VulnerabilityID
		},
	)

	// a vulnerability that was resolved but shows up again in a fresh report
	// is re-detected. Dismissed ones stay dismissed.
	if len(existingIDs) > 0 {
		err := tx.Model(&models.Vulnerability{}).
			Where("id IN ?", existingIDs).
			Where("state = ?", models.VulnerabilityStateResolved).
			Updates(map[string]any{
				"state":       models.VulnerabilityStateDetected,
				"resolved_at": nil,
			}).Error
		if err != nil {
			return err
		}
	}

	// maps sharing a finding row share its vulnerability, so only the first
	// map per finding creates one
	owners := make([]*ingestion.FindingMap, 0, len(newMaps))
	ownerByFinding := make(map[int64]*ingestion.FindingMap, len(newMaps))
	for _, findingMap := range newMaps {
		if _, seen := ownerByFinding[findingMap.FindingID]; !seen {
			ownerByFinding[findingMap.FindingID] = findingMap
			owners = append(owners, findingMap)
		}
	}

	rows := make([]models.Vulnerability, 0, len(owners))
	for _, findingMap := range owners {
		rows = append(rows, models.Vulnerability{
			ProjectID:  pipeline.ProjectID,
			Title:      findingMap.ReportFinding.Name,
			Severity:   string(findingMap.ReportFinding.Severity),
			ReportType: string(findingMap.Scan.ScanType),
			State:      models.VulnerabilityStateDetected,
		})
	}
	if len(rows) > 0 {
		err := tx.Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).Create(&rows).Error
		if err != nil {
			return err
		}
		for i, findingMap := range owners {
			findingMap.VulnerabilityID = rows[i].ID
		}
		for _, findingMap := range newMaps {
			findingMap.VulnerabilityID = ownerByFinding[findingMap.FindingID].VulnerabilityID
		}
	}

	readRows := make([]models.VulnerabilityRead, 0, len(findingMaps))
	seenVulnerability := make(map[int64]bool, len(findingMaps))
	for _, findingMap := range findingMaps {
		if seenVulnerability[findingMap.VulnerabilityID] {
			continue
		}
		seenVulnerability[findingMap.VulnerabilityID] = true
		readRows = append(readRows, models.VulnerabilityRead{
			VulnerabilityID: findingMap.VulnerabilityID,
			ProjectID:       pipeline.ProjectID,
			ScannerID:       findingMap.SecurityFinding.ScannerID,
			UUID:            findingMap.ResolvedUUID(),
			Severity:        string(findingMap.ReportFinding.Severity),
			ReportType:      string(findingMap.Scan.ScanType),
			State:           models.VulnerabilityStateDetected,
		})
	}
	return bulkUpsertReturning(tx, readRows,
		[]clause.Column{{Name: "vulnerability_id"}},
		[]string{"scanner_id", "severity", "state", "updated_at"},
	)
}
