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
	"encoding/json"

	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/ingestion"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// IngestFindings upserts the long-lived finding rows keyed by their resolved
// uuid. It writes the finding id onto each map, flags maps whose row was
// created in this run and pre-populates the vulnerability id of maps whose
// row is already linked.
type IngestFindings struct{}

func NewIngestFindings() *IngestFindings {
	return &IngestFindings{}
}

func (t *IngestFindings) Name() string {
	return "IngestFindings"
}

func (t *IngestFindings) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	uuids := utils.Map(findingMaps, func(findingMap *ingestion.FindingMap) string {
		return findingMap.ResolvedUUID()
	})

	var existing []models.VulnerabilityFinding
	err := tx.Select("id", "uuid", "vulnerability_id").
		Where("uuid IN ?", uuids).
		Find(&existing).Error
	if err != nil {
		return err
	}
	existingByUUID := make(map[string]models.VulnerabilityFinding, len(existing))
	for _, finding := range existing {
		existingByUUID[finding.UUID] = finding
	}

	// maps resolving to the same uuid (an overriding finding next to the one
	// it replaces) collapse onto a single row. The collection order puts the
	// overriding map first, so it owns the row.
	rows := make([]models.VulnerabilityFinding, 0, len(findingMaps))
	rowIndexByUUID := make(map[string]int, len(findingMaps))
	for _, findingMap := range findingMaps {
		if _, seen := rowIndexByUUID[findingMap.ResolvedUUID()]; seen {
			continue
		}
		location, err := json.Marshal(findingMap.ReportFinding.Location)
		if err != nil {
			return errors.Wrapf(err, "could not marshal location of finding %s", findingMap.ResolvedUUID())
		}
		rowIndexByUUID[findingMap.ResolvedUUID()] = len(rows)
		rows = append(rows, models.VulnerabilityFinding{
			UUID:                findingMap.ResolvedUUID(),
			ProjectID:           pipeline.ProjectID,
			ScannerID:           findingMap.SecurityFinding.ScannerID,
			Name:                findingMap.ReportFinding.Name,
			Description:         findingMap.ReportFinding.Description,
			Solution:            findingMap.ReportFinding.Solution,
			Severity:            string(findingMap.ReportFinding.Severity),
			Location:            location,
			RawMetadata:         []byte(findingMap.ReportFinding.RawMetadata),
			PrimaryIdentifierID: firstID(findingMap.IdentifierIDs),
		})
	}

	err = bulkUpsertReturning(tx, rows,
		[]clause.Column{{Name: "uuid"}},
		[]string{"scanner_id", "name", "description", "solution", "severity", "location", "raw_metadata", "primary_identifier_id", "updated_at"},
	)
	if err != nil {
		return err
	}

	for _, findingMap := range findingMaps {
		findingMap.FindingID = rows[rowIndexByUUID[findingMap.ResolvedUUID()]].ID
		existingFinding, found := existingByUUID[findingMap.ResolvedUUID()]
		findingMap.NewRecord = !found
		if found && existingFinding.VulnerabilityID != nil {
			findingMap.VulnerabilityID = *existingFinding.VulnerabilityID
		}
	}
	return nil
}

func firstID(ids []int64) *int64 {
	if len(ids) == 0 {
		return nil
	}
	return utils.Ptr(ids[0])
}
