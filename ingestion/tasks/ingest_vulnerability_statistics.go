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
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/ingestion"
	"github.com/l3montree-dev/secingest/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngestVulnerabilityStatistics increments the project's severity rollup by
// the vulnerabilities created in this slice. Re-detected ones are already
// counted.
type IngestVulnerabilityStatistics struct{}

func NewIngestVulnerabilityStatistics() *IngestVulnerabilityStatistics {
	return &IngestVulnerabilityStatistics{}
}

func (t *IngestVulnerabilityStatistics) Name() string {
	return "IngestVulnerabilityStatistics"
}

func (t *IngestVulnerabilityStatistics) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	counts := map[dtos.Severity]int64{}
	counted := map[int64]bool{}
	var total int64
	for _, findingMap := range findingMaps {
		// maps sharing a vulnerability contribute once
		if !findingMap.NewRecord || counted[findingMap.VulnerabilityID] {
			continue
		}
		counted[findingMap.VulnerabilityID] = true
		counts[findingMap.ReportFinding.Severity]++
		total++
	}
	if total == 0 {
		return nil
	}

	row := models.VulnerabilityStatistic{
		ProjectID: pipeline.ProjectID,
		Total:     total,
		Critical:  counts[dtos.SeverityCritical],
		High:      counts[dtos.SeverityHigh],
		Medium:    counts[dtos.SeverityMedium],
		Low:       counts[dtos.SeverityLow],
		Unknown:   counts[dtos.SeverityUnknown],
		Info:      counts[dtos.SeverityInfo],
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total":    gorm.Expr("vulnerability_statistics.total + ?", row.Total),
			"critical": gorm.Expr("vulnerability_statistics.critical + ?", row.Critical),
			"high":     gorm.Expr("vulnerability_statistics.high + ?", row.High),
			"medium":   gorm.Expr("vulnerability_statistics.medium + ?", row.Medium),
			"low":      gorm.Expr("vulnerability_statistics.low + ?", row.Low),
			"unknown":  gorm.Expr("vulnerability_statistics.unknown + ?", row.Unknown),
			"info":     gorm.Expr("vulnerability_statistics.info + ?", row.Info),
		}),
	}).Create(&row).Error
}
