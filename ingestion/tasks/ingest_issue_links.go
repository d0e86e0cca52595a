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

// IngestIssueLinks connects vulnerabilities to issues users created for the
// finding before the vulnerability row existed. One batched feedback query
// per slice.
type IngestIssueLinks struct{}

func NewIngestIssueLinks() *IngestIssueLinks {
	return &IngestIssueLinks{}
}

func (t *IngestIssueLinks) Name() string {
	return "IngestIssueLinks"
}

func (t *IngestIssueLinks) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	uuids := utils.Map(findingMaps, func(findingMap *ingestion.FindingMap) string {
		return findingMap.ResolvedUUID()
	})

	var feedbacks []models.IssueFeedback
	err := tx.
		Where("project_id = ?", pipeline.ProjectID).
		Where("finding_uuid IN ?", uuids).
		Find(&feedbacks).Error
	if err != nil {
		return err
	}
	if len(feedbacks) == 0 {
		return nil
	}

	vulnerabilityIDByUUID := make(map[string]int64, len(findingMaps))
	for _, findingMap := range findingMaps {
		vulnerabilityIDByUUID[findingMap.ResolvedUUID()] = findingMap.VulnerabilityID
	}

	rows := make([]models.IssueLink, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		vulnerabilityID, ok := vulnerabilityIDByUUID[feedback.FindingUUID]
		if !ok || vulnerabilityID == 0 {
			continue
		}
		rows = append(rows, models.IssueLink{
			VulnerabilityID: vulnerabilityID,
			IssueID:         feedback.IssueID,
		})
	}
	return bulkInsertSkipConflicts(tx, rows)
}
