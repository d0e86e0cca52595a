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
	"strings"

	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/ingestion"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
)

// AttachFindingsToVulnerabilities writes the vulnerability id onto the
// finding rows created in this run. Existing rows already carry their link.
type AttachFindingsToVulnerabilities struct{}

func NewAttachFindingsToVulnerabilities() *AttachFindingsToVulnerabilities {
	return &AttachFindingsToVulnerabilities{}
}

func (t *AttachFindingsToVulnerabilities) Name() string {
	return "AttachFindingsToVulnerabilities"
}

func (t *AttachFindingsToVulnerabilities) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	// maps sharing a finding row produce one VALUES row
	newMaps := utils.UniqBy(
		utils.Filter(findingMaps, func(findingMap *ingestion.FindingMap) bool {
			return findingMap.NewRecord
		}),
		func(findingMap *ingestion.FindingMap) int64 {
			return findingMap.FindingID
		},
	)
	if len(newMaps) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(newMaps))
	args := make([]any, 0, len(newMaps)*2)
	for _, findingMap := range newMaps {
		placeholders = append(placeholders, "(?::bigint, ?::bigint)")
		args = append(args, findingMap.FindingID, findingMap.VulnerabilityID)
	}

	return tx.Exec(
		"UPDATE vulnerability_findings AS f SET vulnerability_id = v.vulnerability_id FROM (VALUES "+
			strings.Join(placeholders, ", ")+
			") AS v(id, vulnerability_id) WHERE f.id = v.id",
		args...,
	).Error
}
