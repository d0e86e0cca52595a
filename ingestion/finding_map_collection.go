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

package ingestion

import (
	"log/slog"
	"sort"

	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/utils"
)

// FindingMapCollection turns one scan's deduplicated security findings into
// an ordered list of FindingMaps.
//
// Findings carrying an overridden uuid must be processed before any finding
// sharing the same resolved uuid. Sorting descending on the composite key
// (overridden uuid or empty, uuid) guarantees exactly that and keeps the
// insert order deterministic across concurrent ingestions of related scans.
type FindingMapCollection struct {
	scan             models.Scan
	securityFindings []models.SecurityFinding
	reportFindings   map[string]dtos.ReportFinding

	findingMaps []*FindingMap
}

func NewFindingMapCollection(scan models.Scan, securityFindings []models.SecurityFinding, reportFindings []dtos.ReportFinding) *FindingMapCollection {
	reportFindingsByUUID := make(map[string]dtos.ReportFinding, len(reportFindings))
	for _, reportFinding := range reportFindings {
		reportFindingsByUUID[reportFinding.UUID] = reportFinding
	}
	return &FindingMapCollection{
		scan:             scan,
		securityFindings: securityFindings,
		reportFindings:   reportFindingsByUUID,
	}
}

// FindingMaps returns the ordered finding maps. The sort is memoized, every
// call returns the same slice.
func (c *FindingMapCollection) FindingMaps() []*FindingMap {
	if c.findingMaps != nil {
		return c.findingMaps
	}

	sorted := make([]models.SecurityFinding, len(c.securityFindings))
	copy(sorted, c.securityFindings)
	sort.Slice(sorted, func(i, j int) bool {
		left := utils.SafeDereference(sorted[i].OverriddenUUID)
		right := utils.SafeDereference(sorted[j].OverriddenUUID)
		if left != right {
			return left > right
		}
		return sorted[i].FindingUUID > sorted[j].FindingUUID
	})

	findingMaps := make([]*FindingMap, 0, len(sorted))
	for _, securityFinding := range sorted {
		resolvedUUID := securityFinding.FindingUUID
		if securityFinding.OverriddenUUID != nil {
			resolvedUUID = *securityFinding.OverriddenUUID
		}
		reportFinding, ok := c.reportFindings[resolvedUUID]
		if !ok {
			// the report no longer contains the finding. Nothing the task
			// chain could do with it, skip it.
			slog.Warn("security finding without matching report finding, skipping",
				"findingUuid", securityFinding.FindingUUID,
				"resolvedUuid", resolvedUUID,
				"scanId", securityFinding.ScanID,
			)
			continue
		}
		findingMaps = append(findingMaps, NewFindingMap(c.scan, securityFinding, reportFinding))
	}

	c.findingMaps = findingMaps
	return c.findingMaps
}
