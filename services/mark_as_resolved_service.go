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

package services

import (
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/monitoring"
	"github.com/l3montree-dev/secingest/shared"
)

const resolvedStreamBatchSize = 1000

// MarkAsResolvedService reconciles a scanner's previously detected
// vulnerabilities against the ids ingested in this run. Known but not
// re-detected means no longer present on the default branch.
type MarkAsResolvedService struct {
	vulnerabilityReadRepository shared.VulnerabilityReadRepository
}

func NewMarkAsResolvedService(vulnerabilityReadRepository shared.VulnerabilityReadRepository) *MarkAsResolvedService {
	return &MarkAsResolvedService{
		vulnerabilityReadRepository: vulnerabilityReadRepository,
	}
}

func (s *MarkAsResolvedService) Execute(scanner *models.Scanner, ingestedIDs []int64) error {
	if scanner == nil {
		return nil
	}

	ingested := make(map[int64]struct{}, len(ingestedIDs))
	for _, id := range ingestedIDs {
		ingested[id] = struct{}{}
	}

	return s.vulnerabilityReadRepository.StreamDetectedIDs(
		scanner.ProjectID, scanner.ID, resolvedStreamBatchSize,
		func(vulnerabilityIDs []int64) error {
			missing := make([]int64, 0, len(vulnerabilityIDs))
			for _, id := range vulnerabilityIDs {
				if _, ok := ingested[id]; !ok {
					missing = append(missing, id)
				}
			}
			if len(missing) == 0 {
				return nil
			}
			if err := s.vulnerabilityReadRepository.MarkResolvedOnDefaultBranch(missing); err != nil {
				return err
			}
			monitoring.ResolvedOnDefaultBranchTotal.Add(float64(len(missing)))
			return nil
		},
	)
}
