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
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
)

const (
	// ResolveDroppedIdentifiersFlag toggles dropped identifier resolution.
	ResolveDroppedIdentifiersFlag = "resolve_dropped_identifiers"

	droppedIdentifierBatchSize = 1000
	droppedIdentifierDelay     = time.Minute
)

// ScheduleMarkDroppedAsResolvedService finds identifiers whose type is still
// scanned but whose specific rule no longer fires, and schedules delayed
// resolution jobs for the vulnerabilities behind them.
type ScheduleMarkDroppedAsResolvedService struct {
	configRepository     shared.ConfigRepository
	identifierRepository shared.IdentifierRepository
	jobEnqueuer          shared.JobEnqueuer
}

func NewScheduleMarkDroppedAsResolvedService(
	configRepository shared.ConfigRepository,
	identifierRepository shared.IdentifierRepository,
	jobEnqueuer shared.JobEnqueuer,
) *ScheduleMarkDroppedAsResolvedService {
	return &ScheduleMarkDroppedAsResolvedService{
		configRepository:     configRepository,
		identifierRepository: identifierRepository,
		jobEnqueuer:          jobEnqueuer,
	}
}

func (s *ScheduleMarkDroppedAsResolvedService) Schedule(ctx context.Context, projectID uuid.UUID, scanType dtos.ScanType, primaryIdentifiers []dtos.ReportIdentifier) error {
	if len(primaryIdentifiers) == 0 {
		return nil
	}
	if !s.configRepository.IsEnabled(ResolveDroppedIdentifiersFlag) {
		return nil
	}

	// the type guard: only identifier types the scanner still actively
	// reports are eligible. A whole category disappearing means the check was
	// disabled, not that the findings were fixed.
	externalTypes := utils.UniqBy(
		utils.Map(primaryIdentifiers, func(identifier dtos.ReportIdentifier) string {
			return identifier.Type
		}),
		func(t string) string { return t },
	)

	stillReported := make(map[string]struct{}, len(primaryIdentifiers))
	for _, identifier := range primaryIdentifiers {
		stillReported[identifier.Key()] = struct{}{}
	}

	candidates, err := s.identifierRepository.ResolvedDetectedIdentifiers(projectID, scanType, externalTypes)
	if err != nil {
		return err
	}

	dropped := utils.Filter(candidates, func(identifier models.VulnerabilityIdentifier) bool {
		_, ok := stillReported[identifier.ExternalType+"|"+identifier.ExternalID]
		return !ok
	})

	identifierIDs := utils.UniqBy(
		utils.Map(dropped, func(identifier models.VulnerabilityIdentifier) int64 {
			return identifier.ID
		}),
		func(id int64) int64 { return id },
	)
	sort.Slice(identifierIDs, func(i, j int) bool { return identifierIDs[i] < identifierIDs[j] })

	// one delayed job per batch, staggered to spread the load.
	for index, batch := range utils.Chunk(identifierIDs, droppedIdentifierBatchSize) {
		delay := time.Duration(index) * droppedIdentifierDelay
		if err := s.jobEnqueuer.EnqueueMarkDroppedAsResolved(ctx, projectID, scanType, batch, delay); err != nil {
			return err
		}
	}
	return nil
}
