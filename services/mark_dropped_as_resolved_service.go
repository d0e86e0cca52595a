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
	"log/slog"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/shared"
)

// MarkDroppedAsResolvedService is the worker-side counterpart of the
// scheduling service: it resolves the detected vulnerabilities behind a batch
// of dropped identifiers.
type MarkDroppedAsResolvedService struct {
	vulnerabilityRepository shared.VulnerabilityRepository
}

func NewMarkDroppedAsResolvedService(vulnerabilityRepository shared.VulnerabilityRepository) *MarkDroppedAsResolvedService {
	return &MarkDroppedAsResolvedService{
		vulnerabilityRepository: vulnerabilityRepository,
	}
}

func (s *MarkDroppedAsResolvedService) Execute(projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64) error {
	if len(identifierIDs) == 0 {
		return nil
	}
	resolved, err := s.vulnerabilityRepository.ResolveWithDroppedIdentifiers(projectID, scanType, identifierIDs)
	if err != nil {
		return err
	}
	slog.Info("resolved vulnerabilities with dropped identifiers",
		"projectId", projectID,
		"reportType", scanType,
		"identifiers", len(identifierIDs),
		"resolved", resolved,
	)
	return nil
}
