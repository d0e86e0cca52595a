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
	"gorm.io/gorm/clause"
)

// maxIdentifiersPerFinding caps how many identifiers a single finding may
// contribute. Some scanners attach hundreds of cwe references to one finding.
const maxIdentifiersPerFinding = 20

// IngestIdentifiers upserts every identifier referenced by the slice and
// writes the resulting ids back onto each finding map, ordered like the
// report identifiers.
type IngestIdentifiers struct{}

func NewIngestIdentifiers() *IngestIdentifiers {
	return &IngestIdentifiers{}
}

func (t *IngestIdentifiers) Name() string {
	return "IngestIdentifiers"
}

func (t *IngestIdentifiers) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*ingestion.FindingMap) error {
	rows := make([]models.VulnerabilityIdentifier, 0, len(findingMaps))
	seen := make(map[string]struct{})
	for _, findingMap := range findingMaps {
		for _, identifier := range cappedIdentifiers(findingMap) {
			fingerprint := identifier.Fingerprint()
			if _, ok := seen[fingerprint]; ok {
				continue
			}
			seen[fingerprint] = struct{}{}
			rows = append(rows, models.VulnerabilityIdentifier{
				ProjectID:    pipeline.ProjectID,
				Fingerprint:  fingerprint,
				ExternalType: identifier.Type,
				ExternalID:   identifier.Value,
				Name:         identifier.Name,
				URL:          identifier.URL,
			})
		}
	}

	err := bulkUpsertReturning(tx, rows,
		[]clause.Column{{Name: "project_id"}, {Name: "fingerprint"}},
		[]string{"external_type", "external_id", "name", "url", "updated_at"},
	)
	if err != nil {
		return err
	}

	idsByFingerprint := make(map[string]int64, len(rows))
	for _, row := range rows {
		idsByFingerprint[row.Fingerprint] = row.ID
	}

	for _, findingMap := range findingMaps {
		identifiers := cappedIdentifiers(findingMap)
		identifierIDs := make([]int64, 0, len(identifiers))
		for _, identifier := range identifiers {
			identifierIDs = append(identifierIDs, idsByFingerprint[identifier.Fingerprint()])
		}
		findingMap.IdentifierIDs = identifierIDs
	}
	return nil
}

func cappedIdentifiers(findingMap *ingestion.FindingMap) []dtos.ReportIdentifier {
	identifiers := findingMap.ReportFinding.Identifiers
	if len(identifiers) > maxIdentifiersPerFinding {
		return identifiers[:maxIdentifiersPerFinding]
	}
	return identifiers
}
