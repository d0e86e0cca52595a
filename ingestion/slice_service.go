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

	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/pkg/errors"
)

// IngestReportSliceService runs the fixed task chain for one slice of
// finding maps inside a single transaction. Either every task commits or the
// whole slice rolls back.
type IngestReportSliceService struct {
	transactioner shared.Transactioner
	chain         []Task
}

func NewIngestReportSliceService(transactioner shared.Transactioner, chain []Task) *IngestReportSliceService {
	return &IngestReportSliceService{
		transactioner: transactioner,
		chain:         chain,
	}
}

// IngestSlice returns the vulnerability ids now attached to the finding
// maps, in finding map order.
func (s *IngestReportSliceService) IngestSlice(pipeline models.Pipeline, findingMaps []*FindingMap) ([]int64, error) {
	if len(findingMaps) == 0 {
		return []int64{}, nil
	}

	err := s.transactioner.Transaction(func(tx shared.DB) error {
		for _, task := range s.chain {
			if err := task.Execute(tx, pipeline, findingMaps); err != nil {
				return errors.Wrapf(err, "task %s failed", task.Name())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	vulnerabilityIDs := make([]int64, 0, len(findingMaps))
	for _, findingMap := range findingMaps {
		if findingMap.VulnerabilityID == 0 {
			// every finding map should carry a vulnerability id after the
			// chain ran. A zero id is a chain defect, not a data problem.
			slog.Error("finding map without vulnerability id after task chain",
				"findingUuid", findingMap.UUID(),
			)
			continue
		}
		vulnerabilityIDs = append(vulnerabilityIDs, findingMap.VulnerabilityID)
	}
	return vulnerabilityIDs, nil
}
