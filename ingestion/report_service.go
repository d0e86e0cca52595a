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
	"fmt"
	"time"

	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/monitoring"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
)

// IngestionBatchSize bounds the number of finding maps per transaction.
const IngestionBatchSize = 50

// SliceIngester is implemented by IngestReportSliceService.
type SliceIngester interface {
	IngestSlice(pipeline models.Pipeline, findingMaps []*FindingMap) ([]int64, error)
}

// IngestReportService ingests one scan's report in slices. A failing slice
// is reported and skipped, the remaining slices of the scan still run.
type IngestReportService struct {
	scanRepository shared.ScanRepository
	sliceIngester  SliceIngester
}

func NewIngestReportService(scanRepository shared.ScanRepository, sliceIngester SliceIngester) *IngestReportService {
	return &IngestReportService{
		scanRepository: scanRepository,
		sliceIngester:  sliceIngester,
	}
}

func (s *IngestReportService) IngestReport(pipeline models.Pipeline, scan models.Scan) ([]int64, error) {
	start := time.Now()
	defer func() {
		monitoring.ReportIngestionDuration.Observe(time.Since(start).Seconds())
	}()

	securityFindings, err := s.scanRepository.DeduplicatedFindings(scan.ID)
	if err != nil {
		return nil, err
	}
	reportFindings, err := scan.ParsedReportFindings()
	if err != nil {
		// a broken report blob taints the scan but must not abort the
		// pipeline's remaining scans.
		monitoring.Alert(fmt.Sprintf("could not parse report findings of scan %s", scan.ID), err)
		if markErr := s.scanRepository.MarkIngestionError(scan.ID); markErr != nil {
			monitoring.Alert("could not mark scan ingestion error", markErr)
		}
		return []int64{}, nil
	}

	collection := NewFindingMapCollection(scan, securityFindings, reportFindings)
	slices := utils.Chunk(collection.FindingMaps(), IngestionBatchSize)

	ingestedIDs := make([]int64, 0, len(securityFindings))
	errorMarked := false
	for _, findingMaps := range slices {
		vulnerabilityIDs, err := s.sliceIngester.IngestSlice(pipeline, findingMaps)
		if err != nil {
			monitoring.Alert(fmt.Sprintf("could not ingest slice of scan %s", scan.ID), err)
			monitoring.IngestedSlicesTotal.WithLabelValues("error").Inc()
			if !errorMarked {
				errorMarked = true
				if markErr := s.scanRepository.MarkIngestionError(scan.ID); markErr != nil {
					monitoring.Alert("could not mark scan ingestion error", markErr)
				}
			}
			continue
		}
		monitoring.IngestedSlicesTotal.WithLabelValues("success").Inc()
		monitoring.IngestedVulnerabilitiesTotal.Add(float64(len(vulnerabilityIDs)))
		ingestedIDs = append(ingestedIDs, vulnerabilityIDs...)
	}
	return ingestedIDs, nil
}
