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
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/stretchr/testify/assert"
)

type fakeScanRepository struct {
	securityFindings []models.SecurityFinding
	errorMarks       int
}

func (f *fakeScanRepository) LatestSecurityScans(pipelineID uuid.UUID) ([]models.Scan, error) {
	return nil, nil
}

func (f *fakeScanRepository) DeduplicatedFindings(scanID uuid.UUID) ([]models.SecurityFinding, error) {
	return f.securityFindings, nil
}

func (f *fakeScanRepository) MarkIngestionError(scanID uuid.UUID) error {
	f.errorMarks++
	return nil
}

type fakeSliceIngester struct {
	sliceSizes []int
	failSlice  int
	nextID     int64
}

func (f *fakeSliceIngester) IngestSlice(pipeline models.Pipeline, findingMaps []*FindingMap) ([]int64, error) {
	f.sliceSizes = append(f.sliceSizes, len(findingMaps))
	if len(f.sliceSizes) == f.failSlice {
		return nil, fmt.Errorf("constraint violation")
	}
	ids := make([]int64, 0, len(findingMaps))
	for range findingMaps {
		f.nextID++
		ids = append(ids, f.nextID)
	}
	return ids, nil
}

func scanWithFindings(t *testing.T, amount int) (models.Scan, []models.SecurityFinding) {
	t.Helper()
	reportFindings := make([]dtos.ReportFinding, 0, amount)
	securityFindings := make([]models.SecurityFinding, 0, amount)
	for i := 0; i < amount; i++ {
		findingUUID := fmt.Sprintf("%08d-0000-0000-0000-000000000000", i)
		reportFindings = append(reportFindings, dtos.ReportFinding{
			UUID:     findingUUID,
			Name:     fmt.Sprintf("finding %d", i),
			Severity: dtos.SeverityHigh,
		})
		securityFindings = append(securityFindings, models.SecurityFinding{
			FindingUUID:  findingUUID,
			Deduplicated: true,
		})
	}
	raw, err := json.Marshal(reportFindings)
	assert.NoError(t, err)
	return models.Scan{ReportFindings: raw, ScanType: dtos.ScanTypeSast}, securityFindings
}

func TestIngestReportService(t *testing.T) {
	t.Run("should split the findings into batches of 50", func(t *testing.T) {
		scan, securityFindings := scanWithFindings(t, 120)
		scanRepository := &fakeScanRepository{securityFindings: securityFindings}
		sliceIngester := &fakeSliceIngester{}

		svc := NewIngestReportService(scanRepository, sliceIngester)
		ids, err := svc.IngestReport(models.Pipeline{}, scan)

		assert.NoError(t, err)
		assert.Equal(t, []int{50, 50, 20}, sliceIngester.sliceSizes)
		assert.Len(t, ids, 120)
		assert.Equal(t, 0, scanRepository.errorMarks)
	})

	t.Run("should isolate a failing slice and keep the others", func(t *testing.T) {
		scan, securityFindings := scanWithFindings(t, 120)
		scanRepository := &fakeScanRepository{securityFindings: securityFindings}
		sliceIngester := &fakeSliceIngester{failSlice: 2}

		svc := NewIngestReportService(scanRepository, sliceIngester)
		ids, err := svc.IngestReport(models.Pipeline{}, scan)

		assert.NoError(t, err)
		assert.Equal(t, []int{50, 50, 20}, sliceIngester.sliceSizes)
		// slice 2 contributes nothing
		assert.Len(t, ids, 70)
	})

	t.Run("should mark the scan ingestion error exactly once", func(t *testing.T) {
		scan, securityFindings := scanWithFindings(t, 120)
		scanRepository := &fakeScanRepository{securityFindings: securityFindings}
		// every slice fails
		sliceIngester := &failingSliceIngester{}

		svc := NewIngestReportService(scanRepository, sliceIngester)
		ids, err := svc.IngestReport(models.Pipeline{}, scan)

		assert.NoError(t, err)
		assert.Empty(t, ids)
		assert.Equal(t, 1, scanRepository.errorMarks)
	})

	t.Run("should mark the scan on an unparseable report", func(t *testing.T) {
		scanRepository := &fakeScanRepository{}
		svc := NewIngestReportService(scanRepository, &fakeSliceIngester{})

		ids, err := svc.IngestReport(models.Pipeline{}, models.Scan{ReportFindings: []byte("{not json")})

		assert.NoError(t, err)
		assert.Empty(t, ids)
		assert.Equal(t, 1, scanRepository.errorMarks)
	})
}

type failingSliceIngester struct{}

func (f *failingSliceIngester) IngestSlice(pipeline models.Pipeline, findingMaps []*FindingMap) ([]int64, error) {
	return nil, fmt.Errorf("boom")
}
