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
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/utils"
	"github.com/stretchr/testify/assert"
)

type fakeScanRepository struct {
	scans []models.Scan
}

func (f *fakeScanRepository) LatestSecurityScans(pipelineID uuid.UUID) ([]models.Scan, error) {
	return f.scans, nil
}

func (f *fakeScanRepository) DeduplicatedFindings(scanID uuid.UUID) ([]models.SecurityFinding, error) {
	return nil, nil
}

func (f *fakeScanRepository) MarkIngestionError(scanID uuid.UUID) error {
	return nil
}

type fakeProjectRepository struct {
	markedVulnerable int
}

func (f *fakeProjectRepository) Read(id uuid.UUID) (models.Project, error) {
	return models.Project{}, nil
}

func (f *fakeProjectRepository) MarkAsVulnerable(projectID uuid.UUID) error {
	f.markedVulnerable++
	return nil
}

type fakeStatisticsRepository struct {
	latestPipelineID uuid.UUID
}

func (f *fakeStatisticsRepository) UpdateLatestPipeline(projectID uuid.UUID, pipelineID uuid.UUID) error {
	f.latestPipelineID = pipelineID
	return nil
}

type fakeReportIngester struct {
	idsByScan map[uuid.UUID][]int64
}

func (f *fakeReportIngester) IngestReport(pipeline models.Pipeline, scan models.Scan) ([]int64, error) {
	return f.idsByScan[scan.ID], nil
}

type fakeMarkAsResolved struct {
	idsByScanner map[uuid.UUID][]int64
}

func (f *fakeMarkAsResolved) Execute(scanner *models.Scanner, ingestedIDs []int64) error {
	f.idsByScanner[scanner.ID] = ingestedIDs
	return nil
}

type scheduledDrop struct {
	scanType    dtos.ScanType
	identifiers []dtos.ReportIdentifier
}

type fakeScheduleMarkDropped struct {
	scheduled []scheduledDrop
}

func (f *fakeScheduleMarkDropped) Schedule(ctx context.Context, projectID uuid.UUID, scanType dtos.ScanType, primaryIdentifiers []dtos.ReportIdentifier) error {
	f.scheduled = append(f.scheduled, scheduledDrop{scanType: scanType, identifiers: primaryIdentifiers})
	return nil
}

func reportWithIdentifiers(t *testing.T, identifiers ...dtos.ReportIdentifier) []byte {
	t.Helper()
	raw, err := json.Marshal([]dtos.ReportFinding{
		{UUID: uuid.NewString(), Identifiers: identifiers},
	})
	assert.NoError(t, err)
	return raw
}

func TestIngestReportsService(t *testing.T) {
	scannerA := models.Scanner{Model: models.Model{ID: uuid.New()}, ExternalID: "semgrep"}
	scannerB := models.Scanner{Model: models.Model{ID: uuid.New()}, ExternalID: "trivy"}

	newFixture := func(t *testing.T, project models.Project) (
		*IngestReportsService,
		*fakeProjectRepository,
		*fakeStatisticsRepository,
		*fakeMarkAsResolved,
		*fakeScheduleMarkDropped,
		*fakeJobEnqueuer,
		models.Pipeline,
	) {
		sastScan := models.Scan{
			Model:          models.Model{ID: uuid.New()},
			ScanType:       dtos.ScanTypeSast,
			Scanners:       []models.Scanner{scannerA},
			ReportFindings: reportWithIdentifiers(t, dtos.ReportIdentifier{Type: "cve", Value: "X"}),
		}
		depScan := models.Scan{
			Model:          models.Model{ID: uuid.New()},
			ScanType:       dtos.ScanTypeDependencyScanning,
			Scanners:       []models.Scanner{scannerA, scannerB},
			ReportFindings: reportWithIdentifiers(t, dtos.ReportIdentifier{Type: "cve", Value: "Y"}),
		}

		projectRepository := &fakeProjectRepository{}
		statisticsRepository := &fakeStatisticsRepository{}
		markAsResolved := &fakeMarkAsResolved{idsByScanner: map[uuid.UUID][]int64{}}
		scheduleMarkDropped := &fakeScheduleMarkDropped{}
		enqueuer := &fakeJobEnqueuer{}

		svc := NewIngestReportsService(
			&fakeScanRepository{scans: []models.Scan{sastScan, depScan}},
			projectRepository,
			statisticsRepository,
			&fakeReportIngester{idsByScan: map[uuid.UUID][]int64{
				sastScan.ID: {1, 2},
				depScan.ID:  {3},
			}},
			markAsResolved,
			scheduleMarkDropped,
			enqueuer,
			utils.NewSyncFireAndForgetSynchronizer(),
		)

		pipeline := models.Pipeline{
			Model:     models.Model{ID: uuid.New()},
			ProjectID: uuid.New(),
			Project:   project,
		}
		return svc, projectRepository, statisticsRepository, markAsResolved, scheduleMarkDropped, enqueuer, pipeline
	}

	t.Run("should accumulate ingested ids per scanner", func(t *testing.T) {
		svc, _, _, markAsResolved, _, _, pipeline := newFixture(t, models.Project{})

		err := svc.Execute(context.Background(), pipeline)

		assert.NoError(t, err)
		// scanner a produced both scans, scanner b only the dependency scan
		assert.Equal(t, []int64{1, 2, 3}, markAsResolved.idsByScanner[scannerA.ID])
		assert.Equal(t, []int64{3}, markAsResolved.idsByScanner[scannerB.ID])
	})

	t.Run("should mark the project vulnerable and bump the latest pipeline", func(t *testing.T) {
		svc, projectRepository, statisticsRepository, _, _, _, pipeline := newFixture(t, models.Project{})

		err := svc.Execute(context.Background(), pipeline)

		assert.NoError(t, err)
		assert.Equal(t, 1, projectRepository.markedVulnerable)
		assert.Equal(t, pipeline.ID, statisticsRepository.latestPipelineID)
	})

	t.Run("should schedule dropped identifier resolution once per scan type", func(t *testing.T) {
		svc, _, _, _, scheduleMarkDropped, _, pipeline := newFixture(t, models.Project{})

		err := svc.Execute(context.Background(), pipeline)

		assert.NoError(t, err)
		assert.Len(t, scheduleMarkDropped.scheduled, 2)
		assert.Equal(t, dtos.ScanTypeSast, scheduleMarkDropped.scheduled[0].scanType)
		assert.Equal(t, []dtos.ReportIdentifier{{Type: "cve", Value: "X"}}, scheduleMarkDropped.scheduled[0].identifiers)
		assert.Equal(t, dtos.ScanTypeDependencyScanning, scheduleMarkDropped.scheduled[1].scanType)
	})

	t.Run("should enqueue auto fix when enabled for a present scan type", func(t *testing.T) {
		svc, _, _, _, _, enqueuer, pipeline := newFixture(t, models.Project{AutoFixDependencyScanning: true})

		err := svc.Execute(context.Background(), pipeline)

		assert.NoError(t, err)
		assert.Equal(t, 1, enqueuer.autoFixCalls)
	})

	t.Run("should not enqueue auto fix when disabled", func(t *testing.T) {
		svc, _, _, _, _, enqueuer, pipeline := newFixture(t, models.Project{})

		err := svc.Execute(context.Background(), pipeline)

		assert.NoError(t, err)
		assert.Equal(t, 0, enqueuer.autoFixCalls)
	})
}
