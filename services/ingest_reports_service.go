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
	"fmt"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/monitoring"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
)

// IngestReportsService is the pipeline level orchestrator. It ingests every
// latest error-free scan of the pipeline, reconciles resolutions against the
// freshly ingested ids and schedules the follow-up jobs.
type IngestReportsService struct {
	scanRepository       shared.ScanRepository
	projectRepository    shared.ProjectRepository
	statisticsRepository shared.StatisticsRepository
	reportIngester       shared.ReportIngester
	markAsResolved       shared.MarkAsResolvedService
	scheduleMarkDropped  shared.ScheduleMarkDroppedAsResolvedService
	jobEnqueuer          shared.JobEnqueuer
	fireAndForget        utils.FireAndForgetSynchronizer
}

func NewIngestReportsService(
	scanRepository shared.ScanRepository,
	projectRepository shared.ProjectRepository,
	statisticsRepository shared.StatisticsRepository,
	reportIngester shared.ReportIngester,
	markAsResolved shared.MarkAsResolvedService,
	scheduleMarkDropped shared.ScheduleMarkDroppedAsResolvedService,
	jobEnqueuer shared.JobEnqueuer,
	fireAndForget utils.FireAndForgetSynchronizer,
) *IngestReportsService {
	return &IngestReportsService{
		scanRepository:       scanRepository,
		projectRepository:    projectRepository,
		statisticsRepository: statisticsRepository,
		reportIngester:       reportIngester,
		markAsResolved:       markAsResolved,
		scheduleMarkDropped:  scheduleMarkDropped,
		jobEnqueuer:          jobEnqueuer,
		fireAndForget:        fireAndForget,
	}
}

func (s *IngestReportsService) Execute(ctx context.Context, pipeline models.Pipeline) error {
	scans, err := s.scanRepository.LatestSecurityScans(pipeline.ID)
	if err != nil {
		return err
	}

	// ids are accumulated per scanner: a scan's ingested ids belong to every
	// scanner that produced the scan.
	scannersByID := make(map[uuid.UUID]models.Scanner)
	idsByScanner := make(map[uuid.UUID][]int64)
	scannerOrder := make([]uuid.UUID, 0)
	for _, scan := range scans {
		ingestedIDs, err := s.reportIngester.IngestReport(pipeline, scan)
		if err != nil {
			monitoring.Alert(fmt.Sprintf("could not ingest report of scan %s", scan.ID), err)
			continue
		}
		for _, scanner := range scan.Scanners {
			if _, ok := scannersByID[scanner.ID]; !ok {
				scannersByID[scanner.ID] = scanner
				scannerOrder = append(scannerOrder, scanner.ID)
			}
			idsByScanner[scanner.ID] = append(idsByScanner[scanner.ID], ingestedIDs...)
		}
	}

	for _, scannerID := range scannerOrder {
		scanner := scannersByID[scannerID]
		if err := s.markAsResolved.Execute(&scanner, idsByScanner[scannerID]); err != nil {
			monitoring.Alert(fmt.Sprintf("could not mark resolved vulnerabilities of scanner %s", scannerID), err)
		}
	}

	if err := s.projectRepository.MarkAsVulnerable(pipeline.ProjectID); err != nil {
		return err
	}
	if err := s.statisticsRepository.UpdateLatestPipeline(pipeline.ProjectID, pipeline.ID); err != nil {
		return err
	}

	scansByType := make(map[dtos.ScanType][]models.Scan)
	scanTypes := make([]dtos.ScanType, 0)
	for _, scan := range scans {
		if _, ok := scansByType[scan.ScanType]; !ok {
			scanTypes = append(scanTypes, scan.ScanType)
		}
		scansByType[scan.ScanType] = append(scansByType[scan.ScanType], scan)
	}

	for _, scanType := range scanTypes {
		primaryIdentifiers := utils.UniqBy(
			utils.Flat(utils.Map(scansByType[scanType], func(scan models.Scan) []dtos.ReportIdentifier {
				return scan.PrimaryIdentifiers()
			})),
			func(identifier dtos.ReportIdentifier) string { return identifier.Key() },
		)
		if err := s.scheduleMarkDropped.Schedule(ctx, pipeline.ProjectID, scanType, primaryIdentifiers); err != nil {
			monitoring.Alert(fmt.Sprintf("could not schedule dropped identifier resolution for scan type %s", scanType), err)
		}
	}

	if pipeline.Project.AutoFixEnabledFor(scanTypes) {
		s.fireAndForget.FireAndForget(func() {
			if err := s.jobEnqueuer.EnqueueAutoFix(context.Background(), pipeline.ProjectID, pipeline.ID); err != nil {
				monitoring.Alert("could not enqueue auto fix job", err)
			}
		})
	}
	return nil
}
