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

package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/database/repositories"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/ingestion"
	"github.com/l3montree-dev/secingest/ingestion/tasks"
	"github.com/l3montree-dev/secingest/services"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
	"github.com/stretchr/testify/assert"
)

type recordingEnqueuer struct {
	droppedBatches int
	autoFixJobs    int
}

func (r *recordingEnqueuer) EnqueueIngestReports(ctx context.Context, pipelineID uuid.UUID) error {
	return nil
}

func (r *recordingEnqueuer) EnqueueMarkDroppedAsResolved(ctx context.Context, projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64, delay time.Duration) error {
	r.droppedBatches++
	return nil
}

func (r *recordingEnqueuer) EnqueueAutoFix(ctx context.Context, projectID uuid.UUID, pipelineID uuid.UUID) error {
	r.autoFixJobs++
	return nil
}

func newIngestReportsService(db shared.DB, enqueuer shared.JobEnqueuer) shared.IngestReportsService {
	scanRepository := repositories.NewScanRepository(db)
	sliceService := ingestion.NewIngestReportSliceService(
		repositories.NewTransactionManager(db),
		tasks.NewTaskChain(),
	)
	return services.NewIngestReportsService(
		scanRepository,
		repositories.NewProjectRepository(db),
		repositories.NewStatisticsRepository(db),
		ingestion.NewIngestReportService(scanRepository, sliceService),
		services.NewMarkAsResolvedService(repositories.NewVulnerabilityReadRepository(db)),
		services.NewScheduleMarkDroppedAsResolvedService(
			repositories.NewConfigRepository(db),
			repositories.NewIdentifierRepository(db),
			enqueuer,
		),
		enqueuer,
		utils.NewSyncFireAndForgetSynchronizer(),
	)
}

func seedPipelineWithFindings(t *testing.T, db shared.DB, project models.Project, amount int) models.Pipeline {
	t.Helper()

	pipeline := models.Pipeline{ProjectID: project.ID, Ref: "main"}
	assert.NoError(t, db.Create(&pipeline).Error)

	// pipelines of the same project share the scanner row
	scanner := models.Scanner{Name: "Semgrep"}
	assert.NoError(t, db.
		Where(models.Scanner{ProjectID: project.ID, ExternalID: "semgrep"}).
		FirstOrCreate(&scanner).Error)

	reportFindings := make([]dtos.ReportFinding, 0, amount)
	for i := 0; i < amount; i++ {
		reportFindings = append(reportFindings, dtos.ReportFinding{
			UUID:     fmt.Sprintf("%08d-0000-0000-0000-000000000000", i),
			Name:     fmt.Sprintf("finding %d", i),
			Severity: dtos.SeverityHigh,
			Identifiers: []dtos.ReportIdentifier{
				{Type: "cwe", Name: "CWE-79", Value: "79"},
				{Type: "semgrep_id", Name: fmt.Sprintf("rule-%d", i), Value: fmt.Sprintf("rule-%d", i)},
			},
		})
	}
	raw, err := json.Marshal(reportFindings)
	assert.NoError(t, err)

	scan := models.Scan{
		PipelineID:     pipeline.ID,
		ProjectID:      project.ID,
		ScanType:       dtos.ScanTypeSast,
		Latest:         true,
		ReportFindings: raw,
		Scanners:       []models.Scanner{scanner},
	}
	assert.NoError(t, db.Create(&scan).Error)

	securityFindings := make([]models.SecurityFinding, 0, amount)
	for i := 0; i < amount; i++ {
		securityFindings = append(securityFindings, models.SecurityFinding{
			ScanID:       scan.ID,
			ScannerID:    scanner.ID,
			FindingUUID:  fmt.Sprintf("%08d-0000-0000-0000-000000000000", i),
			Deduplicated: true,
			Severity:     string(dtos.SeverityHigh),
		})
	}
	assert.NoError(t, db.CreateInBatches(&securityFindings, 100).Error)

	pipeline.Project = project
	return pipeline
}

func TestIngestionEndToEnd(t *testing.T) {
	db, terminate := initDatabaseContainer()
	defer terminate()

	project := models.Project{Name: "juice shop", Slug: "juice-shop"}
	assert.NoError(t, db.Create(&project).Error)

	enqueuer := &recordingEnqueuer{}
	svc := newIngestReportsService(db, enqueuer)

	pipeline := seedPipelineWithFindings(t, db, project, 120)

	t.Run("should ingest every finding of the pipeline", func(t *testing.T) {
		assert.NoError(t, svc.Execute(context.Background(), pipeline))

		var vulnerabilityCount, findingCount, readCount int64
		assert.NoError(t, db.Model(&models.Vulnerability{}).Count(&vulnerabilityCount).Error)
		assert.NoError(t, db.Model(&models.VulnerabilityFinding{}).Count(&findingCount).Error)
		assert.NoError(t, db.Model(&models.VulnerabilityRead{}).Count(&readCount).Error)
		assert.Equal(t, int64(120), vulnerabilityCount)
		assert.Equal(t, int64(120), findingCount)
		assert.Equal(t, int64(120), readCount)

		// every finding row carries its vulnerability link
		var unlinked int64
		assert.NoError(t, db.Model(&models.VulnerabilityFinding{}).Where("vulnerability_id IS NULL").Count(&unlinked).Error)
		assert.Equal(t, int64(0), unlinked)

		var sastReads int64
		assert.NoError(t, db.Model(&models.VulnerabilityRead{}).Where("report_type = ?", string(dtos.ScanTypeSast)).Count(&sastReads).Error)
		assert.Equal(t, int64(120), sastReads)
	})

	t.Run("should update the project and statistics bookkeeping", func(t *testing.T) {
		var reloaded models.Project
		assert.NoError(t, db.First(&reloaded, "id = ?", project.ID).Error)
		assert.True(t, reloaded.HasVulnerabilities)

		var statistic models.VulnerabilityStatistic
		assert.NoError(t, db.First(&statistic, "project_id = ?", project.ID).Error)
		assert.NotNil(t, statistic.LatestPipelineID)
		assert.Equal(t, pipeline.ID, *statistic.LatestPipelineID)
		assert.Equal(t, int64(120), statistic.Total)
		assert.Equal(t, int64(120), statistic.High)
	})

	t.Run("should be idempotent on re-ingestion", func(t *testing.T) {
		assert.NoError(t, svc.Execute(context.Background(), pipeline))

		var vulnerabilityCount, findingCount int64
		assert.NoError(t, db.Model(&models.Vulnerability{}).Count(&vulnerabilityCount).Error)
		assert.NoError(t, db.Model(&models.VulnerabilityFinding{}).Count(&findingCount).Error)
		assert.Equal(t, int64(120), vulnerabilityCount)
		assert.Equal(t, int64(120), findingCount)

		// nothing dropped out, nothing got resolved
		var resolved int64
		assert.NoError(t, db.Model(&models.VulnerabilityRead{}).Where("resolved_on_default_branch = ?", true).Count(&resolved).Error)
		assert.Equal(t, int64(0), resolved)
	})

	t.Run("should resolve findings missing from a later pipeline", func(t *testing.T) {
		var scanner models.Scanner
		assert.NoError(t, db.First(&scanner, "project_id = ? AND external_id = ?", project.ID, "semgrep").Error)

		// a manually reported vulnerability never shows up in any scan, so the
		// scan-driven pass must leave it alone
		manual := models.Vulnerability{
			ProjectID:  project.ID,
			Title:      "manually reported",
			Severity:   string(dtos.SeverityLow),
			ReportType: string(dtos.ScanTypeGeneric),
			State:      models.VulnerabilityStateDetected,
		}
		assert.NoError(t, db.Create(&manual).Error)
		manualRead := models.VulnerabilityRead{
			VulnerabilityID: manual.ID,
			ProjectID:       project.ID,
			ScannerID:       scanner.ID,
			UUID:            uuid.NewString(),
			Severity:        string(dtos.SeverityLow),
			ReportType:      string(dtos.ScanTypeGeneric),
			State:           models.VulnerabilityStateDetected,
		}
		assert.NoError(t, db.Create(&manualRead).Error)

		// a fresh pipeline of the same scanner reporting only the first 100
		later := seedPipelineWithFindings(t, db, project, 100)
		assert.NoError(t, svc.Execute(context.Background(), later))

		var resolved int64
		assert.NoError(t, db.Model(&models.VulnerabilityRead{}).Where("resolved_on_default_branch = ?", true).Count(&resolved).Error)
		assert.Equal(t, int64(20), resolved)

		assert.NoError(t, db.First(&manualRead, "id = ?", manualRead.ID).Error)
		assert.False(t, manualRead.ResolvedOnDefaultBranch)
	})
}

func TestOverriddenFindingIngestion(t *testing.T) {
	db, terminate := initDatabaseContainer()
	defer terminate()

	project := models.Project{Name: "legacy shop", Slug: "legacy-shop"}
	assert.NoError(t, db.Create(&project).Error)

	pipeline := models.Pipeline{ProjectID: project.ID, Ref: "main"}
	assert.NoError(t, db.Create(&pipeline).Error)

	scanner := models.Scanner{ProjectID: project.ID, ExternalID: "semgrep", Name: "Semgrep"}
	assert.NoError(t, db.Create(&scanner).Error)

	const overriddenUUID = "aaaaaaaa-0000-0000-0000-000000000000"
	const overridingUUID = "bbbbbbbb-0000-0000-0000-000000000000"

	raw, err := json.Marshal([]dtos.ReportFinding{
		{
			UUID:     overriddenUUID,
			Name:     "sql injection",
			Severity: dtos.SeverityCritical,
			Identifiers: []dtos.ReportIdentifier{
				{Type: "cwe", Name: "CWE-89", Value: "89"},
			},
		},
		{
			UUID:     overridingUUID,
			Name:     "sql injection",
			Severity: dtos.SeverityCritical,
			Identifiers: []dtos.ReportIdentifier{
				{Type: "cwe", Name: "CWE-89", Value: "89"},
			},
		},
	})
	assert.NoError(t, err)

	scan := models.Scan{
		PipelineID:     pipeline.ID,
		ProjectID:      project.ID,
		ScanType:       dtos.ScanTypeSast,
		Latest:         true,
		ReportFindings: raw,
		Scanners:       []models.Scanner{scanner},
	}
	assert.NoError(t, db.Create(&scan).Error)

	securityFindings := []models.SecurityFinding{
		{ScanID: scan.ID, ScannerID: scanner.ID, FindingUUID: overriddenUUID, Deduplicated: true, Severity: string(dtos.SeverityCritical)},
		{ScanID: scan.ID, ScannerID: scanner.ID, FindingUUID: overridingUUID, OverriddenUUID: utils.Ptr(overriddenUUID), Deduplicated: true, Severity: string(dtos.SeverityCritical)},
	}
	assert.NoError(t, db.Create(&securityFindings).Error)

	pipeline.Project = project
	svc := newIngestReportsService(db, &recordingEnqueuer{})

	t.Run("should collapse the pair onto one finding", func(t *testing.T) {
		assert.NoError(t, svc.Execute(context.Background(), pipeline))

		// the ingestion of the pair must not error out the scan
		var reloaded models.Scan
		assert.NoError(t, db.First(&reloaded, "id = ?", scan.ID).Error)
		assert.False(t, reloaded.IngestionError)

		var findings []models.VulnerabilityFinding
		assert.NoError(t, db.Find(&findings).Error)
		assert.Len(t, findings, 1)
		assert.Equal(t, overriddenUUID, findings[0].UUID)
		assert.NotNil(t, findings[0].VulnerabilityID)

		var vulnerabilityCount, readCount int64
		assert.NoError(t, db.Model(&models.Vulnerability{}).Count(&vulnerabilityCount).Error)
		assert.NoError(t, db.Model(&models.VulnerabilityRead{}).Count(&readCount).Error)
		assert.Equal(t, int64(1), vulnerabilityCount)
		assert.Equal(t, int64(1), readCount)

		var statistic models.VulnerabilityStatistic
		assert.NoError(t, db.First(&statistic, "project_id = ?", project.ID).Error)
		assert.Equal(t, int64(1), statistic.Total)
		assert.Equal(t, int64(1), statistic.Critical)
	})
}
