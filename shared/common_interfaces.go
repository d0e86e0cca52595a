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

package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
)

// Transactioner runs a function inside a single database transaction. The
// transaction commits only if the function returns nil, otherwise everything
// is rolled back.
type Transactioner interface {
	Transaction(fn func(tx DB) error) error
}

type PipelineRepository interface {
	Read(id uuid.UUID) (models.Pipeline, error)
}

type ScanRepository interface {
	// LatestSecurityScans returns the latest, error-free scans of a pipeline
	// with their scanners preloaded. Scans carrying a pre-existing processing
	// error are excluded entirely from ingestion.
	LatestSecurityScans(pipelineID uuid.UUID) ([]models.Scan, error)
	DeduplicatedFindings(scanID uuid.UUID) ([]models.SecurityFinding, error)
	// MarkIngestionError records an ingestion error on the scan. Repeated
	// calls are a no-op.
	MarkIngestionError(scanID uuid.UUID) error
}

type ProjectRepository interface {
	Read(id uuid.UUID) (models.Project, error)
	MarkAsVulnerable(projectID uuid.UUID) error
}

type StatisticsRepository interface {
	UpdateLatestPipeline(projectID uuid.UUID, pipelineID uuid.UUID) error
}

type VulnerabilityReadRepository interface {
	// StreamDetectedIDs yields the ids of all currently detected, non-generic
	// vulnerabilities of a scanner in batches of batchSize.
	StreamDetectedIDs(projectID uuid.UUID, scannerID uuid.UUID, batchSize int, fn func(vulnerabilityIDs []int64) error) error
	MarkResolvedOnDefaultBranch(vulnerabilityIDs []int64) error
}

type IdentifierRepository interface {
	// ResolvedDetectedIdentifiers returns the identifiers of vulnerabilities
	// of the given report type that are still in the detected state but are
	// flagged as resolved on the default branch, restricted to the given
	// external identifier types.
	ResolvedDetectedIdentifiers(projectID uuid.UUID, scanType dtos.ScanType, externalTypes []string) ([]models.VulnerabilityIdentifier, error)
}

type VulnerabilityRepository interface {
	// ResolveWithDroppedIdentifiers transitions detected vulnerabilities of
	// the given report type that are linked to the given identifiers and
	// already resolved on the default branch into the resolved state. Returns
	// the number of affected rows.
	ResolveWithDroppedIdentifiers(projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64) (int64, error)
}

type ConfigRepository interface {
	IsEnabled(key string) bool
}

// ReportIngester ingests a single scan's report and returns the ids of all
// vulnerabilities ingested for it.
type ReportIngester interface {
	IngestReport(pipeline models.Pipeline, scan models.Scan) ([]int64, error)
}

type MarkAsResolvedService interface {
	Execute(scanner *models.Scanner, ingestedIDs []int64) error
}

type ScheduleMarkDroppedAsResolvedService interface {
	Schedule(ctx context.Context, projectID uuid.UUID, scanType dtos.ScanType, primaryIdentifiers []dtos.ReportIdentifier) error
}

type MarkDroppedAsResolvedService interface {
	Execute(projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64) error
}

type IngestReportsService interface {
	Execute(ctx context.Context, pipeline models.Pipeline) error
}

// JobEnqueuer dispatches fire-and-forget background jobs. Once a job is
// enqueued the core has no cancellation hook into it; the optional delay is
// the only timing control.
type JobEnqueuer interface {
	EnqueueIngestReports(ctx context.Context, pipelineID uuid.UUID) error
	EnqueueMarkDroppedAsResolved(ctx context.Context, projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64, delay time.Duration) error
	EnqueueAutoFix(ctx context.Context, projectID uuid.UUID, pipelineID uuid.UUID) error
}
