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

package commands

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/repositories"
	"github.com/l3montree-dev/secingest/ingestion"
	"github.com/l3montree-dev/secingest/ingestion/tasks"
	"github.com/l3montree-dev/secingest/jobs"
	"github.com/l3montree-dev/secingest/services"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
	"github.com/spf13/cobra"
)

// NewIngestCommand runs a pipeline's ingestion synchronously, bypassing the
// job queue for the ingestion itself. Follow-up jobs still go to the queue.
func NewIngestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <pipeline-id>",
		Short: "Ingest the security reports of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			db, err := shared.DatabaseFactory()
			if err != nil {
				return err
			}

			pipelineRepository := repositories.NewPipelineRepository(db)
			scanRepository := repositories.NewScanRepository(db)

			sliceService := ingestion.NewIngestReportSliceService(
				repositories.NewTransactionManager(db),
				tasks.NewTaskChain(),
			)
			reportService := ingestion.NewIngestReportService(scanRepository, sliceService)

			jobClient := jobs.NewClient()
			defer jobClient.Close() // nolint: errcheck

			ingestService := services.NewIngestReportsService(
				scanRepository,
				repositories.NewProjectRepository(db),
				repositories.NewStatisticsRepository(db),
				reportService,
				services.NewMarkAsResolvedService(repositories.NewVulnerabilityReadRepository(db)),
				services.NewScheduleMarkDroppedAsResolvedService(
					repositories.NewConfigRepository(db),
					repositories.NewIdentifierRepository(db),
					jobClient,
				),
				jobClient,
				utils.NewSyncFireAndForgetSynchronizer(),
			)

			pipeline, err := pipelineRepository.Read(pipelineID)
			if err != nil {
				return err
			}
			if err := ingestService.Execute(cmd.Context(), pipeline); err != nil {
				return err
			}
			slog.Info("pipeline ingested", "pipelineId", pipelineID)
			return nil
		},
	}
}
