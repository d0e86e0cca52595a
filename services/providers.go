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
	"github.com/l3montree-dev/secingest/ingestion"
	"github.com/l3montree-dev/secingest/ingestion/tasks"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
	"go.uber.org/fx"
)

// Module provides the ingestion pipeline and the resolution services as
// their interfaces
var Module = fx.Options(
	fx.Provide(tasks.NewTaskChain),
	fx.Provide(fx.Annotate(ingestion.NewIngestReportSliceService, fx.As(new(ingestion.SliceIngester)))),
	fx.Provide(fx.Annotate(ingestion.NewIngestReportService, fx.As(new(shared.ReportIngester)))),
	fx.Provide(fx.Annotate(NewMarkAsResolvedService, fx.As(new(shared.MarkAsResolvedService)))),
	fx.Provide(fx.Annotate(NewScheduleMarkDroppedAsResolvedService, fx.As(new(shared.ScheduleMarkDroppedAsResolvedService)))),
	fx.Provide(fx.Annotate(NewMarkDroppedAsResolvedService, fx.As(new(shared.MarkDroppedAsResolvedService)))),
	fx.Provide(fx.Annotate(NewIngestReportsService, fx.As(new(shared.IngestReportsService)))),
	fx.Provide(utils.NewFireAndForgetSynchronizer),
)
