// Copyright 2026 l3montree UG (haftungsbeschraenkt).
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ReportIngestionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "secingest_report_ingestion_duration_seconds",
	Help:    "Duration of ingesting a single scan report",
	Buckets: prometheus.DefBuckets,
})

var IngestedSlicesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "secingest_ingested_slices_total",
	Help: "Number of ingested finding map slices by result",
}, []string{"result"})

var IngestedVulnerabilitiesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "secingest_ingested_vulnerabilities_total",
	Help: "Number of vulnerability ids returned by slice ingestion",
})

var ResolvedOnDefaultBranchTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "secingest_resolved_on_default_branch_total",
	Help: "Number of vulnerabilities flagged as resolved on the default branch",
})
