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
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
)

// FindingMap is the working unit threaded through the task chain. It pairs a
// pre-ingestion security finding with its parsed report finding and collects
// the ids the chain generates along the way.
//
// Field ownership: each writable field has exactly one writing task.
// IdentifierIDs is written by the identifier task, FindingID and NewRecord by
// the finding task, VulnerabilityID by the vulnerability task. Every other
// task only reads.
type FindingMap struct {
	Scan            models.Scan
	SecurityFinding models.SecurityFinding
	ReportFinding   dtos.ReportFinding

	// IdentifierIDs is ordered like ReportFinding.Identifiers.
	IdentifierIDs []int64

	FindingID int64
	// NewRecord is true when the finding row was created in this run rather
	// than matched to an existing one.
	NewRecord bool

	VulnerabilityID int64
}

func NewFindingMap(scan models.Scan, securityFinding models.SecurityFinding, reportFinding dtos.ReportFinding) *FindingMap {
	return &FindingMap{
		Scan:            scan,
		SecurityFinding: securityFinding,
		ReportFinding:   reportFinding,
	}
}

func (f *FindingMap) UUID() string {
	return f.SecurityFinding.FindingUUID
}

// ResolvedUUID is the uuid the finding is tracked under: the overridden uuid
// when present, the finding's own uuid otherwise.
func (f *FindingMap) ResolvedUUID() string {
	if f.SecurityFinding.OverriddenUUID != nil {
		return *f.SecurityFinding.OverriddenUUID
	}
	return f.SecurityFinding.FindingUUID
}
