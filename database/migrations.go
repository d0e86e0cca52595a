// Copyright (C) 2024 Tim Bastin, l3montree GmbH
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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package database

import (
	"github.com/l3montree-dev/secingest/database/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.Pipeline{},
		&models.Scanner{},
		&models.Scan{},
		&models.SecurityFinding{},
		&models.VulnerabilityIdentifier{},
		&models.VulnerabilityFinding{},
		&models.Vulnerability{},
		&models.VulnerabilityRead{},
		&models.FindingPipeline{},
		&models.FindingIdentifier{},
		&models.FindingLink{},
		&models.FindingSignature{},
		&models.VulnerabilityFlag{},
		&models.IssueLink{},
		&models.VulnerabilityRemediation{},
		&models.FindingRemediation{},
		&models.VulnerabilityStatistic{},
		&models.IssueFeedback{},
		&models.Config{},
	)
}
