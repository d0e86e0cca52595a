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

package repositories

import (
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/shared"
)

type configRepository struct {
	db shared.DB
	*GormRepository[string, models.Config]
}

func NewConfigRepository(db shared.DB) *configRepository {
	return &configRepository{
		db:             db,
		GormRepository: newGormRepository[string, models.Config](db),
	}
}

// IsEnabled treats a missing key as disabled.
func (r *configRepository) IsEnabled(key string) bool {
	var config models.Config
	if err := r.db.First(&config, "key = ?", key).Error; err != nil {
		return false
	}
	return config.Val == "true" || config.Val == "enabled"
}
