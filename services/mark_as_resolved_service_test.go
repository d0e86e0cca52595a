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
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/utils"
	"github.com/stretchr/testify/assert"
)

type fakeVulnerabilityReadRepository struct {
	detectedIDs []int64
	batchSize   int
	marked      [][]int64
}

func (f *fakeVulnerabilityReadRepository) StreamDetectedIDs(projectID uuid.UUID, scannerID uuid.UUID, batchSize int, fn func(vulnerabilityIDs []int64) error) error {
	size := batchSize
	if f.batchSize > 0 {
		size = f.batchSize
	}
	for _, batch := range utils.Chunk(f.detectedIDs, size) {
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeVulnerabilityReadRepository) MarkResolvedOnDefaultBranch(vulnerabilityIDs []int64) error {
	f.marked = append(f.marked, vulnerabilityIDs)
	return nil
}

func TestMarkAsResolvedService(t *testing.T) {
	scanner := &models.Scanner{ProjectID: uuid.New()}

	t.Run("should mark exactly the ids not re-detected in this run", func(t *testing.T) {
		repository := &fakeVulnerabilityReadRepository{detectedIDs: []int64{1, 2, 3, 4, 5}}
		svc := NewMarkAsResolvedService(repository)

		err := svc.Execute(scanner, []int64{1, 2, 3})

		assert.NoError(t, err)
		assert.Equal(t, [][]int64{{4, 5}}, repository.marked)
	})

	t.Run("should not mark anything when every id was re-detected", func(t *testing.T) {
		repository := &fakeVulnerabilityReadRepository{detectedIDs: []int64{1, 2, 3}}
		svc := NewMarkAsResolvedService(repository)

		err := svc.Execute(scanner, []int64{1, 2, 3})

		assert.NoError(t, err)
		assert.Empty(t, repository.marked)
	})

	t.Run("should mark everything when nothing was ingested", func(t *testing.T) {
		repository := &fakeVulnerabilityReadRepository{detectedIDs: []int64{1, 2}}
		svc := NewMarkAsResolvedService(repository)

		err := svc.Execute(scanner, nil)

		assert.NoError(t, err)
		assert.Equal(t, [][]int64{{1, 2}}, repository.marked)
	})

	t.Run("should reconcile per batch", func(t *testing.T) {
		repository := &fakeVulnerabilityReadRepository{detectedIDs: []int64{1, 2, 3, 4}, batchSize: 2}
		svc := NewMarkAsResolvedService(repository)

		err := svc.Execute(scanner, []int64{2, 3})

		assert.NoError(t, err)
		assert.Equal(t, [][]int64{{1}, {4}}, repository.marked)
	})

	t.Run("should be a no-op without a scanner", func(t *testing.T) {
		repository := &fakeVulnerabilityReadRepository{detectedIDs: []int64{1}}
		svc := NewMarkAsResolvedService(repository)

		err := svc.Execute(nil, nil)

		assert.NoError(t, err)
		assert.Empty(t, repository.marked)
	})
}
