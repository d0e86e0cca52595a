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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/stretchr/testify/assert"
)

type fakeConfigRepository struct {
	enabled map[string]bool
}

func (f *fakeConfigRepository) IsEnabled(key string) bool {
	return f.enabled[key]
}

type fakeIdentifierRepository struct {
	candidates     []models.VulnerabilityIdentifier
	requestedTypes []string
}

func (f *fakeIdentifierRepository) ResolvedDetectedIdentifiers(projectID uuid.UUID, scanType dtos.ScanType, externalTypes []string) ([]models.VulnerabilityIdentifier, error) {
	f.requestedTypes = externalTypes
	// mimic the sql filter on external types
	res := make([]models.VulnerabilityIdentifier, 0)
	for _, candidate := range f.candidates {
		for _, externalType := range externalTypes {
			if candidate.ExternalType == externalType {
				res = append(res, candidate)
				break
			}
		}
	}
	return res, nil
}

type enqueuedBatch struct {
	identifierIDs []int64
	delay         time.Duration
}

type fakeJobEnqueuer struct {
	droppedBatches []enqueuedBatch
	autoFixCalls   int
	ingestCalls    int
}

func (f *fakeJobEnqueuer) EnqueueIngestReports(ctx context.Context, pipelineID uuid.UUID) error {
	f.ingestCalls++
	return nil
}

func (f *fakeJobEnqueuer) EnqueueMarkDroppedAsResolved(ctx context.Context, projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64, delay time.Duration) error {
	f.droppedBatches = append(f.droppedBatches, enqueuedBatch{identifierIDs: identifierIDs, delay: delay})
	return nil
}

func (f *fakeJobEnqueuer) EnqueueAutoFix(ctx context.Context, projectID uuid.UUID, pipelineID uuid.UUID) error {
	f.autoFixCalls++
	return nil
}

func TestScheduleMarkDroppedAsResolvedService(t *testing.T) {
	projectID := uuid.New()
	flagOn := &fakeConfigRepository{enabled: map[string]bool{ResolveDroppedIdentifiersFlag: true}}

	t.Run("should select same-type identifiers that no longer fire and skip foreign types", func(t *testing.T) {
		identifierRepository := &fakeIdentifierRepository{candidates: []models.VulnerabilityIdentifier{
			{ID: 1, ExternalType: "cve", ExternalID: "X"},
			{ID: 2, ExternalType: "cve", ExternalID: "Y"},
			{ID: 3, ExternalType: "rule_id", ExternalID: "Z"},
		}}
		enqueuer := &fakeJobEnqueuer{}
		svc := NewScheduleMarkDroppedAsResolvedService(flagOn, identifierRepository, enqueuer)

		err := svc.Schedule(context.Background(), projectID, dtos.ScanTypeSast, []dtos.ReportIdentifier{
			{Type: "cve", Value: "X"},
		})

		assert.NoError(t, err)
		// only the cve type is queried at all
		assert.Equal(t, []string{"cve"}, identifierRepository.requestedTypes)
		// cve-X still fires, cve-Y is dropped, rule_id-Z is type-gated away
		assert.Len(t, enqueuer.droppedBatches, 1)
		assert.Equal(t, []int64{2}, enqueuer.droppedBatches[0].identifierIDs)
	})

	t.Run("should stagger the batches by one minute per index", func(t *testing.T) {
		candidates := make([]models.VulnerabilityIdentifier, 0, 2500)
		for i := 0; i < 2500; i++ {
			candidates = append(candidates, models.VulnerabilityIdentifier{
				ID:           int64(i + 1),
				ExternalType: "cve",
				ExternalID:   uuid.NewString(),
			})
		}
		identifierRepository := &fakeIdentifierRepository{candidates: candidates}
		enqueuer := &fakeJobEnqueuer{}
		svc := NewScheduleMarkDroppedAsResolvedService(flagOn, identifierRepository, enqueuer)

		err := svc.Schedule(context.Background(), projectID, dtos.ScanTypeSast, []dtos.ReportIdentifier{
			{Type: "cve", Value: "still-firing"},
		})

		assert.NoError(t, err)
		assert.Len(t, enqueuer.droppedBatches, 3)
		assert.Len(t, enqueuer.droppedBatches[0].identifierIDs, 1000)
		assert.Len(t, enqueuer.droppedBatches[1].identifierIDs, 1000)
		assert.Len(t, enqueuer.droppedBatches[2].identifierIDs, 500)
		assert.Equal(t, time.Duration(0), enqueuer.droppedBatches[0].delay)
		assert.Equal(t, time.Minute, enqueuer.droppedBatches[1].delay)
		assert.Equal(t, 2*time.Minute, enqueuer.droppedBatches[2].delay)
		// sorted ascending
		assert.Equal(t, int64(1), enqueuer.droppedBatches[0].identifierIDs[0])
		assert.Equal(t, int64(2500), enqueuer.droppedBatches[2].identifierIDs[499])
	})

	t.Run("should be a no-op without primary identifiers", func(t *testing.T) {
		identifierRepository := &fakeIdentifierRepository{}
		enqueuer := &fakeJobEnqueuer{}
		svc := NewScheduleMarkDroppedAsResolvedService(flagOn, identifierRepository, enqueuer)

		err := svc.Schedule(context.Background(), projectID, dtos.ScanTypeSast, nil)

		assert.NoError(t, err)
		assert.Empty(t, enqueuer.droppedBatches)
		assert.Nil(t, identifierRepository.requestedTypes)
	})

	t.Run("should be a no-op with the feature disabled", func(t *testing.T) {
		identifierRepository := &fakeIdentifierRepository{candidates: []models.VulnerabilityIdentifier{
			{ID: 1, ExternalType: "cve", ExternalID: "Y"},
		}}
		enqueuer := &fakeJobEnqueuer{}
		svc := NewScheduleMarkDroppedAsResolvedService(&fakeConfigRepository{}, identifierRepository, enqueuer)

		err := svc.Schedule(context.Background(), projectID, dtos.ScanTypeSast, []dtos.ReportIdentifier{
			{Type: "cve", Value: "X"},
		})

		assert.NoError(t, err)
		assert.Empty(t, enqueuer.droppedBatches)
	})
}
