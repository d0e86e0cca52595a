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
	"fmt"
	"testing"

	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/stretchr/testify/assert"
)

// fakeTransactioner runs the function without a real database. It records
// whether the function returned an error, mirroring a rollback.
type fakeTransactioner struct {
	rolledBack bool
}

func (f *fakeTransactioner) Transaction(fn func(tx shared.DB) error) error {
	if err := fn(nil); err != nil {
		f.rolledBack = true
		return err
	}
	return nil
}

type recordingTask struct {
	name     string
	executed *[]string
	fn       func(findingMaps []*FindingMap) error
}

func (r recordingTask) Name() string { return r.name }

func (r recordingTask) Execute(tx shared.DB, pipeline models.Pipeline, findingMaps []*FindingMap) error {
	*r.executed = append(*r.executed, r.name)
	if r.fn != nil {
		return r.fn(findingMaps)
	}
	return nil
}

func TestIngestReportSliceService(t *testing.T) {
	t.Run("should run every task in chain order", func(t *testing.T) {
		var executed []string
		chain := []Task{
			recordingTask{name: "first", executed: &executed, fn: func(findingMaps []*FindingMap) error {
				findingMaps[0].VulnerabilityID = 1
				return nil
			}},
			recordingTask{name: "second", executed: &executed},
			recordingTask{name: "third", executed: &executed},
		}

		svc := NewIngestReportSliceService(&fakeTransactioner{}, chain)
		ids, err := svc.IngestSlice(models.Pipeline{}, []*FindingMap{{}})

		assert.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, executed)
		assert.Equal(t, []int64{1}, ids)
	})

	t.Run("should roll back and stop the chain on a task error", func(t *testing.T) {
		var executed []string
		transactioner := &fakeTransactioner{}
		chain := []Task{
			recordingTask{name: "first", executed: &executed},
			recordingTask{name: "failing", executed: &executed, fn: func([]*FindingMap) error {
				return fmt.Errorf("boom")
			}},
			recordingTask{name: "never", executed: &executed},
		}

		svc := NewIngestReportSliceService(transactioner, chain)
		ids, err := svc.IngestSlice(models.Pipeline{}, []*FindingMap{{}})

		assert.Error(t, err)
		assert.ErrorContains(t, err, "task failing failed")
		assert.Nil(t, ids)
		assert.True(t, transactioner.rolledBack)
		assert.Equal(t, []string{"first", "failing"}, executed)
	})

	t.Run("should collect the vulnerability ids in finding map order", func(t *testing.T) {
		chain := []Task{
			recordingTask{name: "vulns", executed: &[]string{}, fn: func(findingMaps []*FindingMap) error {
				for i, findingMap := range findingMaps {
					findingMap.VulnerabilityID = int64(100 + i)
				}
				return nil
			}},
		}

		svc := NewIngestReportSliceService(&fakeTransactioner{}, chain)
		ids, err := svc.IngestSlice(models.Pipeline{}, []*FindingMap{{}, {}, {}})

		assert.NoError(t, err)
		assert.Equal(t, []int64{100, 101, 102}, ids)
	})

	t.Run("should skip finding maps the chain left without a vulnerability id", func(t *testing.T) {
		chain := []Task{
			recordingTask{name: "partial", executed: &[]string{}, fn: func(findingMaps []*FindingMap) error {
				findingMaps[0].VulnerabilityID = 7
				return nil
			}},
		}

		svc := NewIngestReportSliceService(&fakeTransactioner{}, chain)
		ids, err := svc.IngestSlice(models.Pipeline{}, []*FindingMap{{}, {}})

		assert.NoError(t, err)
		assert.Equal(t, []int64{7}, ids)
	})

	t.Run("should not open a transaction for an empty slice", func(t *testing.T) {
		var executed []string
		svc := NewIngestReportSliceService(&fakeTransactioner{}, []Task{
			recordingTask{name: "never", executed: &executed},
		})
		ids, err := svc.IngestSlice(models.Pipeline{}, nil)

		assert.NoError(t, err)
		assert.Empty(t, ids)
		assert.Empty(t, executed)
	})
}
