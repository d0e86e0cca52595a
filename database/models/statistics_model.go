package models

import (
	"time"

	"github.com/google/uuid"
)

// VulnerabilityStatistic is the per-project severity rollup. One row per
// project, incremented inside the ingestion transactions and stamped with the
// latest ingested pipeline afterwards.
type VulnerabilityStatistic struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;uniqueIndex;"`

	Total    int64 `json:"total" gorm:"not null;default:0;"`
	Critical int64 `json:"critical" gorm:"not null;default:0;"`
	High     int64 `json:"high" gorm:"not null;default:0;"`
	Medium   int64 `json:"medium" gorm:"not null;default:0;"`
	Low      int64 `json:"low" gorm:"not null;default:0;"`
	Unknown  int64 `json:"unknown" gorm:"not null;default:0;"`
	Info     int64 `json:"info" gorm:"not null;default:0;"`

	LatestPipelineID *uuid.UUID `json:"latestPipelineId" gorm:"type:uuid;"`
}

func (v VulnerabilityStatistic) TableName() string {
	return "vulnerability_statistics"
}
