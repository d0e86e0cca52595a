package models

import (
	"github.com/google/uuid"
)

// Pipeline is the CI pipeline context threaded read-only through the whole
// ingestion task chain.
type Pipeline struct {
	Model
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index;"`
	Project   Project   `json:"project" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE;"`
	Ref       string    `json:"ref" gorm:"type:text;"`
}

func (p Pipeline) TableName() string {
	return "pipelines"
}
