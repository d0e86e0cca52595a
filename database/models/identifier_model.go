package models

import (
	"time"

	"github.com/google/uuid"
)

// VulnerabilityIdentifier is a project-scoped identifier (cve, cwe, scanner
// rule id, ...) referenced by findings. Uniqueness is on the fingerprint, the
// remaining columns are overwritten on re-ingestion.
type VulnerabilityIdentifier struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectID   uuid.UUID `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_vuln_identifier_project_fingerprint;"`
	Fingerprint string    `json:"fingerprint" gorm:"type:text;not null;uniqueIndex:idx_vuln_identifier_project_fingerprint;"`

	ExternalType string `json:"externalType" gorm:"type:text;not null;index;"`
	ExternalID   string `json:"externalId" gorm:"type:text;not null;"`
	Name         string `json:"name" gorm:"type:text;"`
	URL          string `json:"url" gorm:"type:text;"`
}

func (v VulnerabilityIdentifier) TableName() string {
	return "vulnerability_identifiers"
}
