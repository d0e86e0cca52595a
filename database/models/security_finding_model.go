package models

import "github.com/google/uuid"

// SecurityFinding is the pre-ingestion finding row written while a pipeline
// is still running. It carries the deduplication verdict the ingestion
// pipeline acts on.
type SecurityFinding struct {
	Model
	ScanID uuid.UUID `json:"scanId" gorm:"type:uuid;not null;uniqueIndex:idx_security_finding_scan_uuid;"`
	Scan   Scan      `json:"scan" gorm:"foreignKey:ScanID;references:ID;constraint:OnDelete:CASCADE;"`

	ScannerID uuid.UUID `json:"scannerId" gorm:"type:uuid;not null;"`
	Scanner   Scanner   `json:"scanner" gorm:"foreignKey:ScannerID;references:ID;"`

	// FindingUUID is the report-level finding uuid, stable across pipelines.
	FindingUUID string `json:"findingUuid" gorm:"type:uuid;not null;uniqueIndex:idx_security_finding_scan_uuid;"`
	// OverriddenUUID points at the finding this one shadows after
	// deduplication, if any.
	OverriddenUUID *string `json:"overriddenUuid" gorm:"type:uuid;"`

	Deduplicated bool   `json:"deduplicated" gorm:"default:false;not null;"`
	Severity     string `json:"severity" gorm:"type:text;"`
}

func (s SecurityFinding) TableName() string {
	return "security_findings"
}
