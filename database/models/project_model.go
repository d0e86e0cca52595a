package models

import (
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/utils"
)

type Project struct {
	Model
	Name string `json:"name" gorm:"type:text;not null;"`
	Slug string `json:"slug" gorm:"type:text;uniqueIndex;not null;"`

	// HasVulnerabilities flips to true on the first successful ingestion and
	// never back. Idempotent single-writer update outside the slice
	// transactions.
	HasVulnerabilities bool `json:"hasVulnerabilities" gorm:"default:false;not null;"`

	AutoFixDependencyScanning bool `json:"autoFixDependencyScanning" gorm:"default:false;not null;"`
	AutoFixContainerScanning  bool `json:"autoFixContainerScanning" gorm:"default:false;not null;"`
}

func (p Project) TableName() string {
	return "projects"
}

// AutoFixEnabledFor reports whether the auto-fix bot should run for any of
// the given report types.
func (p Project) AutoFixEnabledFor(scanTypes []dtos.ScanType) bool {
	return utils.Any(scanTypes, func(scanType dtos.ScanType) bool {
		switch scanType {
		case dtos.ScanTypeDependencyScanning:
			return p.AutoFixDependencyScanning
		case dtos.ScanTypeContainerScanning:
			return p.AutoFixContainerScanning
		default:
			return false
		}
	})
}
