package models

import "time"

// Config is a simple key value store for runtime toggles.
type Config struct {
	Key       string    `json:"key" gorm:"primarykey;type:text;"`
	Val       string    `json:"val" gorm:"type:text;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Config) TableName() string {
	return "configs"
}
