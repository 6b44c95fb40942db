package models

import "time"

// Run statuses persisted on GenerationRun.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// GenerationRun records one documentation generation request end to end.
// File bodies are never persisted, only counts and artifact locations.
type GenerationRun struct {
	ID            uint   `gorm:"primaryKey"`
	RunKey        string `gorm:"size:64;uniqueIndex;not null"`
	Owner         string `gorm:"size:255"`
	Name          string `gorm:"size:255"`
	Source        string `gorm:"size:1024;not null"`
	Provider      string `gorm:"size:64"`
	ModelKey      string `gorm:"size:128"`
	Status        string `gorm:"size:32;not null"`
	FileCount     int
	ChunkCount    int
	FragmentCount int
	FailedDirs    string `gorm:"type:text"`
	ArtifactPath  string `gorm:"size:1024"`
	SitePath      string `gorm:"size:1024"`
	ErrorMessage  string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
