package models

import "time"

// StagedUpload records every file written to the upload directory before the
// owning submission is persisted. Rows are finalized once the database write
// succeeds; rows still pending after the staging TTL are orphans (the request
// failed between file write and submission write) and get reaped together
// with their files.
type StagedUpload struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FilePath  string    `gorm:"size:1024;not null" json:"file_path"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	Finalized bool      `gorm:"index;not null;default:false" json:"finalized"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
