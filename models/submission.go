package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ImageRef points at one stored image: the public URL handed to clients and
// the filesystem path the file was written to.
type ImageRef struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// ImageList is an ordered list of image references persisted as a JSON text
// column. Order is append order across all submissions for a handle.
type ImageList []ImageRef

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(src interface{}) error {
	if src == nil {
		*l = ImageList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported image list column type %T", src)
	}
	if len(b) == 0 {
		*l = ImageList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Submission accumulates one social handle's display name and images.
// The handle is the dedup key: repeat submissions append to Images and leave
// CreatedAt untouched, so the listing order reflects first appearance.
type Submission struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	SocialHandle string    `gorm:"size:255;not null;uniqueIndex" json:"socialHandle"`
	Images       ImageList `gorm:"type:text" json:"images"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}
