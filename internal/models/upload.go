package models

import "time"

// Upload is a file uploaded to a web log, stored as a blob row. Data is
// written in chunks after the row exists; list reads omit it.
type Upload struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	WebLogID  string    `json:"webLogId"  gorm:"type:char(36);index;not null"`
	Path      string    `json:"path"      gorm:"size:191;index"`
	UpdatedOn time.Time `json:"updatedOn"`
	Data      []byte    `json:"-"         gorm:"type:longblob"`
}

func (Upload) TableName() string { return "uploads" }
