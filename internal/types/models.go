package types

import "time"

// PipelineRun is the persisted record of one pipeline run.
type PipelineRun struct {
	Id             int64     `gorm:"primaryKey;autoIncrement"`
	RunId          string    `gorm:"uniqueIndex;size:64"`
	Url            string    `gorm:"size:2048"`
	Status         string    `gorm:"size:16;index"`
	FailReason     string    `gorm:"type:text"`
	RequestedClips int
	CreatedClips   int
	TargetDuration int
	Platform       string    `gorm:"size:32"`
	Demo           bool
	CreateTime     time.Time `gorm:"autoCreateTime"`
	UpdateTime     time.Time `gorm:"autoUpdateTime"`

	Clips []ClipRecord `gorm:"foreignKey:RunId;references:RunId"`
}

// ClipRecord is the persisted record of one materialized clip.
type ClipRecord struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	RunId       string `gorm:"index;size:64"`
	Filename    string `gorm:"uniqueIndex;size:255"`
	Title       string `gorm:"size:512"`
	Description string `gorm:"type:text"`
	StartTime   string `gorm:"size:16"`
	EndTime     string `gorm:"size:16"`
	Duration    int
	Score       float64
	Profile     string    `gorm:"size:16"`
	PublishUrl  string    `gorm:"size:2048"`
	Size        int64
	CreateTime  time.Time `gorm:"autoCreateTime"`
}
