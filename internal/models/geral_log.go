package models

import (
	"time"
)

type LogType string

const (
	LogTrace LogType = "TRACE"
	LogDebug LogType = "DEBUG"
	LogInfo  LogType = "INFO"
	LogWarn  LogType = "WARN"
	LogError LogType = "ERROR"
	LogFatal LogType = "FATAL"
)

// Reports whether t is one of the known levels
func (t LogType) Valid() bool {
	switch t {
	case LogTrace, LogDebug, LogInfo, LogWarn, LogError, LogFatal:
		return true
	default:
		return false
	}
}

// Represents an operator-facing platform log line
type GeralLog struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Type     LogType   `gorm:"size:8;index;not null" json:"type"`
	Hash     string    `gorm:"size:36;uniqueIndex;not null" json:"hash"`
	Entity   string    `gorm:"size:64;index" json:"entity"`
	Value    string    `gorm:"type:text" json:"value"`
	CreateAt time.Time `gorm:"index" json:"createAt"`
}

func (GeralLog) TableName() string {
	return "geral_logs"
}
