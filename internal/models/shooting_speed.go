package models

import (
	"time"

	"github.com/aman-churiwal/root-panel/internal/shooting"
)

// Represents a named dispatch-rate profile
type ShootingSpeed struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"size:120;not null" json:"name"`
	Sequence         int       `gorm:"index;not null;default:0" json:"sequence"`
	NumberShots      int       `gorm:"not null;default:0" json:"numberShots"`
	TimeBetweenShots float64   `gorm:"not null;default:0" json:"timeBetweenShots"` // seconds
	TimeRest         float64   `gorm:"not null;default:0" json:"timeRest"`         // seconds
	Status           bool      `gorm:"not null" json:"status"`
	ShootingPerDay   int       `gorm:"not null;default:0" json:"shootingPerDay"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (ShootingSpeed) TableName() string {
	return "shooting_speeds"
}

// Returns the calculator parameters of the profile
func (s *ShootingSpeed) Params() shooting.Params {
	return shooting.Params{
		NumberShots:      s.NumberShots,
		TimeBetweenShots: s.TimeBetweenShots,
		TimeRest:         s.TimeRest,
	}
}

// Recomputes the derived daily throughput from the timing fields
func (s *ShootingSpeed) Recalculate() {
	s.ShootingPerDay = shooting.DailyShots(s.Params())
}
