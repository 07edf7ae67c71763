package models

import (
	"time"
)

// Availability records whether a user can work the day or night of a date.
// One row per (group, user, date).
type Availability struct {
	BaseModel

	GroupID uint      `gorm:"not null;uniqueIndex:idx_group_user_date"`
	UserID  uint      `gorm:"not null;uniqueIndex:idx_group_user_date"`
	Date    time.Time `gorm:"not null;uniqueIndex:idx_group_user_date;index"`
	Day     bool      `gorm:"not null;default:false"`
	Night   bool      `gorm:"not null;default:false"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
