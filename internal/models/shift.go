package models

import (
	"time"
)

type Shift struct {
	BaseModel

	TemplateID uint      `gorm:"not null;index"`
	GroupID    uint      `gorm:"not null;index"`
	Date       time.Time `gorm:"not null;index"`
	CreatorID  uint      `gorm:"not null"`

	// OverridesTime marks a shift whose start and end differ from its
	// template's defaults. When false the times are resolved from the
	// template at read time and the columns stay empty.
	OverridesTime bool    `gorm:"not null;default:false"`
	StartTime     *string
	EndTime       *string

	// UserID is the assignee. Unassigned shifts have none.
	UserID *uint `gorm:"index"`

	// Relationships
	Template Template `gorm:"foreignKey:TemplateID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Group    Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator  User     `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User     *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
