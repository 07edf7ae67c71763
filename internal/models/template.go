package models

import (
	"gorm.io/datatypes"
)

// Template is a reusable shift definition. Shifts inherit its start and end
// times unless they override them.
type Template struct {
	BaseModel

	Name      string         `gorm:"not null"`
	GroupID   uint           `gorm:"not null;index"`
	CreatorID uint           `gorm:"not null"`
	Autofill  datatypes.JSON `gorm:"type:jsonb"` // structured autofill policy
	Colour    string         `gorm:"not null"`
	StartTime string         `gorm:"not null"`
	EndTime   string         `gorm:"not null"`
	Stipend   int            `gorm:"not null"`

	// Relationships
	Group   Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator User  `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
