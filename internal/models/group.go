package models

type Group struct {
	BaseModel

	Name string `gorm:"not null"`
	Tier string `gorm:"not null"`

	// Relationships
	Memberships    []Membership   `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Templates      []Template     `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Shifts         []Shift        `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Availabilities []Availability `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
