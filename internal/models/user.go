package models

type User struct {
	BaseModel

	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Cell         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Relationships
	Memberships    []Membership   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Availabilities []Availability `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
