package models

type Membership struct {
	BaseModel

	UserID  uint   `gorm:"not null;uniqueIndex:idx_user_group"`
	GroupID uint   `gorm:"not null;uniqueIndex:idx_user_group"`
	Status  string `gorm:"not null"` // OWNER, ADMIN or STAFF

	// Relationships
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Group Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
