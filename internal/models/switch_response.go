package models

// SwitchResponse is a member's reply to a switch. One response per user per
// switch, enforced by the composite unique index.
type SwitchResponse struct {
	BaseModel

	SwitchID uint `gorm:"not null;uniqueIndex:idx_switch_user"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_switch_user"`

	// Affirmative marks the response as an acceptance offer. Always stored
	// as a concrete boolean, never null.
	Affirmative bool `gorm:"not null;default:false"`

	// OfferShiftID is an optional counter-shift for swap negotiation.
	OfferShiftID *uint

	Accepted bool `gorm:"not null;default:false"`

	// Relationships
	Switch     Switch `gorm:"foreignKey:SwitchID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User       User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OfferShift *Shift `gorm:"foreignKey:OfferShiftID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
