package models

// Switch is a proposal to give away a shift or swap it for another. The
// partial unique index on ShiftID is the authoritative guard for the "at
// most one unresolved switch per shift" invariant: a switch leaves the index
// the moment it is cancelled or gains an acceptor.
type Switch struct {
	BaseModel

	ShiftID uint `gorm:"not null;index;uniqueIndex:idx_live_switch_shift,where:cancelled = false AND acceptor_id IS NULL"`

	// ShiftRequestedID is set only for SWAP switches: the shift the
	// proposer wants in return.
	ShiftRequestedID *uint

	Type       string `gorm:"not null"` // GIVEAWAY or SWAP
	ProposerID uint   `gorm:"not null;index"`
	AcceptorID *uint  `gorm:"index"`
	Message    string `gorm:"not null"`
	Cancelled  bool   `gorm:"not null;default:false"`

	// Relationships
	Shift          Shift            `gorm:"foreignKey:ShiftID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ShiftRequested *Shift           `gorm:"foreignKey:ShiftRequestedID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Proposer       User             `gorm:"foreignKey:ProposerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Acceptor       *User            `gorm:"foreignKey:AcceptorID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Responses      []SwitchResponse `gorm:"foreignKey:SwitchID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
