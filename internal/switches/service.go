// Package switches implements the shift-switch lifecycle: a member proposes
// to give away or swap a shift, other members respond, and the proposer (or
// an admin) accepts one response or cancels the whole thing.
//
// A switch is OPEN until it gains an acceptor (ACCEPTED) or is cancelled
// (CANCELLED). While a shift has an OPEN switch no further switch may be
// proposed on it; the partial unique index on switches.shift_id enforces
// this even under concurrent proposals, so the in-transaction check here is
// advisory and the constraint is authoritative.
package switches

import (
	"context"
	"errors"
	"fmt"

	"github.com/shiftswap/shiftswap/internal/models"
	"github.com/shiftswap/shiftswap/internal/types"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ProposeInput struct {
	GroupID          uint
	ShiftID          uint
	ShiftRequestedID *uint
	Type             string
	ProposerID       uint
	Message          string
}

// Propose creates an OPEN switch on a shift. Fails with ErrConflict when the
// shift already has an unresolved switch.
func (s *Service) Propose(ctx context.Context, in ProposeInput) (*models.Switch, error) {
	if !types.ValidSwitchType(in.Type) {
		return nil, fmt.Errorf("%w: unknown switch type %q", ErrInvalidArgument, in.Type)
	}

	if in.Type == types.SwitchSwap && in.ShiftRequestedID == nil {
		return nil, fmt.Errorf("%w: swap switches require a requested shift", ErrInvalidArgument)
	}

	if in.Type == types.SwitchGiveaway && in.ShiftRequestedID != nil {
		return nil, fmt.Errorf("%w: giveaway switches cannot request a shift", ErrInvalidArgument)
	}

	if in.Message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidArgument)
	}

	created := models.Switch{
		ShiftID:          in.ShiftID,
		ShiftRequestedID: in.ShiftRequestedID,
		Type:             in.Type,
		ProposerID:       in.ProposerID,
		Message:          in.Message,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shift models.Shift

		if err := tx.Where("id = ? AND group_id = ?", in.ShiftID, in.GroupID).First(&shift).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: shift %d", ErrNotFound, in.ShiftID)
			}
			return err
		}

		if in.ShiftRequestedID != nil {
			var requested models.Shift
			if err := tx.Where("id = ? AND group_id = ?", *in.ShiftRequestedID, in.GroupID).First(&requested).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: requested shift %d", ErrNotFound, *in.ShiftRequestedID)
				}
				return err
			}
		}

		var live int64

		err := tx.Model(&models.Switch{}).
			Where("shift_id = ? AND cancelled = ? AND acceptor_id IS NULL", in.ShiftID, false).
			Count(&live).Error

		if err != nil {
			return err
		}

		if live > 0 {
			return fmt.Errorf("%w: shift %d already has an unresolved switch", ErrConflict, in.ShiftID)
		}

		if err := tx.Create(&created).Error; err != nil {
			// A concurrent proposal can slip past the count; the partial
			// unique index catches it here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: shift %d already has an unresolved switch", ErrConflict, in.ShiftID)
			}
			return err
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &created, nil
}

type RespondInput struct {
	GroupID      uint
	SwitchID     uint
	UserID       uint
	Affirmative  bool
	OfferShiftID *uint
}

// Respond records a member's reply to an open switch. One response per
// (switch, user), enforced by the composite unique index. Responding never
// changes the switch itself.
func (s *Service) Respond(ctx context.Context, in RespondInput) (*models.SwitchResponse, error) {
	created := models.SwitchResponse{
		SwitchID:     in.SwitchID,
		UserID:       in.UserID,
		Affirmative:  in.Affirmative,
		OfferShiftID: in.OfferShiftID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sw, err := s.switchInGroup(tx, in.GroupID, in.SwitchID)

		if err != nil {
			return err
		}

		if sw.Cancelled || sw.AcceptorID != nil {
			return fmt.Errorf("%w: switch %d is already resolved", ErrConflict, in.SwitchID)
		}

		if in.OfferShiftID != nil {
			var offer models.Shift
			if err := tx.Where("id = ? AND group_id = ?", *in.OfferShiftID, in.GroupID).First(&offer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: offered shift %d", ErrNotFound, *in.OfferShiftID)
				}
				return err
			}
		}

		var existing int64

		err = tx.Model(&models.SwitchResponse{}).
			Where("switch_id = ? AND user_id = ?", in.SwitchID, in.UserID).
			Count(&existing).Error

		if err != nil {
			return err
		}

		if existing > 0 {
			return fmt.Errorf("%w: user %d already responded to switch %d", ErrConflict, in.UserID, in.SwitchID)
		}

		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user %d already responded to switch %d", ErrConflict, in.UserID, in.SwitchID)
			}
			return err
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Accept resolves an open switch with the chosen response: the response is
// marked accepted, the switch gains its acceptor, and the underlying shift
// is reassigned to the respondent. The three writes share one transaction.
// Only the proposer or a group admin may accept.
func (s *Service) Accept(ctx context.Context, groupID, switchID, responseID, actorID uint, actorIsAdmin bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sw, err := s.switchInGroup(tx, groupID, switchID)

		if err != nil {
			return err
		}

		if sw.ProposerID != actorID && !actorIsAdmin {
			return fmt.Errorf("%w: only the proposer or an admin may accept a response", ErrForbidden)
		}

		if sw.Cancelled || sw.AcceptorID != nil {
			return fmt.Errorf("%w: switch %d is already resolved", ErrConflict, switchID)
		}

		var response models.SwitchResponse

		if err := tx.Where("id = ? AND switch_id = ?", responseID, switchID).First(&response).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: response %d", ErrNotFound, responseID)
			}
			return err
		}

		res := tx.Model(&models.Switch{}).
			Where("id = ? AND version = ?", sw.ID, sw.Version).
			Updates(map[string]interface{}{
				"acceptor_id": response.UserID,
				"version":     sw.Version + 1,
			})

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: switch %d was modified concurrently", ErrVersionConflict, switchID)
		}

		res = tx.Model(&models.SwitchResponse{}).
			Where("id = ? AND version = ?", response.ID, response.Version).
			Updates(map[string]interface{}{
				"accepted": true,
				"version":  response.Version + 1,
			})

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: response %d was modified concurrently", ErrVersionConflict, responseID)
		}

		res = tx.Model(&models.Shift{}).
			Where("id = ?", sw.ShiftID).
			Updates(map[string]interface{}{
				"user_id": response.UserID,
				"version": gorm.Expr("version + 1"),
			})

		if res.Error != nil {
			return res.Error
		}

		return nil
	})
}

// Cancel marks a switch cancelled. Repeat cancels are a no-op. Cancelling an
// accepted switch reverses it: the shift returns to the proposer in the same
// transaction. Only the proposer or a group admin may cancel.
func (s *Service) Cancel(ctx context.Context, groupID, switchID, actorID uint, actorIsAdmin bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sw, err := s.switchInGroup(tx, groupID, switchID)

		if err != nil {
			return err
		}

		if sw.Cancelled {
			return nil
		}

		if sw.ProposerID != actorID && !actorIsAdmin {
			return fmt.Errorf("%w: only the proposer or an admin may cancel a switch", ErrForbidden)
		}

		if sw.AcceptorID != nil {
			res := tx.Model(&models.Shift{}).
				Where("id = ?", sw.ShiftID).
				Updates(map[string]interface{}{
					"user_id": sw.ProposerID,
					"version": gorm.Expr("version + 1"),
				})

			if res.Error != nil {
				return res.Error
			}
		}

		res := tx.Model(&models.Switch{}).
			Where("id = ? AND version = ?", sw.ID, sw.Version).
			Updates(map[string]interface{}{
				"cancelled": true,
				"version":   sw.Version + 1,
			})

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: switch %d was modified concurrently", ErrVersionConflict, switchID)
		}

		return nil
	})
}

// Get returns a switch in the group together with the ids of its responses.
func (s *Service) Get(ctx context.Context, groupID, switchID uint) (*models.Switch, []uint, error) {
	tx := s.db.WithContext(ctx)

	sw, err := s.switchInGroup(tx, groupID, switchID)

	if err != nil {
		return nil, nil, err
	}

	responseIDs, err := s.ListResponses(ctx, groupID, switchID)

	if err != nil {
		return nil, nil, err
	}

	return sw, responseIDs, nil
}

// ListForGroup returns the ids of every switch whose shift belongs to the
// group.
func (s *Service) ListForGroup(ctx context.Context, groupID uint) ([]uint, error) {
	ids := []uint{}

	err := s.db.WithContext(ctx).Model(&models.Switch{}).
		Joins("JOIN shifts ON shifts.id = switches.shift_id").
		Where("shifts.group_id = ?", groupID).
		Order("switches.id").
		Pluck("switches.id", &ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (s *Service) ListResponses(ctx context.Context, groupID, switchID uint) ([]uint, error) {
	tx := s.db.WithContext(ctx)

	if _, err := s.switchInGroup(tx, groupID, switchID); err != nil {
		return nil, err
	}

	ids := []uint{}

	err := tx.Model(&models.SwitchResponse{}).
		Where("switch_id = ?", switchID).
		Order("id").
		Pluck("id", &ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (s *Service) GetResponse(ctx context.Context, groupID, switchID, responseID uint) (*models.SwitchResponse, error) {
	tx := s.db.WithContext(ctx)

	if _, err := s.switchInGroup(tx, groupID, switchID); err != nil {
		return nil, err
	}

	var response models.SwitchResponse

	err := tx.Where("id = ? AND switch_id = ?", responseID, switchID).First(&response).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: response %d", ErrNotFound, responseID)
		}
		return nil, err
	}

	return &response, nil
}

// switchInGroup loads a switch and verifies its shift belongs to the group.
// Switches have no group column of their own; the scope comes through the
// shift, as in the group switch listing.
func (s *Service) switchInGroup(tx *gorm.DB, groupID, switchID uint) (*models.Switch, error) {
	var sw models.Switch

	err := tx.Model(&models.Switch{}).
		Joins("JOIN shifts ON shifts.id = switches.shift_id").
		Where("switches.id = ? AND shifts.group_id = ?", switchID, groupID).
		First(&sw).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: switch %d", ErrNotFound, switchID)
		}
		return nil, err
	}

	return &sw, nil
}
