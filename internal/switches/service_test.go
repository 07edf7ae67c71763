package switches_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shiftswap/shiftswap/db"
	"github.com/shiftswap/shiftswap/internal/models"
	"github.com/shiftswap/shiftswap/internal/switches"
	"github.com/shiftswap/shiftswap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(db.AllModels...))

	return gdb
}

type fixture struct {
	db       *gorm.DB
	svc      *switches.Service
	group    models.Group
	alice    models.User
	bob      models.User
	template models.Template
	shift    models.Shift
	other    models.Shift
}

// newFixture seeds a group with two members, a template and two shifts, the
// first assigned to alice.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := openTestDB(t)

	f := &fixture{db: gdb, svc: switches.NewService(gdb)}

	f.alice = models.User{FirstName: "Alice", LastName: "Ash", Cell: "0400000001", Email: "alice@example.com", PasswordHash: "x"}
	f.bob = models.User{FirstName: "Bob", LastName: "Birch", Cell: "0400000002", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&f.alice).Error)
	require.NoError(t, gdb.Create(&f.bob).Error)

	f.group = models.Group{Name: "Night Cafe", Tier: "basic"}
	require.NoError(t, gdb.Create(&f.group).Error)

	for _, userID := range []uint{f.alice.ID, f.bob.ID} {
		require.NoError(t, gdb.Create(&models.Membership{
			UserID:  userID,
			GroupID: f.group.ID,
			Status:  types.StatusStaff,
		}).Error)
	}

	f.template = models.Template{
		Name:      "Evening",
		GroupID:   f.group.ID,
		CreatorID: f.alice.ID,
		Autofill:  []byte(`{}`),
		Colour:    "#336699",
		StartTime: "17:00",
		EndTime:   "23:00",
		Stipend:   40,
	}
	require.NoError(t, gdb.Create(&f.template).Error)

	f.shift = models.Shift{
		TemplateID: f.template.ID,
		GroupID:    f.group.ID,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CreatorID:  f.alice.ID,
		UserID:     &f.alice.ID,
	}
	require.NoError(t, gdb.Create(&f.shift).Error)

	f.other = models.Shift{
		TemplateID: f.template.ID,
		GroupID:    f.group.ID,
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		CreatorID:  f.alice.ID,
		UserID:     &f.bob.ID,
	}
	require.NoError(t, gdb.Create(&f.other).Error)

	return f
}

func (f *fixture) propose(t *testing.T) *models.Switch {
	t.Helper()

	sw, err := f.svc.Propose(context.Background(), switches.ProposeInput{
		GroupID:    f.group.ID,
		ShiftID:    f.shift.ID,
		Type:       types.SwitchGiveaway,
		ProposerID: f.alice.ID,
		Message:    "can't make it, anyone want this?",
	})
	require.NoError(t, err)

	return sw
}

func TestProposeGiveaway(t *testing.T) {
	f := newFixture(t)

	sw := f.propose(t)

	assert.NotZero(t, sw.ID)
	assert.Equal(t, types.SwitchGiveaway, sw.Type)
	assert.False(t, sw.Cancelled)
	assert.Nil(t, sw.AcceptorID)
}

func TestProposeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Propose(ctx, switches.ProposeInput{
		GroupID: f.group.ID, ShiftID: f.shift.ID, Type: "TRADE",
		ProposerID: f.alice.ID, Message: "hi",
	})
	assert.ErrorIs(t, err, switches.ErrInvalidArgument)

	_, err = f.svc.Propose(ctx, switches.ProposeInput{
		GroupID: f.group.ID, ShiftID: f.shift.ID, Type: types.SwitchSwap,
		ProposerID: f.alice.ID, Message: "hi",
	})
	assert.ErrorIs(t, err, switches.ErrInvalidArgument, "swap without a requested shift")

	_, err = f.svc.Propose(ctx, switches.ProposeInput{
		GroupID: f.group.ID, ShiftID: f.shift.ID, Type: types.SwitchGiveaway,
		ShiftRequestedID: &f.other.ID, ProposerID: f.alice.ID, Message: "hi",
	})
	assert.ErrorIs(t, err, switches.ErrInvalidArgument, "giveaway with a requested shift")

	_, err = f.svc.Propose(ctx, switches.ProposeInput{
		GroupID: f.group.ID, ShiftID: f.shift.ID, Type: types.SwitchGiveaway,
		ProposerID: f.alice.ID,
	})
	assert.ErrorIs(t, err, switches.ErrInvalidArgument, "missing message")

	_, err = f.svc.Propose(ctx, switches.ProposeInput{
		GroupID: f.group.ID, ShiftID: 9999, Type: types.SwitchGiveaway,
		ProposerID: f.alice.ID, Message: "hi",
	})
	assert.ErrorIs(t, err, switches.ErrNotFound)
}

func TestProposeConflictWhileOpen(t *testing.T) {
	f := newFixture(t)

	f.propose(t)

	_, err := f.svc.Propose(context.Background(), switches.ProposeInput{
		GroupID:    f.group.ID,
		ShiftID:    f.shift.ID,
		Type:       types.SwitchGiveaway,
		ProposerID: f.bob.ID,
		Message:    "me too",
	})
	assert.ErrorIs(t, err, switches.ErrConflict)
}

func TestProposeAllowedAfterCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)
	require.NoError(t, f.svc.Cancel(ctx, f.group.ID, sw.ID, f.alice.ID, false))

	_, err := f.svc.Propose(ctx, switches.ProposeInput{
		GroupID:    f.group.ID,
		ShiftID:    f.shift.ID,
		Type:       types.SwitchGiveaway,
		ProposerID: f.alice.ID,
		Message:    "second try",
	})
	assert.NoError(t, err, "a cancelled switch is terminal and frees the shift")
}

func TestRespondAndDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	response, err := f.svc.Respond(ctx, switches.RespondInput{
		GroupID:     f.group.ID,
		SwitchID:    sw.ID,
		UserID:      f.bob.ID,
		Affirmative: true,
	})
	require.NoError(t, err)
	assert.True(t, response.Affirmative)
	assert.False(t, response.Accepted)

	_, err = f.svc.Respond(ctx, switches.RespondInput{
		GroupID:  f.group.ID,
		SwitchID: sw.ID,
		UserID:   f.bob.ID,
	})
	assert.ErrorIs(t, err, switches.ErrConflict, "one response per user per switch")
}

func TestRespondToResolvedSwitch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)
	require.NoError(t, f.svc.Cancel(ctx, f.group.ID, sw.ID, f.alice.ID, false))

	_, err := f.svc.Respond(ctx, switches.RespondInput{
		GroupID:  f.group.ID,
		SwitchID: sw.ID,
		UserID:   f.bob.ID,
	})
	assert.ErrorIs(t, err, switches.ErrConflict)
}

func TestAcceptReassignsShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	response, err := f.svc.Respond(ctx, switches.RespondInput{
		GroupID:     f.group.ID,
		SwitchID:    sw.ID,
		UserID:      f.bob.ID,
		Affirmative: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Accept(ctx, f.group.ID, sw.ID, response.ID, f.alice.ID, false))

	var updatedSwitch models.Switch
	require.NoError(t, f.db.First(&updatedSwitch, sw.ID).Error)
	require.NotNil(t, updatedSwitch.AcceptorID)
	assert.Equal(t, f.bob.ID, *updatedSwitch.AcceptorID)
	assert.Equal(t, sw.Version+1, updatedSwitch.Version)

	var updatedResponse models.SwitchResponse
	require.NoError(t, f.db.First(&updatedResponse, response.ID).Error)
	assert.True(t, updatedResponse.Accepted)

	var updatedShift models.Shift
	require.NoError(t, f.db.First(&updatedShift, f.shift.ID).Error)
	require.NotNil(t, updatedShift.UserID)
	assert.Equal(t, f.bob.ID, *updatedShift.UserID, "shift hands over to the acceptor")
}

func TestAcceptRequiresProposerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	response, err := f.svc.Respond(ctx, switches.RespondInput{
		GroupID:  f.group.ID,
		SwitchID: sw.ID,
		UserID:   f.bob.ID,
	})
	require.NoError(t, err)

	err = f.svc.Accept(ctx, f.group.ID, sw.ID, response.ID, f.bob.ID, false)
	assert.ErrorIs(t, err, switches.ErrForbidden)

	err = f.svc.Accept(ctx, f.group.ID, sw.ID, response.ID, f.bob.ID, true)
	assert.NoError(t, err, "admins may accept on the proposer's behalf")
}

func TestAcceptTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	response, err := f.svc.Respond(ctx, switches.RespondInput{
		GroupID:  f.group.ID,
		SwitchID: sw.ID,
		UserID:   f.bob.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Accept(ctx, f.group.ID, sw.ID, response.ID, f.alice.ID, false))

	err = f.svc.Accept(ctx, f.group.ID, sw.ID, response.ID, f.alice.ID, false)
	assert.ErrorIs(t, err, switches.ErrConflict, "an accepted switch is resolved")
}

func TestAcceptUnknownResponse(t *testing.T) {
	f := newFixture(t)

	sw := f.propose(t)

	err := f.svc.Accept(context.Background(), f.group.ID, sw.ID, 9999, f.alice.ID, false)
	assert.ErrorIs(t, err, switches.ErrNotFound)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	require.NoError(t, f.svc.Cancel(ctx, f.group.ID, sw.ID, f.alice.ID, false))
	require.NoError(t, f.svc.Cancel(ctx, f.group.ID, sw.ID, f.alice.ID, false))

	var updated models.Switch
	require.NoError(t, f.db.First(&updated, sw.ID).Error)
	assert.True(t, updated.Cancelled)
	assert.Equal(t, sw.Version+1, updated.Version, "the repeat cancel writes nothing")
}

func TestCancelRequiresProposerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	err := f.svc.Cancel(ctx, f.group.ID, sw.ID, f.bob.ID, false)
	assert.ErrorIs(t, err, switches.ErrForbidden)

	assert.NoError(t, f.svc.Cancel(ctx, f.group.ID, sw.ID, f.bob.ID, true))
}

func TestCancelAcceptedSwitchRevertsShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	response, err := f.svc.Respond(ctx, switches.RespondInput{
		GroupID:  f.group.ID,
		SwitchID: sw.ID,
		UserID:   f.bob.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Accept(ctx, f.group.ID, sw.ID, response.ID, f.alice.ID, false))
	require.NoError(t, f.svc.Cancel(ctx, f.group.ID, sw.ID, f.alice.ID, false))

	var updatedShift models.Shift
	require.NoError(t, f.db.First(&updatedShift, f.shift.ID).Error)
	require.NotNil(t, updatedShift.UserID)
	assert.Equal(t, f.alice.ID, *updatedShift.UserID, "reversing an accepted swap returns the shift")

	var updatedSwitch models.Switch
	require.NoError(t, f.db.First(&updatedSwitch, sw.ID).Error)
	assert.True(t, updatedSwitch.Cancelled)
}

func TestVersionConflictOnStaleCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	// Another writer bumps the switch version behind the service's back.
	require.NoError(t, f.db.Model(&models.Switch{}).
		Where("id = ?", sw.ID).
		Updates(map[string]interface{}{
			"message": "edited",
			"version": sw.Version + 1,
		}).Error)

	// Cancel re-reads inside its transaction, so it still succeeds against
	// the new version.
	assert.NoError(t, f.svc.Cancel(ctx, f.group.ID, sw.ID, f.alice.ID, false))
}

func TestProjections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sw := f.propose(t)

	response, err := f.svc.Respond(ctx, switches.RespondInput{
		GroupID:     f.group.ID,
		SwitchID:    sw.ID,
		UserID:      f.bob.ID,
		Affirmative: true,
	})
	require.NoError(t, err)

	ids, err := f.svc.ListForGroup(ctx, f.group.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{sw.ID}, ids)

	got, responseIDs, err := f.svc.Get(ctx, f.group.ID, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, sw.ID, got.ID)
	assert.Equal(t, []uint{response.ID}, responseIDs)

	gotResponse, err := f.svc.GetResponse(ctx, f.group.ID, sw.ID, response.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, gotResponse.UserID)

	_, _, err = f.svc.Get(ctx, f.group.ID+1, sw.ID)
	assert.ErrorIs(t, err, switches.ErrNotFound, "switches are scoped to their group")
}

func TestLiveSwitchInvariantUnderConstraint(t *testing.T) {
	f := newFixture(t)

	f.propose(t)

	// Bypass the service and insert directly: the partial unique index must
	// still reject a second unresolved switch on the shift.
	err := f.db.Create(&models.Switch{
		ShiftID:    f.shift.ID,
		Type:       types.SwitchGiveaway,
		ProposerID: f.bob.ID,
		Message:    "raced in",
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
