package calendar_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shiftswap/shiftswap/db"
	"github.com/shiftswap/shiftswap/internal/calendar"
	"github.com/shiftswap/shiftswap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		id    string
		year  int
		month int
	}{
		{"122018", 2018, 12},
		{"112018", 2018, 11},
		{"02019", 2019, 0},
		{"92020", 2020, 9},
	}

	for _, tt := range tests {
		year, month, err := calendar.ParseID(tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.year, year, tt.id)
		assert.Equal(t, tt.month, month, tt.id)
	}
}

func TestParseIDRejectsGarbage(t *testing.T) {
	for _, id := range []string{"", "2018", "abcdef", "1x2018", "-12018"} {
		_, _, err := calendar.ParseID(id)
		assert.ErrorIs(t, err, calendar.ErrBadID, id)
	}
}

func TestFormatIDRoundTrip(t *testing.T) {
	id := calendar.FormatID(2018, 11)
	assert.Equal(t, "112018", id)

	year, month, err := calendar.ParseID(id)
	require.NoError(t, err)
	assert.Equal(t, 2018, year)
	assert.Equal(t, 11, month)
}

func TestMonthRange(t *testing.T) {
	// Month index 11 is December under the zero-based contract.
	first, last := calendar.MonthRange(2018, 11, time.UTC)

	assert.Equal(t, time.Date(2018, 12, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2018, 12, 31, 23, 59, 59, 999999999, time.UTC), last)
}

func TestMonthRangeNormalizesOverflow(t *testing.T) {
	// Index 12 of 2018 spills into January 2019, matching the id "122018".
	first, last := calendar.MonthRange(2018, 12, time.UTC)

	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2019, 1, 31, 23, 59, 59, 999999999, time.UTC), last)
}

func TestMonthRangeHonoursLocation(t *testing.T) {
	loc := time.FixedZone("AEST", 10*60*60)

	first, _ := calendar.MonthRange(2018, 11, loc)

	assert.Equal(t, loc, first.Location())
	assert.Equal(t, time.Date(2018, 12, 1, 0, 0, 0, 0, loc), first)
}

func TestResolve(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(db.AllModels...))

	user := models.User{FirstName: "A", LastName: "B", Cell: "0", Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&user).Error)

	group := models.Group{Name: "G", Tier: "basic"}
	require.NoError(t, gdb.Create(&group).Error)

	otherGroup := models.Group{Name: "H", Tier: "basic"}
	require.NoError(t, gdb.Create(&otherGroup).Error)

	template := models.Template{
		Name: "T", GroupID: group.ID, CreatorID: user.ID,
		Autofill: []byte(`{}`), Colour: "#fff", StartTime: "09:00", EndTime: "17:00", Stipend: 1,
	}
	require.NoError(t, gdb.Create(&template).Error)

	first, last := calendar.MonthRange(2018, 11, time.UTC)

	mkShift := func(groupID uint, date time.Time) models.Shift {
		s := models.Shift{TemplateID: template.ID, GroupID: groupID, Date: date, CreatorID: user.ID}
		require.NoError(t, gdb.Create(&s).Error)
		return s
	}

	atFirst := mkShift(group.ID, first)
	atLast := mkShift(group.ID, last)
	mid := mkShift(group.ID, time.Date(2018, 12, 15, 12, 0, 0, 0, time.UTC))
	mkShift(group.ID, first.Add(-time.Second))        // November
	mkShift(group.ID, last.Add(time.Second))          // January
	mkShift(otherGroup.ID, mid.Date)                  // right month, wrong group

	avail := models.Availability{
		GroupID: group.ID, UserID: user.ID,
		Date: time.Date(2018, 12, 2, 0, 0, 0, 0, time.UTC), Day: true,
	}
	require.NoError(t, gdb.Create(&avail).Error)

	outside := models.Availability{
		GroupID: group.ID, UserID: user.ID,
		Date: time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), Night: true,
	}
	require.NoError(t, gdb.Create(&outside).Error)

	index := calendar.NewIndex(gdb, time.UTC)

	month, err := index.Resolve(context.Background(), group.ID, "112018")
	require.NoError(t, err)

	assert.Equal(t, 2018, month.Year)
	assert.Equal(t, 11, month.Month)
	assert.Equal(t, []uint{atFirst.ID, atLast.ID, mid.ID}, month.Shifts)
	assert.Equal(t, []uint{avail.ID}, month.Availabilities)
}

func TestResolveBadID(t *testing.T) {
	index := calendar.NewIndex(nil, nil)

	_, err := index.Resolve(context.Background(), 1, "nope")
	assert.ErrorIs(t, err, calendar.ErrBadID)
}
