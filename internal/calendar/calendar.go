// Package calendar resolves compact month identifiers to the shifts and
// availabilities of a group for that month.
//
// A calendar id is not a stored entity. It encodes a month and year as
// "<month><year>": the last four digits are the year and the leading digits
// are a zero-based month index, so "112018" is December 2018 and "122018"
// normalizes to January 2019. The zero-based contract matches the clients
// this API grew up with and is deliberately not auto-corrected. Ids are
// unique only within a group.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shiftswap/shiftswap/internal/models"
	"gorm.io/gorm"
)

var ErrBadID = errors.New("bad calendar id")

// ParseID splits a calendar id into year and zero-based month index. The
// index may exceed 11; MonthRange normalizes it into the following years.
func ParseID(id string) (year int, monthIndex int, err error) {
	if len(id) < 5 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadID, id)
	}

	year, err = strconv.Atoi(id[len(id)-4:])

	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadID, id)
	}

	monthIndex, err = strconv.Atoi(id[:len(id)-4])

	if err != nil || monthIndex < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadID, id)
	}

	return year, monthIndex, nil
}

// FormatID is the inverse of ParseID.
func FormatID(year, monthIndex int) string {
	return fmt.Sprintf("%d%04d", monthIndex, year)
}

// MonthRange returns the inclusive bounds of a month in the given location:
// the first instant of its first day and the last instant of its last day.
// All boundary arithmetic happens in loc; there is no mixing of local and
// UTC construction.
func MonthRange(year, monthIndex int, loc *time.Location) (time.Time, time.Time) {
	// time.Date normalizes out-of-range months, so index 12 of 2018 lands
	// on January 2019.
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}

// Month is the materialized view of a group's calendar for one month.
type Month struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Shifts         []uint `json:"shifts"`
	Availabilities []uint `json:"availabilities"`
}

type Index struct {
	db  *gorm.DB
	loc *time.Location
}

// NewIndex builds a read-only calendar index over the store. loc fixes the
// timezone for month boundaries; nil means UTC.
func NewIndex(db *gorm.DB, loc *time.Location) *Index {
	if loc == nil {
		loc = time.UTC
	}
	return &Index{db: db, loc: loc}
}

// Resolve decodes id and returns the ids of the group's shifts and
// availabilities whose date falls inside the month, inclusive at both ends.
func (i *Index) Resolve(ctx context.Context, groupID uint, id string) (*Month, error) {
	year, monthIndex, err := ParseID(id)

	if err != nil {
		return nil, err
	}

	first, last := MonthRange(year, monthIndex, i.loc)

	month := &Month{
		Year:           year,
		Month:          monthIndex,
		Shifts:         []uint{},
		Availabilities: []uint{},
	}

	err = i.db.WithContext(ctx).Model(&models.Shift{}).
		Where("group_id = ? AND date BETWEEN ? AND ?", groupID, first, last).
		Order("id").
		Pluck("id", &month.Shifts).Error

	if err != nil {
		return nil, err
	}

	err = i.db.WithContext(ctx).Model(&models.Availability{}).
		Where("group_id = ? AND date BETWEEN ? AND ?", groupID, first, last).
		Order("id").
		Pluck("id", &month.Availabilities).Error

	if err != nil {
		return nil, err
	}

	return month, nil
}
