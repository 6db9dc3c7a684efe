package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

func validShift() *Shift {
	return &Shift{
		TenantID:   1,
		ServiceID:  10,
		DaysOfWeek: []int{1, 3, 5},
		StartTime:  types.TimeString("09:00"),
		EndTime:    types.TimeString("17:00"),
		IsActive:   true,
	}
}

func TestShift_Validate_Success(t *testing.T) {
	assert.NoError(t, validShift().Validate())
}

func TestShift_Validate_EndBeforeStart(t *testing.T) {
	shift := validShift()
	shift.StartTime = types.TimeString("17:00")
	shift.EndTime = types.TimeString("09:00")

	assert.ErrorIs(t, shift.Validate(), ErrInvalidShiftTime)
}

func TestShift_Validate_EqualTimes(t *testing.T) {
	shift := validShift()
	shift.EndTime = shift.StartTime

	assert.ErrorIs(t, shift.Validate(), ErrInvalidShiftTime)
}

func TestShift_Validate_BadTimeFormat(t *testing.T) {
	shift := validShift()
	shift.StartTime = types.TimeString("9am")

	assert.ErrorIs(t, shift.Validate(), ErrInvalidShiftTime)
}

func TestShift_Validate_EmptyDaysForActive(t *testing.T) {
	shift := validShift()
	shift.DaysOfWeek = nil

	assert.ErrorIs(t, shift.Validate(), ErrEmptyShiftDays)
}

func TestShift_Validate_EmptyDaysAllowedForInactive(t *testing.T) {
	shift := validShift()
	shift.DaysOfWeek = nil
	shift.IsActive = false

	assert.NoError(t, shift.Validate())
}

func TestShift_Validate_DayOutOfRange(t *testing.T) {
	shift := validShift()
	shift.DaysOfWeek = []int{1, 7}

	assert.ErrorIs(t, shift.Validate(), ErrInvalidShiftDay)
}

func TestShift_HasDay(t *testing.T) {
	shift := validShift() // понедельник, среда, пятница

	assert.True(t, shift.HasDay(time.Monday))
	assert.True(t, shift.HasDay(time.Friday))
	assert.False(t, shift.HasDay(time.Sunday))
	assert.False(t, shift.HasDay(time.Saturday))
}
