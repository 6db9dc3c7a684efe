package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	_, err = NewTimeStringFromString("25:00")
	assert.Error(t, err)

	_, err = NewTimeStringFromString("9:30am")
	assert.Error(t, err)
}

func TestTimeString_Comparison(t *testing.T) {
	a := TimeString("09:00")
	b := TimeString("17:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:45")

	shifted, err := ts.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), shifted)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres отдает time как HH:MM:SS
	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:15:00")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 11, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
