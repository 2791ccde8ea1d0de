package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2025-03-15")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-15", d.String())

	_, err = Parse("15/03/2025")
	assert.Error(t, err)
}

func TestFromTimeDropsTimeOfDay(t *testing.T) {
	late := time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)
	early := time.Date(2025, 3, 15, 0, 0, 1, 0, time.UTC)
	assert.True(t, FromTime(late).Equal(FromTime(early)))
}

func TestAddDaysAndDaysUntil(t *testing.T) {
	d := New(2025, time.January, 1)

	assert.Equal(t, "2025-01-31", d.AddDays(30).String())
	assert.Equal(t, "2024-12-31", d.AddDays(-1).String())
	assert.Equal(t, 30, d.DaysUntil(d.AddDays(30)))
	assert.Equal(t, -5, d.DaysUntil(d.AddDays(-5)))
	assert.Equal(t, 0, d.DaysUntil(d))

	// Crosses a leap day.
	feb := New(2024, time.February, 28)
	assert.Equal(t, "2024-02-29", feb.AddDays(1).String())
	assert.Equal(t, 2, feb.DaysUntil(New(2024, time.March, 1)))
}

func TestOrdering(t *testing.T) {
	a := New(2025, time.June, 1)
	b := New(2025, time.June, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, Date{}.IsZero())
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2025, time.August, 9)

	raw, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.Equal(t, `"2025-08-09"`, string(raw))

	var back Date
	assert.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &back))
}
