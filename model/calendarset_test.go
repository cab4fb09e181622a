package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarSetCRUD(t *testing.T) {
	set := NewCalendarSet()
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "")

	assert.False(t, set.Has(cal.URL))

	set.Put(cal)
	assert.True(t, set.Has(cal.URL))

	got, ok := set.Get(cal.URL)
	assert.True(t, ok)
	assert.Same(t, cal, got)

	assert.Len(t, set.All(), 1)

	set.Delete(cal.URL)
	assert.False(t, set.Has(cal.URL))
}

func TestCalendarSetCreateCalendarRejectsDuplicate(t *testing.T) {
	set := NewCalendarSet()
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "")

	assert.NoError(t, set.CreateCalendar(cal))
	assert.True(t, set.Has(cal.URL))

	err := set.CreateCalendar(NewCalendar(cal.URL, "Duplicate", SupportedComponents{Todo: true}, ""))
	assert.True(t, IsKind(err, KindAlreadyExists))
}

func TestCalendarSetDeleteCalendarRequiresExistence(t *testing.T) {
	set := NewCalendarSet()
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "")

	err := set.DeleteCalendar(cal.URL)
	assert.True(t, IsKind(err, KindNotFound))

	require.NoError(t, set.CreateCalendar(cal))
	require.NoError(t, set.DeleteCalendar(cal.URL))
	assert.False(t, set.Has(cal.URL))
}
