package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march10 = time.Date(2025, time.March, 10, 0, 5, 9, 0, time.UTC)

func TestFormatLong(t *testing.T) {
	assert.Equal(t, "Monday, 10. March 2025", US.FormatLong(march10))
	assert.Equal(t, "Montag, 10. März 2025", German.FormatLong(march10))
}

func TestFormatShort(t *testing.T) {
	assert.Equal(t, "03/10/2025", US.FormatShort(march10))
	assert.Equal(t, "10.03.2025", German.FormatShort(march10))

	iso := &Locale{Date: YmdDash}
	assert.Equal(t, "2025-03-10", iso.FormatShort(march10))
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		hour int
		us   string
		de   string
	}{
		{0, "12:05:09 AM", "00:05:09"},
		{9, "9:05:09 AM", "09:05:09"},
		{12, "12:05:09 PM", "12:05:09"},
		{23, "11:05:09 PM", "23:05:09"},
	}
	for _, tt := range tests {
		ts := time.Date(2025, 3, 10, tt.hour, 5, 9, 0, time.UTC)
		assert.Equal(t, tt.us, US.FormatTime(ts))
		assert.Equal(t, tt.de, German.FormatTime(ts))
	}
}

func TestForTag(t *testing.T) {
	l, err := ForTag("de-AT")
	require.NoError(t, err)
	assert.Same(t, German, l)

	l, err = ForTag("en-GB")
	require.NoError(t, err)
	assert.Same(t, US, l)

	l, err = ForTag("!!")
	assert.Error(t, err)
	assert.Same(t, US, l)
}

func TestNames(t *testing.T) {
	short, long := German.WeekdayName(time.Sunday)
	assert.Equal(t, "So", short)
	assert.Equal(t, "Sonntag", long)

	short, long = US.MonthName(time.December)
	assert.Equal(t, "Dec", short)
	assert.Equal(t, "December", long)
}

func TestForTagPosix(t *testing.T) {
	l, err := ForTag("de_DE.UTF-8")
	require.NoError(t, err)
	assert.Same(t, German, l)
}
