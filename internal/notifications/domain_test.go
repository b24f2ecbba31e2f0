package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"en":          "en",
		"en-US":       "en",
		"ar":          "ar",
		"ar-SA":       "ar",
		"fr":          "en",
		"":            "en",
		"not a tag!!": "en",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeLocale(input), "input %q", input)
	}
}

func TestInQuietHoursSameDayWindow(t *testing.T) {
	p := Preference{QuietStart: "12:00", QuietEnd: "14:00"}

	assert.False(t, p.InQuietHours(clock(11, 59)))
	assert.True(t, p.InQuietHours(clock(12, 0)))
	assert.True(t, p.InQuietHours(clock(13, 30)))
	assert.False(t, p.InQuietHours(clock(14, 0)))
}

func TestInQuietHoursWrapsMidnight(t *testing.T) {
	p := Preference{QuietStart: "22:00", QuietEnd: "06:00"}

	assert.True(t, p.InQuietHours(clock(23, 15)))
	assert.True(t, p.InQuietHours(clock(2, 0)))
	assert.True(t, p.InQuietHours(clock(5, 59)))
	assert.False(t, p.InQuietHours(clock(6, 0)))
	assert.False(t, p.InQuietHours(clock(12, 0)))
	assert.False(t, p.InQuietHours(clock(21, 59)))
}

func TestInQuietHoursDisabled(t *testing.T) {
	assert.False(t, Preference{}.InQuietHours(clock(3, 0)))
	assert.False(t, Preference{QuietStart: "08:00"}.InQuietHours(clock(9, 0)))
	// Equal start and end would silence nothing rather than everything.
	assert.False(t, Preference{QuietStart: "08:00", QuietEnd: "08:00"}.InQuietHours(clock(8, 0)))
	// Garbage values disable the window instead of blocking delivery.
	assert.False(t, Preference{QuietStart: "25:99", QuietEnd: "06:00"}.InQuietHours(clock(3, 0)))
}

func TestShouldDeliver(t *testing.T) {
	base := DefaultPreference(1)
	assert.True(t, base.ShouldDeliver(clock(10, 0)))

	muted := base
	muted.EmailEnabled = false
	muted.PushEnabled = false
	assert.False(t, muted.ShouldDeliver(clock(10, 0)))

	quiet := base
	quiet.QuietStart = "09:00"
	quiet.QuietEnd = "11:00"
	assert.False(t, quiet.ShouldDeliver(clock(10, 0)))
	assert.True(t, quiet.ShouldDeliver(clock(11, 0)))
}
