package notifications

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// supportedLocales are the UI languages delivery templates exist for.
var supportedLocales = []language.Tag{
	language.English, // en, the fallback
	language.Arabic,  // ar
}

var localeMatcher = language.NewMatcher(supportedLocales)

// DefaultLocale is applied when a preference carries no usable locale.
const DefaultLocale = "en"

// NormalizeLocale resolves an arbitrary BCP 47 string to a supported
// locale, falling back to English for anything unparseable or unsupported.
func NormalizeLocale(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	_, index, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	base, _ := supportedLocales[index].Base()
	return base.String()
}

// Preference holds a user's delivery settings. Quiet hours are local
// wall-clock "HH:MM" strings; an empty pair disables quiet hours.
type Preference struct {
	UserID       int64  `json:"userId"`
	EmailEnabled bool   `json:"emailEnabled"`
	PushEnabled  bool   `json:"pushEnabled"`
	Locale       string `json:"locale"`
	QuietStart   string `json:"quietStart,omitempty"`
	QuietEnd     string `json:"quietEnd,omitempty"`
}

// DefaultPreference is what a user gets before saving any settings.
func DefaultPreference(userID int64) Preference {
	return Preference{
		UserID:       userID,
		EmailEnabled: true,
		PushEnabled:  true,
		Locale:       DefaultLocale,
	}
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("clock value %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// InQuietHours reports whether now falls inside the preference's quiet
// window. A window whose end precedes its start wraps past midnight
// (22:00-06:00 silences evenings and early mornings).
func (p Preference) InQuietHours(now time.Time) bool {
	if p.QuietStart == "" || p.QuietEnd == "" {
		return false
	}
	start, err := parseClock(p.QuietStart)
	if err != nil {
		return false
	}
	end, err := parseClock(p.QuietEnd)
	if err != nil {
		return false
	}
	minute := now.Hour()*60 + now.Minute()
	if start == end {
		return false
	}
	if start < end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

// ShouldDeliver reports whether any channel may fire right now.
func (p Preference) ShouldDeliver(now time.Time) bool {
	if !p.EmailEnabled && !p.PushEnabled {
		return false
	}
	return !p.InQuietHours(now)
}
