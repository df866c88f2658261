package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/HSouheill/tellerdesk_backend/apperror"
)

// DateLayout is how shifts, payrolls and reports key their day.
const DateLayout = "2006-01-02"

// ParseClock parses "HH:MM".
func ParseClock(hhmm string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return 0, 0, apperror.Invalid("time must be HH:MM")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, apperror.Invalid("hour must be 00-23")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, apperror.Invalid("minute must be 00-59")
	}
	return hour, minute, nil
}

// CronSpec turns "HH:MM" in tz into a daily five-field cron expression.
func CronSpec(hhmm, tz string) (string, error) {
	hour, minute, err := ParseClock(hhmm)
	if err != nil {
		return "", err
	}
	if tz == "" {
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "", apperror.Invalid("unknown timezone " + tz)
	}
	return fmt.Sprintf("CRON_TZ=%s %d %d * * *", tz, minute, hour), nil
}

// Today formats now's calendar day in tz, falling back to UTC.
func Today(now time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// ValidDate reports whether s is a yyyy-MM-dd date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
