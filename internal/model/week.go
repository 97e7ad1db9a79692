package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// WeekID identifies an ISO-8601 week, e.g. "2026-W34".
type WeekID string

var weekIDPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// ParseWeekID validates a week identifier and checks the week number is
// valid for its ISO year.
func ParseWeekID(s string) (WeekID, error) {
	m := weekIDPattern.FindStringSubmatch(s)
	if m == nil {
		return "", eris.Errorf("model: week id %q does not match YYYY-Www", s)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	if week < 1 || week > isoWeeksInYear(year) {
		return "", eris.Errorf("model: year %d has no week %d", year, week)
	}
	return WeekID(s), nil
}

// WeekOf returns the WeekID containing t.
func WeekOf(t time.Time) WeekID {
	year, week := t.ISOWeek()
	return WeekID(fmt.Sprintf("%04d-W%02d", year, week))
}

// Index returns the absolute week number (epoch days of the week's Monday
// divided by 7), so the distance between two weeks is the difference of
// their indices even across year boundaries. Invalid ids return 0.
func (w WeekID) Index() int {
	m := weekIDPattern.FindStringSubmatch(string(w))
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	monday := mondayOfISOWeek(year, week)
	return int(monday.Unix() / (7 * 24 * 60 * 60))
}

// mondayOfISOWeek finds the Monday starting the given ISO week.
// January 4 is always inside ISO week 1.
func mondayOfISOWeek(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-wd)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

func isoWeeksInYear(year int) int {
	// December 28 is always in the last ISO week of its year.
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// HistoryEntry records that a recipe was served in a given past week.
type HistoryEntry struct {
	WeekID   WeekID `json:"week_id"`
	RecipeID string `json:"recipe_id"`
}
