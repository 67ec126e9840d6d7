package catchstats

import (
	"slices"
	"time"

	"fishlog/models"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	dateTimeLayout = DateLayout + " " + TimeLayout
)

type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// SeasonOf maps a month to its meteorological season.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Autumn
	default:
		return Winter
	}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	return t, err == nil
}

// LongestFishingStreak returns the longest run of consecutive calendar days with at
// least one catch. Several catches on one day count once.
func LongestFishingStreak(catches []models.Catch) int {
	seen := make(map[string]struct{})
	var days []time.Time
	for _, c := range catches {
		if _, dup := seen[c.Date]; dup {
			continue
		}
		d, ok := parseDate(c.Date)
		if !ok {
			continue
		}
		seen[c.Date] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			current++
		} else {
			current = 1
		}
		longest = max(longest, current)
	}
	return longest
}

// UniqueSeasonsCount returns how many of the four seasons have at least one catch.
func UniqueSeasonsCount(catches []models.Catch) int {
	seasons := make(map[Season]struct{})
	for _, c := range catches {
		if d, ok := parseDate(c.Date); ok {
			seasons[SeasonOf(d.Month())] = struct{}{}
		}
	}
	return len(seasons)
}

// ResolveTimeframeCatches returns the largest number of catches that fall inside any
// window of timeframeMinutes starting at a catch. With requiredCount > 0 it returns as
// soon as a window reaches requiredCount, so the result is only an existence answer.
// Catches without a parseable date and time are ignored.
func ResolveTimeframeCatches(catches []models.Catch, timeframeMinutes int, requiredCount int) int {
	var instants []time.Time
	for _, c := range catches {
		if c.Time == "" {
			continue
		}
		t, err := time.Parse(dateTimeLayout, c.Date+" "+c.Time)
		if err != nil {
			continue
		}
		instants = append(instants, t)
	}
	if len(instants) == 0 {
		return 0
	}
	slices.SortFunc(instants, func(a, b time.Time) int { return a.Compare(b) })

	window := time.Duration(timeframeMinutes) * time.Minute
	best := 0
	for i, start := range instants {
		count := 0
		for _, t := range instants[i:] {
			if t.Sub(start) > window {
				break
			}
			count++
		}
		if requiredCount > 0 && count >= requiredCount {
			return count
		}
		best = max(best, count)
	}
	return best
}
