package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	today := StartOfDay(now, time.UTC)
	future := today.AddDate(0, 0, 5)

	tests := []struct {
		name       string
		candidate  time.Time
		searchDate time.Time
		windowDays int
		want       bool
	}{
		{
			name:       "future date early morning",
			candidate:  future.Add(30 * time.Minute),
			searchDate: future,
			want:       true,
		},
		{
			name:       "future date late evening",
			candidate:  future.Add(23*time.Hour + 59*time.Minute),
			searchDate: future,
			want:       true,
		},
		{
			name:       "today already departed",
			candidate:  today.Add(9 * time.Hour),
			searchDate: today,
			want:       false,
		},
		{
			name:       "today departing later",
			candidate:  today.Add(15 * time.Hour),
			searchDate: today,
			want:       true,
		},
		{
			name:       "today departing exactly now",
			candidate:  now,
			searchDate: today,
			want:       true,
		},
		{
			name:       "day before window",
			candidate:  future.AddDate(0, 0, -1).Add(20 * time.Hour),
			searchDate: future,
			windowDays: 9,
			want:       false,
		},
		{
			name:       "last day of window",
			candidate:  future.AddDate(0, 0, 9).Add(22 * time.Hour),
			searchDate: future,
			windowDays: 9,
			want:       true,
		},
		{
			name:       "one day past window",
			candidate:  future.AddDate(0, 0, 10).Add(time.Hour),
			searchDate: future,
			windowDays: 9,
			want:       false,
		},
		{
			name:       "exact day window rejects next day",
			candidate:  future.AddDate(0, 0, 1),
			searchDate: future,
			windowDays: 0,
			want:       false,
		},
		{
			name:       "negative window treated as exact day",
			candidate:  future.Add(time.Hour),
			searchDate: future,
			windowDays: -3,
			want:       true,
		},
		{
			name:       "today window spills into tomorrow without cutoff",
			candidate:  today.AddDate(0, 0, 1).Add(time.Hour),
			searchDate: today,
			windowDays: 2,
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InWindow(tt.candidate, tt.searchDate, tt.windowDays, now))
		})
	}
}

func TestInWindow_ConvertsCandidateZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	search := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)

	// 2026-10-25 05:00 WIB is 2026-10-24 22:00 UTC
	candidate := time.Date(2026, 10, 25, 5, 0, 0, 0, jakarta)

	assert.True(t, InWindow(candidate, search, 0, now))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 10, 24, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b, time.UTC))
	assert.False(t, SameDay(b, c, time.UTC))
}
