package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	u := UpdateStreak(nil, day(2026, 3, 10, 9), 0, 0)
	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, 1, u.LongestStreak)
	assert.True(t, u.Changed)
}

func TestUpdateStreakSameDay(t *testing.T) {
	last := day(2026, 3, 10, 8)
	u := UpdateStreak(&last, day(2026, 3, 10, 22), 5, 7)
	assert.Equal(t, 5, u.CurrentStreak)
	assert.Equal(t, 7, u.LongestStreak)
	assert.False(t, u.Changed)
}

func TestUpdateStreakConsecutiveDay(t *testing.T) {
	// 3月10日 23:59 → 3月11日 00:01，隔一个自然日即算连续
	last := day(2026, 3, 10, 23)
	u := UpdateStreak(&last, time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC), 5, 7)
	assert.Equal(t, 6, u.CurrentStreak)
	assert.Equal(t, 7, u.LongestStreak)
	assert.True(t, u.Changed)
}

func TestUpdateStreakGapResets(t *testing.T) {
	last := day(2026, 3, 10, 9)
	u := UpdateStreak(&last, day(2026, 3, 12, 9), 5, 7)
	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, 7, u.LongestStreak) // 历史峰值保留
	assert.True(t, u.Changed)
}

func TestUpdateStreakExtendsLongest(t *testing.T) {
	last := day(2026, 3, 10, 9)
	u := UpdateStreak(&last, day(2026, 3, 11, 9), 7, 7)
	assert.Equal(t, 8, u.CurrentStreak)
	assert.Equal(t, 8, u.LongestStreak)
}

func TestUpdateStreakMonthBoundary(t *testing.T) {
	last := day(2026, 1, 31, 9)
	u := UpdateStreak(&last, day(2026, 2, 1, 9), 3, 3)
	assert.Equal(t, 4, u.CurrentStreak)
}

func TestUpdateStreakClockRewind(t *testing.T) {
	// 时钟回拨到前一天：不变
	last := day(2026, 3, 10, 9)
	u := UpdateStreak(&last, day(2026, 3, 9, 9), 5, 7)
	assert.Equal(t, 5, u.CurrentStreak)
	assert.False(t, u.Changed)
}
