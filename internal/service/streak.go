package service

import "time"

// StreakUpdate 连续学习天数的更新结果
type StreakUpdate struct {
	CurrentStreak int
	LongestStreak int
	Changed       bool
}

// UpdateStreak 按自然日计算连续学习天数。纯函数。
// 比较前先把两个时间都归一到当天零点：
//   - 无最近活跃日或间隔超过一天：连击重置为 1
//   - 恰好隔一天：连击 +1
//   - 同一天重复活动：连击不变
//
// LongestStreak 每次都取 max，重置分支下 1 不可能超过历史最长，结果等价。
// 最近活跃日本身由调用方在每次活动后统一推进到当天。
func UpdateStreak(lastActive *time.Time, today time.Time, currentStreak, longestStreak int) StreakUpdate {
	day := truncateToDay(today)

	update := StreakUpdate{
		CurrentStreak: currentStreak,
		LongestStreak: longestStreak,
	}

	if lastActive == nil {
		update.CurrentStreak = 1
		update.Changed = true
	} else {
		last := truncateToDay(*lastActive)
		switch {
		case !day.After(last):
			// 同一天（或时钟回拨）：不变
		case day.Equal(last.AddDate(0, 0, 1)):
			update.CurrentStreak = currentStreak + 1
			update.Changed = true
		default:
			update.CurrentStreak = 1
			update.Changed = true
		}
	}

	if update.CurrentStreak > update.LongestStreak {
		update.LongestStreak = update.CurrentStreak
	}

	return update
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
