package service

import (
	"context"
	"strconv"
	"time"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"
	"meded_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AchievementService 成就查询与经验值排行榜。
// 排行榜优先读 Redis 有序集合，Redis 不可用时回退数据库
type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	ProgressRepo    *repository.ProgressRepository
	UserRepo        *repository.UserRepository
	Redis           *redis.Client
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		ProgressRepo:    progressRepo,
		UserRepo:        userRepo,
		Redis:           rdb,
	}
}

func (s *AchievementService) GetUserAchievements(userID uint) ([]model.Achievement, error) {
	return s.AchievementRepo.FindByUserID(userID)
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	XP     int    `json:"xp"`
}

// GetLeaderboard 前 limit 名的经验值排行
func (s *AchievementService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if s.Redis != nil {
		entries, err := s.leaderboardFromRedis(ctx, limit)
		if err == nil {
			return entries, nil
		}
		logger.Log.Warn("leaderboard redis read failed, falling back to database", zap.Error(err))
	}
	return s.leaderboardFromDB(limit)
}

func (s *AchievementService) leaderboardFromRedis(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	members, err := s.Redis.ZRevRangeWithScores(ctx, LeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return s.leaderboardFromDB(limit)
	}

	ids := make([]uint, 0, len(members))
	xpByID := make(map[uint]int, len(members))
	for _, m := range members {
		raw, ok := m.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
		xpByID[uint(id)] = int(m.Score)
	}

	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	userByID := make(map[uint]*model.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		entry := LeaderboardEntry{Rank: i + 1, UserID: id, XP: xpByID[id]}
		if u, ok := userByID[id]; ok {
			entry.Name = u.Name
			entry.Avatar = u.Avatar
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *AchievementService) leaderboardFromDB(limit int) ([]LeaderboardEntry, error) {
	rows, err := s.ProgressRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	userByID := make(map[uint]*model.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entry := LeaderboardEntry{Rank: i + 1, UserID: row.UserID, XP: row.XP}
		if u, ok := userByID[row.UserID]; ok {
			entry.Name = u.Name
			entry.Avatar = u.Avatar
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
