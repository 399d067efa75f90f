package service

import (
	"testing"

	"meded_backend/internal/model"
	"meded_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true, // 与生产配置一致，唯一键冲突统一为 gorm.ErrDuplicatedKey
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserProgress{},
		&model.Achievement{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizResult{},
		&model.QuizAnalytics{},
		&model.Deck{},
		&model.Flashcard{},
	))
	return db
}
