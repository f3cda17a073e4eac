package repository

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"shortlink-accounts/internal/model"
	"shortlink-accounts/pkg/logging"
)

// InitDB 连接 MySQL 并执行迁移。返回连接句柄，由调用方注入各 Store，
// 不再保留包级单例。
func InitDB(logger *zap.Logger, atomicLogLevel zap.AtomicLevel) *gorm.DB {
	dsn := viper.GetString("db.dsn")
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logging.NewGormLogger(logger, logging.ToGormLogLevel(atomicLogLevel.Level())), // 注入 logger 并转换级别
		TranslateError: true,                                                                          // 唯一约束冲突翻译为 gorm.ErrDuplicatedKey
	})
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}

	err = db.AutoMigrate(&model.User{}, &model.Link{}, &model.DailyStat{})
	if err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	return db
}
