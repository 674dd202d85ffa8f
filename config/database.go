package config

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studio-backend/models"
)

var DB *gorm.DB

// ConnectDB opens the configured database, sizes the pool and registers the
// appointment/service join model. The handle is also stored in DB.
func ConnectDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		dialector = postgres.Open(cfg.URL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMin) * time.Minute)
	}

	if err := models.Setup(db); err != nil {
		return nil, err
	}

	DB = db
	return db, nil
}

// slogWriter hands gorm's formatted records to the default slog logger.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn("gorm", slog.String("detail", fmt.Sprintf(format, args...)))
}

// newGormLogger routes query errors and slow queries through slog.
// Record-not-found is an expected miss and stays quiet.
func newGormLogger() gormlogger.Interface {
	return gormlogger.New(slogWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}
