package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/config"
)

type (
	GormForkedModel struct {
		ID        uint64 `gorm:"primarykey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		GormForkedModel
		Email        string `gorm:"unique;not null"`
		PasswordHash string `gorm:"not null"`
		FirstName    *string
		LastName     *string
		Bookmarks    []Bookmark `gorm:"constraint:OnDelete:CASCADE"`
	}

	Bookmark struct {
		GormForkedModel
		Title       string `gorm:"not null"`
		URL         string `gorm:"not null"`
		Description *string
		UserID      uint64 `gorm:"not null;index"`
	}

	gormWriter struct {
		l *zap.SugaredLogger
	}
)

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.l.Debugf(format, args...)
}

func NewGormClient(lc fx.Lifecycle, cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.DSN()), l)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Info("Closing database connection.")
			sqlDB, err := db.DB()
			if err != nil {
				return errors.Wrap(err, "get sql db")
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

// Open connects through the given dialector and migrates the schema.
func Open(dialector gorm.Dialector, l *zap.SugaredLogger) (*gorm.DB, error) {
	newLogger := logger.New(gormWriter{l: l.Named("gorm")}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err := db.AutoMigrate(&User{}, &Bookmark{}); err != nil {
		return nil, errors.Wrap(err, "migrate schema")
	}

	return db, nil
}
