package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/auth"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/service"
)

var testConfig = &config.Config{
	AccessTokenSecret:  "access-secret",
	RefreshTokenSecret: "refresh-secret",
	AccessTokenTTL:     10 * time.Minute,
	RefreshTokenTTL:    7 * 24 * time.Hour,
	Argon2MemoryKiB:    1024,
	Argon2Iterations:   1,
	Argon2Parallelism:  1,
}

func newTestStore(t *testing.T) *db.Store {
	t.Helper()

	gdb, err := db.Open(sqlite.Open(filepath.Join(t.TempDir(), "bookmarker.db")), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db.NewStore(gdb)
}

func newAuth(store service.Store) (*service.Auth, *auth.TokenIssuer) {
	tokens := auth.NewTokenIssuer(testConfig)
	return service.NewAuth(store, auth.NewPasswordHasher(testConfig), tokens, zap.NewNop().Sugar()), tokens
}

func strPtr(s string) *string {
	return &s
}
