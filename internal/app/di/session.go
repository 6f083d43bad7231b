package di

import (
	authadapters "auratrack_backend/internal/feature/auth/adapters"
	"auratrack_backend/internal/feature/auth/usecase"
	"auratrack_backend/internal/platform/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewSessionRepository returns a Redis-backed repository when Redis is available
// and falls back to the relational store otherwise.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, session.DefaultPrefix)
	}
	return authadapters.NewSessionGorm(db)
}
