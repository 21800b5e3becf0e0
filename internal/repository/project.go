// internal/repository/project.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/common/logger"
	"notification-service/internal/models"

	"github.com/redis/go-redis/v9"
)

type postgresProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a Postgres-backed ProjectResolver.
func NewProjectRepository(db *sql.DB) ProjectResolver {
	return &postgresProjectRepository{db: db}
}

func (r *postgresProjectRepository) ResolveAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	query := `SELECT id, name, api_key, is_active FROM projects WHERE api_key = $1`

	var p models.Project
	err := r.db.QueryRowContext(ctx, query, apiKey).Scan(&p.ID, &p.Name, &p.APIKey, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Project")
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	return &p, nil
}

// cachedProject is the Redis cache shape. APIKey is deliberately not cached;
// the cache key already is the API key.
type cachedProject struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// CachedProjectResolver wraps a ProjectResolver with a Redis cache-aside
// lookup. Cache failures degrade to the underlying resolver; they never fail
// a request on their own.
type CachedProjectResolver struct {
	inner  ProjectResolver
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProjectResolver(inner ProjectResolver, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedProjectResolver {
	return &CachedProjectResolver{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func cacheKey(apiKey string) string {
	return "project:key:" + apiKey
}

func (r *CachedProjectResolver) ResolveAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	payload, err := r.client.Get(ctx, cacheKey(apiKey)).Result()
	if err == nil {
		var cached cachedProject
		if jsonErr := json.Unmarshal([]byte(payload), &cached); jsonErr == nil {
			return &models.Project{
				ID:       cached.ID,
				Name:     cached.Name,
				APIKey:   apiKey,
				IsActive: cached.IsActive,
			}, nil
		}
		// corrupt entry, fall through to the database
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("project cache read failed", map[string]interface{}{"error": err})
	}

	project, err := r.inner.ResolveAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	encoded, jsonErr := json.Marshal(cachedProject{
		ID:       project.ID,
		Name:     project.Name,
		IsActive: project.IsActive,
	})
	if jsonErr == nil {
		if setErr := r.client.Set(ctx, cacheKey(apiKey), encoded, r.ttl).Err(); setErr != nil {
			r.logger.Warn("project cache write failed", map[string]interface{}{"error": setErr})
		}
	}
	return project, nil
}
