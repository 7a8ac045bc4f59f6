// Package catalog resolves skill and location identifiers to display data.
// Lookups are read-through cached: Redis first, PostgreSQL on miss.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"staffing-workers/internal/common/logger"
)

const (
	skillCacheKeyPrefix    = "catalog:skill:"
	locationCacheKeyPrefix = "catalog:location:"
)

// skillEntry is the cached catalog row for one skill.
type skillEntry struct {
	Name    string `json:"name"`
	GroupID string `json:"groupId"`
}

// Resolver provides catalog lookups for the matching pipeline. It holds no
// domain state; the cache is a transparent optimization.
type Resolver struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewResolver(db *sql.DB, redisClient *redis.Client, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		db:     db,
		redis:  redisClient,
		ttl:    ttl,
		logger: log,
	}
}

// ResolveSkillNames maps skill ids to display names. Unknown ids are omitted;
// callers decide their own fallback.
func (r *Resolver) ResolveSkillNames(ctx context.Context, ids []string) (map[string]string, error) {
	entries, err := r.resolveSkills(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(entries))
	for id, entry := range entries {
		names[id] = entry.Name
	}
	return names, nil
}

// ResolveSkillGroups maps skill ids to their skill-group ids.
func (r *Resolver) ResolveSkillGroups(ctx context.Context, ids []string) (map[string]string, error) {
	entries, err := r.resolveSkills(ctx, ids)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]string, len(entries))
	for id, entry := range entries {
		if entry.GroupID != "" {
			groups[id] = entry.GroupID
		}
	}
	return groups, nil
}

// ResolveLocationName maps a location id to its display name. Returns ""
// without error when the id is unknown.
func (r *Resolver) ResolveLocationName(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}

	cacheKey := locationCacheKeyPrefix + id
	if r.redis != nil {
		if name, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			return name, nil
		}
	}

	var name string
	err := r.db.QueryRowContext(ctx, "SELECT name FROM locations WHERE id = $1", id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("location lookup failed: %w", err)
	}

	r.cacheSet(ctx, cacheKey, name)
	return name, nil
}

// resolveSkills fetches entries for all ids, serving what it can from cache
// and loading the rest with one query.
func (r *Resolver) resolveSkills(ctx context.Context, ids []string) (map[string]skillEntry, error) {
	entries := make(map[string]skillEntry, len(ids))
	var misses []string

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, seen := entries[id]; seen {
			continue
		}

		if entry, ok := r.cacheGetSkill(ctx, id); ok {
			entries[id] = entry
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) == 0 {
		return entries, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(group_id, '') FROM skills WHERE id = ANY($1)",
		pq.Array(misses),
	)
	if err != nil {
		return nil, fmt.Errorf("skill lookup failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var entry skillEntry
		if err := rows.Scan(&id, &entry.Name, &entry.GroupID); err != nil {
			return nil, fmt.Errorf("skill row scan failed: %w", err)
		}
		entries[id] = entry
		r.cacheSetSkill(ctx, id, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("skill rows iteration failed: %w", err)
	}

	return entries, nil
}

func (r *Resolver) cacheGetSkill(ctx context.Context, id string) (skillEntry, bool) {
	if r.redis == nil {
		return skillEntry{}, false
	}

	raw, err := r.redis.Get(ctx, skillCacheKeyPrefix+id).Result()
	if err != nil {
		return skillEntry{}, false
	}

	var entry skillEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return skillEntry{}, false
	}
	return entry, true
}

func (r *Resolver) cacheSetSkill(ctx context.Context, id string, entry skillEntry) {
	if r.redis == nil {
		return
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	r.cacheSet(ctx, skillCacheKeyPrefix+id, string(raw))
}

func (r *Resolver) cacheSet(ctx context.Context, key, value string) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.logger.Warn("catalog cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
