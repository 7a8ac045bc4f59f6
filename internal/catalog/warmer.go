// internal/catalog/warmer.go
package catalog

import (
	"context"
	"fmt"
)

// WarmSkills loads the full skill catalog into the cache. Returns the number
// of entries written.
func (r *Resolver) WarmSkills(ctx context.Context) (int, error) {
	if r.redis == nil {
		return 0, fmt.Errorf("no cache configured")
	}

	rows, err := r.db.QueryContext(ctx, "SELECT id, name, COALESCE(group_id, '') FROM skills")
	if err != nil {
		return 0, fmt.Errorf("skill catalog load failed: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id string
		var entry skillEntry
		if err := rows.Scan(&id, &entry.Name, &entry.GroupID); err != nil {
			return count, fmt.Errorf("skill row scan failed: %w", err)
		}
		r.cacheSetSkill(ctx, id, entry)
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("skill rows iteration failed: %w", err)
	}

	return count, nil
}

// WarmLocations loads all location names into the cache.
func (r *Resolver) WarmLocations(ctx context.Context) (int, error) {
	if r.redis == nil {
		return 0, fmt.Errorf("no cache configured")
	}

	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM locations")
	if err != nil {
		return 0, fmt.Errorf("location catalog load failed: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return count, fmt.Errorf("location row scan failed: %w", err)
		}
		r.cacheSet(ctx, locationCacheKeyPrefix+id, name)
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("location rows iteration failed: %w", err)
	}

	return count, nil
}
