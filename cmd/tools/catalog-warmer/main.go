// cmd/tools/catalog-warmer/main.go
//
// Preloads the skill and location catalogs from PostgreSQL into Redis so the
// first matching runs after a deploy do not pay the cache-miss penalty.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"staffing-workers/internal/catalog"
	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/database"
	"staffing-workers/internal/common/logger"
)

func main() {
	skillsOnly := flag.Bool("skills-only", false, "Warm only the skill catalog")
	locationsOnly := flag.Bool("locations-only", false, "Warm only the location catalog")
	ttl := flag.Duration("ttl", 0, "Cache TTL override (default: matching.cache_ttl_seconds from config)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall time limit for the warm run")
	flag.Parse()

	if *skillsOnly && *locationsOnly {
		fmt.Println("Error: -skills-only and -locations-only are mutually exclusive.")
		flag.Usage()
		os.Exit(1)
	}

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cacheTTL := time.Duration(cfg.Matching.CacheTTLSeconds) * time.Second
	if *ttl > 0 {
		cacheTTL = *ttl
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error connecting to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	rd, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		fmt.Printf("Error connecting to Redis: %v\n", err)
		os.Exit(1)
	}
	defer rd.Close()

	resolver := catalog.NewResolver(pg.DB, rd.Client, cacheTTL, log)

	if !*locationsOnly {
		count, err := resolver.WarmSkills(ctx)
		if err != nil {
			fmt.Printf("Error warming skill catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Warmed %d skill entries (ttl %s)\n", count, cacheTTL)
	}

	if !*skillsOnly {
		count, err := resolver.WarmLocations(ctx)
		if err != nil {
			fmt.Printf("Error warming location catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Warmed %d location entries (ttl %s)\n", count, cacheTTL)
	}
}
