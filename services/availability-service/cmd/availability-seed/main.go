package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/md-rashed-zaman/openhours/libs/db"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/storage"
)

// Seeds synthetic provider schedules for load testing: weekday 09:00-12:00 and
// 13:00-17:00, Saturday mornings, Sundays closed.

func main() {
	_ = godotenv.Load()

	var (
		dbURL     = flag.String("database-url", getenv("DATABASE_URL", ""), "postgres connection string")
		providers = flag.Int("providers", 50, "number of providers to seed")
		weeks     = flag.Int("weeks", 8, "number of weeks per provider, starting this week")
		batchSize = flag.Int("batch-size", 500, "rows per insert batch")
	)
	flag.Parse()

	if *dbURL == "" {
		fatal("DATABASE_URL is required")
	}
	if *providers <= 0 || *weeks <= 0 {
		fatal("providers and weeks must be positive")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.Open(ctx, *dbURL)
	if err != nil {
		fatal("db connection failed: " + err.Error())
	}
	defer pool.Close()

	weekday, err := bitset.Encode([]bitset.Window{
		{Start: 9 * 60, End: 12 * 60},
		{Start: 13 * 60, End: 17 * 60},
	})
	if err != nil {
		fatal(err.Error())
	}
	saturday, err := bitset.Encode([]bitset.Window{{Start: 9 * 60, End: 13 * 60}})
	if err != nil {
		fatal(err.Error())
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))

	var items []storage.ProviderDayBits
	for p := 0; p < *providers; p++ {
		providerID := uuid.NewString()
		for w := 0; w < *weeks; w++ {
			monday := weekStart.AddDate(0, 0, 7*w)
			for d := 0; d < 5; d++ {
				items = append(items, storage.ProviderDayBits{
					ProviderID: providerID,
					Day:        monday.AddDate(0, 0, d),
					Bits:       weekday,
				})
			}
			items = append(items, storage.ProviderDayBits{
				ProviderID: providerID,
				Day:        monday.AddDate(0, 0, 5),
				Bits:       saturday,
			})
		}
	}

	repo := storage.NewDayRepository(pool)
	start := time.Now()
	n, err := repo.BulkUpsertNative(ctx, items, *batchSize)
	if err != nil {
		fatal("seed failed: " + err.Error())
	}
	fmt.Printf("seeded %d day rows for %d providers in %s\n", n, *providers, time.Since(start).Round(time.Millisecond))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
