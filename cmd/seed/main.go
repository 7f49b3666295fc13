// Command seed inserts demo posts into the configured database.
package main

import (
	"context"
	"flag"
	"log"

	"stagestream/config"
	"stagestream/middleware"
	"stagestream/repositories"
	"stagestream/seed"

	"github.com/joho/godotenv"
)

func main() {
	fake := flag.Int("fake", 0, "Number of generated posts to add after the default test posts")
	fakeSeed := flag.Int64("seed", 0, "Seed for generated content (0 picks a random seed)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.IsProduction())

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(repositories.NewPostRepository(db), *fakeSeed)

	created, err := s.SeedDefaults(ctx)
	if err != nil {
		log.Fatalf("Seeding test posts failed: %v", err)
	}
	log.Printf("Test posts created: %d", created)

	if *fake > 0 {
		created, err = s.SeedFake(ctx, *fake)
		if err != nil {
			log.Fatalf("Seeding generated posts failed: %v", err)
		}
		log.Printf("Generated posts created: %d", created)
	}

	log.Println("Seed complete.")
}
