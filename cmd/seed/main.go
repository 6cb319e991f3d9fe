// Command seed populates the development database with demo users and cards.
package main

import (
	"flag"
	"log"

	"mesto/config"
	"mesto/database"
	"mesto/seed"
)

func main() {
	users := flag.Int("users", 10, "number of demo users to create")
	cards := flag.Int("cards", 3, "cards per user")
	likes := flag.Int("likes", 4, "likes per card")
	clear := flag.Bool("clear", false, "delete existing data first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		Users:         *users,
		CardsPerUser:  *cards,
		LikesPerCard:  *likes,
		ClearExisting: *clear,
	}
	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}
