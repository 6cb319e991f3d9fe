// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"mesto/auth"
	"mesto/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much demo data gets created.
type Options struct {
	Users         int
	CardsPerUser  int
	LikesPerCard  int
	ClearExisting bool
}

// DefaultOptions returns a reasonable demo-data volume.
func DefaultOptions() Options {
	return Options{Users: 10, CardsPerUser: 3, LikesPerCard: 4}
}

// Seed populates the database with fake users and cards.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ClearExisting {
		if err := clearData(db); err != nil {
			return err
		}
	}

	users, err := createUsers(db, opts.Users)
	if err != nil {
		return err
	}

	cards, err := createCards(db, users, opts.CardsPerUser)
	if err != nil {
		return err
	}

	if err := createLikes(db, users, cards, opts.LikesPerCard); err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d cards", len(users), len(cards))
	return nil
}

func clearData(db *gorm.DB) error {
	for _, m := range []any{&models.Like{}, &models.Card{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	// All demo accounts share one password so the hash is computed once.
	hash, err := auth.HashPassword("demo-password-1")
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Name:     gofakeit.Name(),
			About:    gofakeit.JobTitle(),
			Avatar:   fmt.Sprintf("https://picsum.photos/seed/avatar-%s/200/200", gofakeit.UUID()),
			Email:    fmt.Sprintf("%d-%s", i, gofakeit.Email()),
			Password: hash,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCards(db *gorm.DB, users []models.User, perUser int) ([]models.Card, error) {
	var cards []models.Card
	for _, u := range users {
		for i := 0; i < perUser; i++ {
			card := models.Card{
				Name:    gofakeit.City(),
				Link:    fmt.Sprintf("https://picsum.photos/seed/card-%s/800/600", gofakeit.UUID()),
				OwnerID: u.ID,
			}
			if err := db.Create(&card).Error; err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func createLikes(db *gorm.DB, users []models.User, cards []models.Card, perCard int) error {
	if perCard > len(users) {
		perCard = len(users)
	}
	for _, card := range cards {
		idx := rand.Perm(len(users))
		for i := 0; i < perCard; i++ {
			like := models.Like{UserID: users[idx[i]].ID, CardID: card.ID}
			if err := db.Create(&like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
