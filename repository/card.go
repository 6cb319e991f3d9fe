package repository

import (
	"context"
	"errors"

	"mesto/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CardRepository defines the interface for card data operations
type CardRepository interface {
	List(ctx context.Context) ([]models.Card, error)
	GetByID(ctx context.Context, id uint) (*models.Card, error)
	Create(ctx context.Context, card *models.Card) error
	DeleteOwned(ctx context.Context, id, ownerID uint) error
	Like(ctx context.Context, cardID, userID uint) error
	Unlike(ctx context.Context, cardID, userID uint) error
}

// cardRepository implements CardRepository
type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) List(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := r.loadLikes(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id uint) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Card", id)
		}
		return nil, models.NewInternalError(err)
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).Where("card_id = ?", id).Order("id").Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	card.Likes = make([]uint, 0, len(likes))
	for _, l := range likes {
		card.Likes = append(card.Likes, l.UserID)
	}
	return &card, nil
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return models.NewInternalError(err)
	}
	card.Likes = []uint{}
	return nil
}

// DeleteOwned deletes the card only if it still belongs to ownerID. The
// condition makes the ownership check-then-delete safe across concurrent
// requests and server instances: zero rows affected means the card vanished
// (or changed hands) between check and delete.
func (r *cardRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Card{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Card", id)
	}
	return nil
}

// Like adds userID to the card's like set. Liking an already-liked card is
// a no-op thanks to the unique (user_id, card_id) index.
func (r *cardRepository) Like(ctx context.Context, cardID, userID uint) error {
	like := models.Like{UserID: userID, CardID: cardID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unlike removes userID from the card's like set. Removing an absent like
// is a no-op.
func (r *cardRepository) Unlike(ctx context.Context, cardID, userID uint) error {
	err := r.db.WithContext(ctx).Where("user_id = ? AND card_id = ?", userID, cardID).Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// loadLikes populates each card's Likes with the user IDs that liked it.
func (r *cardRepository) loadLikes(ctx context.Context, cards []models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(cards))
	for i := range cards {
		cards[i].Likes = []uint{}
		ids = append(ids, cards[i].ID)
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).Where("card_id IN ?", ids).Order("id").Find(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}

	byCard := make(map[uint][]uint, len(cards))
	for _, l := range likes {
		byCard[l.CardID] = append(byCard[l.CardID], l.UserID)
	}
	for i := range cards {
		if s, ok := byCard[cards[i].ID]; ok {
			cards[i].Likes = s
		}
	}
	return nil
}
