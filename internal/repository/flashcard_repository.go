package repository

import (
	"meded_backend/internal/model"

	"gorm.io/gorm"
)

type FlashcardRepository struct {
	DB *gorm.DB
}

func NewFlashcardRepository(db *gorm.DB) *FlashcardRepository {
	return &FlashcardRepository{DB: db}
}

func (r *FlashcardRepository) CreateDeck(deck *model.Deck) error {
	return r.DB.Create(deck).Error
}

func (r *FlashcardRepository) FindDeckByID(id uint) (*model.Deck, error) {
	var deck model.Deck
	err := r.DB.First(&deck, id).Error
	return &deck, err
}

func (r *FlashcardRepository) ListDecks(page, limit int, category string) ([]model.Deck, int64, error) {
	var decks []model.Deck
	var total int64

	query := r.DB.Model(&model.Deck{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&decks).Error
	return decks, total, err
}

func (r *FlashcardRepository) CreateCard(card *model.Flashcard) error {
	return r.DB.Create(card).Error
}

func (r *FlashcardRepository) FindCardByID(id uint) (*model.Flashcard, error) {
	var card model.Flashcard
	err := r.DB.First(&card, id).Error
	return &card, err
}

func (r *FlashcardRepository) ListCardsByDeck(deckID uint) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.DB.Where("deck_id = ?", deckID).
		Order("`order` ASC, id ASC").
		Find(&cards).Error
	return cards, err
}
