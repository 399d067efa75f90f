package service

import (
	"errors"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"
	"meded_backend/internal/util"

	"gorm.io/gorm"
)

// FlashcardService 卡组与闪卡的管理，以及复习事件的转发
type FlashcardService struct {
	FlashcardRepo *repository.FlashcardRepository
	ProgressSvc   *ProgressService
}

func NewFlashcardService(flashcardRepo *repository.FlashcardRepository, progressSvc *ProgressService) *FlashcardService {
	return &FlashcardService{
		FlashcardRepo: flashcardRepo,
		ProgressSvc:   progressSvc,
	}
}

type DeckRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type FlashcardRequest struct {
	Front string `json:"front" binding:"required"`
	Back  string `json:"back" binding:"required"`
	Order int    `json:"order"`
}

type ReviewRequest struct {
	IsCorrect bool `json:"isCorrect"`
}

func (s *FlashcardService) CreateDeck(creatorID uint, req DeckRequest) (*model.Deck, error) {
	deck := &model.Deck{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatorID:   creatorID,
	}
	if err := s.FlashcardRepo.CreateDeck(deck); err != nil {
		return nil, err
	}
	return deck, nil
}

func (s *FlashcardService) ListDecks(page, limit int, category string) ([]model.Deck, int64, error) {
	return s.FlashcardRepo.ListDecks(page, limit, category)
}

func (s *FlashcardService) GetDeck(id uint) (*model.Deck, error) {
	deck, err := s.FlashcardRepo.FindDeckByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDeckNotFound
	}
	if err != nil {
		return nil, err
	}
	cards, err := s.FlashcardRepo.ListCardsByDeck(id)
	if err != nil {
		return nil, err
	}
	deck.Cards = cards
	return deck, nil
}

func (s *FlashcardService) AddCard(deckID uint, req FlashcardRequest) (*model.Flashcard, error) {
	if _, err := s.FlashcardRepo.FindDeckByID(deckID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrDeckNotFound
		}
		return nil, err
	}
	card := &model.Flashcard{
		DeckID: deckID,
		Front:  req.Front,
		Back:   req.Back,
		Order:  req.Order,
	}
	if err := s.FlashcardRepo.CreateCard(card); err != nil {
		return nil, err
	}
	return card, nil
}

// ReviewCard 记录一次闪卡复习，进度更新走统一的活动入口
func (s *FlashcardService) ReviewCard(userID, cardID uint, req ReviewRequest) (*ActivityResult, error) {
	if _, err := s.FlashcardRepo.FindCardByID(cardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCardNotFound
		}
		return nil, err
	}

	correct := req.IsCorrect
	return s.ProgressSvc.RecordActivity(userID, ActivityRequest{
		ActivityType: ActivityFlashcard,
		IsCorrect:    &correct,
	})
}
