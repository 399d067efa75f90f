package model

// swagger:model Deck
type Deck struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100" json:"category"`
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`

	Cards []Flashcard `gorm:"foreignKey:DeckID" json:"cards,omitempty"`
}

func (Deck) TableName() string {
	return "decks"
}

// swagger:model Flashcard
type Flashcard struct {
	BaseModel
	DeckID uint   `gorm:"index;type:bigint unsigned;not null" json:"deckId"`
	Front  string `gorm:"type:text;not null" json:"front"`
	Back   string `gorm:"type:text;not null" json:"back"`
	Order  int    `gorm:"default:0" json:"order"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}
