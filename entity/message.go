package entity

// Message is immutable once stored. Seq is assigned per chat at persistence
// time and is the ordering key; CreatedAt never decreases along Seq.
type Message struct {
	BaseEntity
	ChatID   string `json:"chatId" gorm:"type:varchar(255);not null;uniqueIndex:idx_message_chat_seq,priority:1"`
	Seq      int64  `json:"seq" gorm:"not null;uniqueIndex:idx_message_chat_seq,priority:2"`
	SenderID string `json:"senderId" gorm:"type:varchar(255);not null;index"`
	Text     string `json:"text" gorm:"type:text;not null"`
}
