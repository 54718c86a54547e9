package entity

import (
	"time"

	"github.com/samber/lo"
)

// Chat is a two-party conversation. The participant pair is stored in
// canonical order so that a unique index can enforce one chat per pair.
type Chat struct {
	BaseEntity
	UserLowID     string     `json:"-" gorm:"type:varchar(255);not null;uniqueIndex:idx_chat_pair,priority:1"`
	UserHighID    string     `json:"-" gorm:"type:varchar(255);not null;uniqueIndex:idx_chat_pair,priority:2"`
	MessageCount  int64      `json:"messageCount" gorm:"not null"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`

	Messages []Message  `json:"-" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE;"`
	SeenBy   []ChatSeen `json:"-" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE;"`
}

func NewChat(pair Pair) *Chat {
	return &Chat{UserLowID: pair.Low, UserHighID: pair.High}
}

func (c *Chat) Pair() Pair {
	return Pair{Low: c.UserLowID, High: c.UserHighID}
}

func (c *Chat) Participants() []string {
	return []string{c.UserLowID, c.UserHighID}
}

func (c *Chat) HasParticipant(userID string) bool {
	return userID != "" && c.Pair().Contains(userID)
}

// Other returns the participant that is not userID.
func (c *Chat) Other(userID string) string {
	if c.UserLowID == userID {
		return c.UserHighID
	}
	return c.UserLowID
}

func (c *Chat) SeenByIDs() []string {
	return lo.Map(c.SeenBy, func(s ChatSeen, _ int) string { return s.UserID })
}

func (c *Chat) IsSeenBy(userID string) bool {
	return lo.ContainsBy(c.SeenBy, func(s ChatSeen) bool { return s.UserID == userID })
}

// MarkSeenLocally records userID in the loaded seen set without touching
// storage. Used to reflect a write that was just committed.
func (c *Chat) MarkSeenLocally(userID string, at time.Time) {
	if c.IsSeenBy(userID) {
		return
	}
	c.SeenBy = append(c.SeenBy, ChatSeen{ChatID: c.ID, UserID: userID, SeenAt: at})
}

// ActivityAt is the time used to order conversations by recency.
func (c *Chat) ActivityAt() time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.CreatedAt
}

// ChatSeen is one member of a chat's seen set.
type ChatSeen struct {
	ChatID string    `json:"chatId" gorm:"primaryKey;type:varchar(255)"`
	UserID string    `json:"userId" gorm:"primaryKey;type:varchar(255)"`
	SeenAt time.Time `json:"seenAt" gorm:"not null"`
}
