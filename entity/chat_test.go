package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewPair_IsOrderIndependent(t *testing.T) {
	req := require.New(t)
	req.Equal(NewPair("u1", "u2"), NewPair("u2", "u1"))
	req.Equal("u1:u2", NewPair("u2", "u1").Key())
	req.True(NewPair("u1", "u2").Contains("u2"))
	req.False(NewPair("u1", "u2").Contains("u3"))
}

func TestChat_Participants(t *testing.T) {
	req := require.New(t)
	chat := NewChat(NewPair("bob", "alice"))

	req.Equal([]string{"alice", "bob"}, chat.Participants())
	req.True(chat.HasParticipant("alice"))
	req.False(chat.HasParticipant(""))
	req.Equal("bob", chat.Other("alice"))
	req.Equal("alice", chat.Other("bob"))
}

func TestChat_MarkSeenLocally_IsIdempotent(t *testing.T) {
	req := require.New(t)
	chat := NewChat(NewPair("u1", "u2"))
	chat.ID = "c1"
	at := time.Now()

	chat.MarkSeenLocally("u2", at)
	chat.MarkSeenLocally("u2", at.Add(time.Second))

	req.Equal([]string{"u2"}, chat.SeenByIDs())
	req.True(chat.IsSeenBy("u2"))
	req.False(chat.IsSeenBy("u1"))
}

func TestChat_ActivityAt(t *testing.T) {
	req := require.New(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	chat := &Chat{BaseEntity: BaseEntity{CreatedAt: created}}
	req.Equal(created, chat.ActivityAt())

	last := created.Add(time.Hour)
	chat.LastMessageAt = &last
	req.Equal(last, chat.ActivityAt())
}
