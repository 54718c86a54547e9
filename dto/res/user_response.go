package res

import "real-time-dm-api/entity"

type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// NewUserProfile maps a profile; a nil user yields a profile carrying only
// the id so clients can still render the conversation.
func NewUserProfile(id string, user *entity.User) UserProfile {
	if user == nil {
		return UserProfile{ID: id}
	}
	return UserProfile{ID: user.ID, Name: user.Name, Avatar: user.Avatar}
}

type UnreadResponse struct {
	Count int64 `json:"count"`
}
