package enum

type EventKind string

const (
	EventKindNewMessage  EventKind = "new_message"
	EventKindUnreadCount EventKind = "unread_count"
)
