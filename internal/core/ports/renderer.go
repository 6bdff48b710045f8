package ports

import "time"

// BroadcastView is the data a new-post notification is rendered from.
type BroadcastView struct {
	Link      string
	Title     string
	Author    string
	Summary   string
	Modified  time.Time
	CancelURL string
}

// LoginView is the data a login notification is rendered from.
type LoginView struct {
	Username string
	Time     time.Time
	IP       string
	Address  string
}

// NotificationRenderer turns views into HTML mail bodies.
type NotificationRenderer interface {
	RenderBroadcast(view BroadcastView) (string, error)
	RenderLoginNotice(view LoginView) (string, error)
}
