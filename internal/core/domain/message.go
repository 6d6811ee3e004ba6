package domain

import "time"

// Message is a direct message between two users.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sentAt"`
}

// VisibleTo reports whether username took part in the conversation.
func (m *Message) VisibleTo(username string) bool {
	return username != "" && (m.Sender == username || m.Recipient == username)
}
