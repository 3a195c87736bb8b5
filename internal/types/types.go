package types

import (
	"time"
)

type Room struct {
	RoomId       string    `json:"room_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	CreatorEmail string    `json:"creator_email"`
}

type Message struct {
	Id          int       `json:"id"`
	SenderEmail string    `json:"sender_email"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
}

type Member struct {
	UserEmail string    `json:"user_email"`
	JoinedAt  time.Time `json:"joined_at"`
}
