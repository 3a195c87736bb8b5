package database

import "time"

type Room struct {
	RoomId       string
	CreatorEmail string
	CreatedAt    time.Time
	Name         string
}

type Membership struct {
	Id        int
	RoomId    string
	UserEmail string
	JoinedAt  time.Time
}

type Message struct {
	Id          int
	RoomId      string
	SenderEmail string
	Content     string
	SentAt      time.Time
}

type CreateRoomParams struct {
	RoomId       string
	CreatorEmail string
	Name         string
}
