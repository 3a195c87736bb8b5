package database

type RoomRepository interface {
	Ping() error
	CreateRoom(params CreateRoomParams) (Room, error)
	GetRoom(roomId string) (Room, error)
	DeleteRoom(roomId string) error
	AddMember(roomId, userEmail string) (bool, error)
	MemberExists(roomId, userEmail string) (bool, error)
	CreateMessage(roomId, senderEmail, content string) (Message, error)
	GetMessages(roomId string) ([]Message, error)
	ListRoomsForUser(userEmail string) ([]Room, error)
	ListMembers(roomId string) ([]Membership, error)
}
