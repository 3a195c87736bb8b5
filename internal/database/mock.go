package database

import (
	"github.com/stretchr/testify/mock"
)

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockRoomRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockRoomRepository) GetRoom(roomId string) (Room, error) {
	args := m.Called(roomId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockRoomRepository) DeleteRoom(roomId string) error {
	args := m.Called(roomId)
	return args.Error(0)
}
func (m *MockRoomRepository) AddMember(roomId, userEmail string) (bool, error) {
	args := m.Called(roomId, userEmail)
	return args.Bool(0), args.Error(1)
}
func (m *MockRoomRepository) MemberExists(roomId, userEmail string) (bool, error) {
	args := m.Called(roomId, userEmail)
	return args.Bool(0), args.Error(1)
}
func (m *MockRoomRepository) CreateMessage(roomId, senderEmail, content string) (Message, error) {
	args := m.Called(roomId, senderEmail, content)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockRoomRepository) GetMessages(roomId string) ([]Message, error) {
	args := m.Called(roomId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockRoomRepository) ListRoomsForUser(userEmail string) ([]Room, error) {
	args := m.Called(userEmail)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockRoomRepository) ListMembers(roomId string) ([]Membership, error) {
	args := m.Called(roomId)
	return args.Get(0).([]Membership), args.Error(1)
}
