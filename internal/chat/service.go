// Package chat implements the room, membership and message managers on top
// of the persistent store. All multi-row writes happen inside a single
// repository transaction; the store's unique constraint on
// (room_id, user_email) is the only duplicate-join guard.
package chat

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/rakshverma/Sociofy/internal/database"
	"github.com/rakshverma/Sociofy/internal/stats"
)

type JoinStatus int

const (
	JoinCreated JoinStatus = iota
	JoinAlreadyMember
)

// JoinResult carries the canonical room name alongside the outcome so the
// caller can distinguish a fresh join from a repeated one.
type JoinResult struct {
	RoomId   string
	RoomName string
	Status   JoinStatus
}

type Service struct {
	log       *log.Logger
	db        database.RoomRepository
	stats     stats.StatsProvider
	newRoomId func() string
}

func NewService(logger *log.Logger, db database.RoomRepository, sp stats.StatsProvider) *Service {
	if sp != nil {
		sp.RegisterMetric(stats.RoomsCreated)
		sp.RegisterMetric(stats.RoomsDeleted)
		sp.RegisterMetric(stats.MembersJoined)
		sp.RegisterMetric(stats.MessagesSent)
	}

	return &Service{
		log:       logger,
		db:        db,
		stats:     sp,
		newRoomId: uuid.NewString,
	}
}

func (s *Service) incr(name string) {
	if s.stats != nil {
		s.stats.Incr(name)
	}
}

// CreateRoom creates a room and its creator's membership in one transaction,
// so a room is never visible without at least one member.
func (s *Service) CreateRoom(creatorEmail, roomName string) (database.Room, error) {
	if creatorEmail == "" {
		return database.Room{}, newValidationError("User email is required")
	}

	if roomName == "" {
		roomName = fmt.Sprintf("Room by %s", creatorEmail)
	}

	room, err := s.db.CreateRoom(database.CreateRoomParams{
		RoomId:       s.newRoomId(),
		CreatorEmail: creatorEmail,
		Name:         roomName,
	})
	if err != nil {
		return database.Room{}, fmt.Errorf("create room: %w", err)
	}

	s.incr(stats.RoomsCreated)
	return room, nil
}

// DeleteRoom removes a room together with its memberships and messages.
// Only the creator may delete.
func (s *Service) DeleteRoom(requesterEmail, roomId string) error {
	if requesterEmail == "" || roomId == "" {
		return newValidationError("User email and room ID are required")
	}

	room, err := s.db.GetRoom(roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}

	if room.CreatorEmail != requesterEmail {
		return ErrNotCreator
	}

	if err := s.db.DeleteRoom(roomId); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	s.incr(stats.RoomsDeleted)
	return nil
}

// Join adds a user to an existing room. Joining a room the user already
// belongs to is a successful no-op, reported via JoinAlreadyMember.
func (s *Service) Join(userEmail, roomId string) (JoinResult, error) {
	if userEmail == "" || roomId == "" {
		return JoinResult{}, newValidationError("User email and room ID are required")
	}

	room, err := s.db.GetRoom(roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JoinResult{}, ErrRoomNotFound
		}
		return JoinResult{}, fmt.Errorf("get room: %w", err)
	}

	created, err := s.db.AddMember(roomId, userEmail)
	if err != nil {
		return JoinResult{}, fmt.Errorf("add member: %w", err)
	}

	status := JoinAlreadyMember
	if created {
		status = JoinCreated
		s.incr(stats.MembersJoined)
	}

	return JoinResult{
		RoomId:   room.RoomId,
		RoomName: room.Name,
		Status:   status,
	}, nil
}

// SendMessage appends a message to the room's timeline. Membership is the
// gate: a missing room has no members, so sends to it fail the same way.
func (s *Service) SendMessage(senderEmail, roomId, content string) (database.Message, error) {
	if roomId == "" || senderEmail == "" || content == "" {
		return database.Message{}, newValidationError("Room ID, sender email, and content are required")
	}

	isMember, err := s.db.MemberExists(roomId, senderEmail)
	if err != nil {
		return database.Message{}, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return database.Message{}, ErrNotMember
	}

	msg, err := s.db.CreateMessage(roomId, senderEmail, content)
	if err != nil {
		return database.Message{}, fmt.Errorf("create message: %w", err)
	}

	s.incr(stats.MessagesSent)
	return msg, nil
}

// Timeline returns the room's messages in send order. An unknown room yields
// an empty timeline, not an error.
func (s *Service) Timeline(roomId string) ([]database.Message, error) {
	if roomId == "" {
		return nil, newValidationError("Room ID is required")
	}

	return s.db.GetMessages(roomId)
}

// RoomsForUser lists the rooms the user is a member of.
func (s *Service) RoomsForUser(userEmail string) ([]database.Room, error) {
	if userEmail == "" {
		return nil, newValidationError("User email is required")
	}

	return s.db.ListRoomsForUser(userEmail)
}

// Members lists a room's memberships. Room existence is not checked here:
// an unknown room simply has no members.
func (s *Service) Members(roomId string) ([]database.Membership, error) {
	if roomId == "" {
		return nil, newValidationError("Room ID is required")
	}

	return s.db.ListMembers(roomId)
}
