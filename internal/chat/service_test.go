package chat

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rakshverma/Sociofy/internal/database"
	"github.com/rakshverma/Sociofy/internal/stats"
	"github.com/rakshverma/Sociofy/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestService(t *testing.T, repo database.RoomRepository) *Service {
	svc := NewService(testutil.TestLogger(t), repo, nil)
	svc.newRoomId = func() string { return "room-1" }
	return svc
}

func TestCreateRoom(t *testing.T) {
	now := time.Now().UTC()

	tcases := []struct {
		name         string
		creatorEmail string
		roomName     string
		wantParams   *database.CreateRoomParams
		mockRoom     database.Room
		mockErr      error
		wantErr      string
	}{
		{
			name:         "creates room with explicit name",
			creatorEmail: "a@x.com",
			roomName:     "general",
			wantParams: &database.CreateRoomParams{
				RoomId:       "room-1",
				CreatorEmail: "a@x.com",
				Name:         "general",
			},
			mockRoom: database.Room{
				RoomId:       "room-1",
				CreatorEmail: "a@x.com",
				CreatedAt:    now,
				Name:         "general",
			},
		},
		{
			name:         "derives default name when none supplied",
			creatorEmail: "a@x.com",
			wantParams: &database.CreateRoomParams{
				RoomId:       "room-1",
				CreatorEmail: "a@x.com",
				Name:         "Room by a@x.com",
			},
			mockRoom: database.Room{
				RoomId:       "room-1",
				CreatorEmail: "a@x.com",
				CreatedAt:    now,
				Name:         "Room by a@x.com",
			},
		},
		{
			name:    "fails with missing email",
			wantErr: "User email is required",
		},
		{
			name:         "fails with store error",
			creatorEmail: "a@x.com",
			roomName:     "general",
			wantParams: &database.CreateRoomParams{
				RoomId:       "room-1",
				CreatorEmail: "a@x.com",
				Name:         "general",
			},
			mockErr: errors.New("db error"),
			wantErr: "create room: db error",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockRoomRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.wantParams != nil {
				mockRepo.On("CreateRoom", *tc.wantParams).Return(tc.mockRoom, tc.mockErr).Once()
			}

			svc := newTestService(t, mockRepo)
			room, err := svc.CreateRoom(tc.creatorEmail, tc.roomName)

			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.mockRoom, room)
		})
	}
}

func TestCreateRoom_ValidationSkipsStore(t *testing.T) {
	mockRepo := &database.MockRoomRepository{}
	svc := newTestService(t, mockRepo)

	_, err := svc.CreateRoom("", "general")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	mockRepo.AssertNotCalled(t, "CreateRoom", mock.Anything)
}

func TestDeleteRoom(t *testing.T) {
	room := database.Room{
		RoomId:       "room-1",
		CreatorEmail: "a@x.com",
		Name:         "general",
	}

	tcases := []struct {
		name           string
		requesterEmail string
		roomId         string
		mockRoom       database.Room
		mockGetErr     error
		expectDelete   bool
		mockDeleteErr  error
		wantErr        error
		wantErrMsg     string
	}{
		{
			name:           "creator deletes room",
			requesterEmail: "a@x.com",
			roomId:         "room-1",
			mockRoom:       room,
			expectDelete:   true,
		},
		{
			name:       "fails with missing fields",
			wantErrMsg: "User email and room ID are required",
		},
		{
			name:           "fails when room does not exist",
			requesterEmail: "a@x.com",
			roomId:         "missing",
			mockGetErr:     sql.ErrNoRows,
			wantErr:        ErrRoomNotFound,
		},
		{
			name:           "fails when requester is not the creator",
			requesterEmail: "c@x.com",
			roomId:         "room-1",
			mockRoom:       room,
			wantErr:        ErrNotCreator,
		},
		{
			name:           "fails with store error on lookup",
			requesterEmail: "a@x.com",
			roomId:         "room-1",
			mockGetErr:     errors.New("db error"),
			wantErrMsg:     "get room: db error",
		},
		{
			name:           "fails with store error on delete",
			requesterEmail: "a@x.com",
			roomId:         "room-1",
			mockRoom:       room,
			expectDelete:   true,
			mockDeleteErr:  errors.New("db error"),
			wantErrMsg:     "delete room: db error",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockRoomRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.roomId != "" {
				mockRepo.On("GetRoom", tc.roomId).Return(tc.mockRoom, tc.mockGetErr).Once()
			}
			if tc.expectDelete {
				mockRepo.On("DeleteRoom", tc.roomId).Return(tc.mockDeleteErr).Once()
			}

			svc := newTestService(t, mockRepo)
			err := svc.DeleteRoom(tc.requesterEmail, tc.roomId)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantErrMsg != "":
				assert.EqualError(t, err, tc.wantErrMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeleteRoom_NonCreatorLeavesRoomIntact(t *testing.T) {
	mockRepo := &database.MockRoomRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetRoom", "room-1").Return(database.Room{
		RoomId:       "room-1",
		CreatorEmail: "a@x.com",
	}, nil).Once()

	svc := newTestService(t, mockRepo)
	err := svc.DeleteRoom("c@x.com", "room-1")

	assert.ErrorIs(t, err, ErrNotCreator)
	mockRepo.AssertNotCalled(t, "DeleteRoom", mock.Anything)
}

func TestJoin(t *testing.T) {
	room := database.Room{
		RoomId:       "room-1",
		CreatorEmail: "a@x.com",
		Name:         "general",
	}

	tcases := []struct {
		name        string
		userEmail   string
		roomId      string
		mockRoom    database.Room
		mockGetErr  error
		expectAdd   bool
		mockCreated bool
		mockAddErr  error
		wantStatus  JoinStatus
		wantErr     error
		wantErrMsg  string
	}{
		{
			name:        "joins room for the first time",
			userEmail:   "b@x.com",
			roomId:      "room-1",
			mockRoom:    room,
			expectAdd:   true,
			mockCreated: true,
			wantStatus:  JoinCreated,
		},
		{
			name:       "repeated join is a successful no-op",
			userEmail:  "b@x.com",
			roomId:     "room-1",
			mockRoom:   room,
			expectAdd:  true,
			wantStatus: JoinAlreadyMember,
		},
		{
			name:       "fails with missing fields",
			wantErrMsg: "User email and room ID are required",
		},
		{
			name:       "fails when room does not exist",
			userEmail:  "b@x.com",
			roomId:     "missing",
			mockGetErr: sql.ErrNoRows,
			wantErr:    ErrRoomNotFound,
		},
		{
			name:       "fails with store error",
			userEmail:  "b@x.com",
			roomId:     "room-1",
			mockRoom:   room,
			expectAdd:  true,
			mockAddErr: errors.New("db error"),
			wantErrMsg: "add member: db error",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockRoomRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.roomId != "" {
				mockRepo.On("GetRoom", tc.roomId).Return(tc.mockRoom, tc.mockGetErr).Once()
			}
			if tc.expectAdd {
				mockRepo.On("AddMember", tc.roomId, tc.userEmail).Return(tc.mockCreated, tc.mockAddErr).Once()
			}

			svc := newTestService(t, mockRepo)
			res, err := svc.Join(tc.userEmail, tc.roomId)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantErrMsg != "":
				assert.EqualError(t, err, tc.wantErrMsg)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tc.wantStatus, res.Status)
				assert.Equal(t, room.RoomId, res.RoomId)
				assert.Equal(t, room.Name, res.RoomName)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	sentMsg := database.Message{
		Id:          1,
		RoomId:      "room-1",
		SenderEmail: "a@x.com",
		Content:     "hi",
		SentAt:      time.Now().UTC(),
	}

	tcases := []struct {
		name          string
		senderEmail   string
		roomId        string
		content       string
		expectExists  bool
		mockIsMember  bool
		mockExistsErr error
		expectCreate  bool
		mockCreateErr error
		wantErr       error
		wantErrMsg    string
	}{
		{
			name:         "member sends a message",
			senderEmail:  "a@x.com",
			roomId:       "room-1",
			content:      "hi",
			expectExists: true,
			mockIsMember: true,
			expectCreate: true,
		},
		{
			name:        "fails with missing fields",
			senderEmail: "a@x.com",
			wantErrMsg:  "Room ID, sender email, and content are required",
		},
		{
			name:         "fails when sender is not a member",
			senderEmail:  "c@x.com",
			roomId:       "room-1",
			content:      "hi",
			expectExists: true,
			wantErr:      ErrNotMember,
		},
		{
			name:          "fails with store error on membership check",
			senderEmail:   "a@x.com",
			roomId:        "room-1",
			content:       "hi",
			expectExists:  true,
			mockExistsErr: errors.New("db error"),
			wantErrMsg:    "check membership: db error",
		},
		{
			name:          "fails with store error on insert",
			senderEmail:   "a@x.com",
			roomId:        "room-1",
			content:       "hi",
			expectExists:  true,
			mockIsMember:  true,
			expectCreate:  true,
			mockCreateErr: errors.New("db error"),
			wantErrMsg:    "create message: db error",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockRoomRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.expectExists {
				mockRepo.On("MemberExists", tc.roomId, tc.senderEmail).Return(tc.mockIsMember, tc.mockExistsErr).Once()
			}
			if tc.expectCreate {
				mockRepo.On("CreateMessage", tc.roomId, tc.senderEmail, tc.content).Return(sentMsg, tc.mockCreateErr).Once()
			}

			svc := newTestService(t, mockRepo)
			msg, err := svc.SendMessage(tc.senderEmail, tc.roomId, tc.content)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantErrMsg != "":
				assert.EqualError(t, err, tc.wantErrMsg)
			default:
				assert.NoError(t, err)
				assert.Equal(t, sentMsg, msg)
			}
		})
	}
}

func TestSendMessage_NonMemberWritesNothing(t *testing.T) {
	mockRepo := &database.MockRoomRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("MemberExists", "room-1", "c@x.com").Return(false, nil).Once()

	svc := newTestService(t, mockRepo)
	_, err := svc.SendMessage("c@x.com", "room-1", "hi")

	assert.ErrorIs(t, err, ErrNotMember)
	mockRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestTimeline(t *testing.T) {
	base := time.Now().UTC()
	messages := []database.Message{
		{Id: 1, RoomId: "room-1", SenderEmail: "a@x.com", Content: "hi", SentAt: base},
		{Id: 2, RoomId: "room-1", SenderEmail: "b@x.com", Content: "hello", SentAt: base.Add(time.Second)},
	}

	tcases := []struct {
		name         string
		roomId       string
		mockMessages []database.Message
		mockErr      error
		wantErrMsg   string
	}{
		{
			name:         "returns messages in send order",
			roomId:       "room-1",
			mockMessages: messages,
		},
		{
			name:         "unknown room yields empty timeline",
			roomId:       "missing",
			mockMessages: []database.Message{},
		},
		{
			name:       "fails with missing room id",
			wantErrMsg: "Room ID is required",
		},
		{
			name:       "fails with store error",
			roomId:     "room-1",
			mockErr:    errors.New("db error"),
			wantErrMsg: "db error",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockRoomRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.roomId != "" {
				mockRepo.On("GetMessages", tc.roomId).Return(tc.mockMessages, tc.mockErr).Once()
			}

			svc := newTestService(t, mockRepo)
			got, err := svc.Timeline(tc.roomId)

			if tc.wantErrMsg != "" {
				assert.EqualError(t, err, tc.wantErrMsg)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.mockMessages, got)
			for i := 1; i < len(got); i++ {
				assert.False(t, got[i].SentAt.Before(got[i-1].SentAt), "timeline must be non-decreasing in sent_at")
			}
		})
	}
}

func TestRoomsForUser(t *testing.T) {
	rooms := []database.Room{
		{RoomId: "room-1", CreatorEmail: "a@x.com", Name: "general"},
	}

	mockRepo := &database.MockRoomRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("ListRoomsForUser", "a@x.com").Return(rooms, nil).Once()

	svc := newTestService(t, mockRepo)

	got, err := svc.RoomsForUser("a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, rooms, got)

	_, err = svc.RoomsForUser("")
	assert.EqualError(t, err, "User email is required")
}

func TestMembers(t *testing.T) {
	members := []database.Membership{
		{Id: 1, RoomId: "room-1", UserEmail: "a@x.com", JoinedAt: time.Now().UTC()},
	}

	mockRepo := &database.MockRoomRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("ListMembers", "room-1").Return(members, nil).Once()

	svc := newTestService(t, mockRepo)

	got, err := svc.Members("room-1")
	assert.NoError(t, err)
	assert.Equal(t, members, got)

	_, err = svc.Members("")
	assert.EqualError(t, err, "Room ID is required")
}

func TestServiceStats(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	defer su.AssertExpectations(t)
	su.On("RegisterMetric", mock.Anything).Times(4)
	su.On("Incr", stats.RoomsCreated).Once()
	su.On("Incr", stats.MembersJoined).Once()

	mockRepo := &database.MockRoomRepository{}
	mockRepo.On("CreateRoom", mock.Anything).Return(database.Room{RoomId: "room-1", Name: "general"}, nil).Once()
	mockRepo.On("GetRoom", "room-1").Return(database.Room{RoomId: "room-1", Name: "general"}, nil).Twice()
	mockRepo.On("AddMember", "room-1", "b@x.com").Return(true, nil).Once()
	mockRepo.On("AddMember", "room-1", "c@x.com").Return(false, nil).Once()

	svc := NewService(testutil.TestLogger(t), mockRepo, su)
	svc.newRoomId = func() string { return "room-1" }

	_, err := svc.CreateRoom("a@x.com", "general")
	assert.NoError(t, err)

	// counted: fresh join
	_, err = svc.Join("b@x.com", "room-1")
	assert.NoError(t, err)

	// not counted: no-op join
	_, err = svc.Join("c@x.com", "room-1")
	assert.NoError(t, err)
}
