package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rakshverma/Sociofy/internal/assistant"
	"github.com/rakshverma/Sociofy/internal/chat"
	"github.com/rakshverma/Sociofy/internal/stats"
	"github.com/rakshverma/Sociofy/internal/types"
)

// Request field names are the contract the frontend posts with.
type CreateRoomRequest struct {
	UserEmail string `json:"userEmail"`
	RoomName  string `json:"roomName"`
}

type JoinRoomRequest struct {
	UserEmail string `json:"userEmail"`
	RoomId    string `json:"roomId"`
}

type DeleteRoomRequest struct {
	UserEmail string `json:"userEmail"`
	RoomId    string `json:"roomId"`
}

type SendMessageRequest struct {
	RoomId      string `json:"roomId"`
	SenderEmail string `json:"senderEmail"`
	Content     string `json:"content"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type RoomResponse struct {
	Success  bool   `json:"success"`
	RoomId   string `json:"roomId"`
	RoomName string `json:"roomName"`
	Message  string `json:"message"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MessagesResponse struct {
	Success  bool            `json:"success"`
	Messages []types.Message `json:"messages"`
}

type RoomsResponse struct {
	Success bool         `json:"success"`
	Rooms   []types.Room `json:"rooms"`
}

type MembersResponse struct {
	Success bool           `json:"success"`
	Members []types.Member `json:"members"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

type ModelStatusResponse struct {
	Model string `json:"model"`
}

const modelReadyMessage = "TinyLlama is ready to accept your questions!"

func (s *SociofyApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

// chatError maps a chat package error onto an ApiError. failureMessage is
// the operation's store-failure message; the underlying error is logged,
// not returned to the client.
func (s *SociofyApp) chatError(err error, failureMessage string) *ApiError {
	var verr *chat.ValidationError
	switch {
	case errors.As(err, &verr):
		return NewBadRequestError(verr.Reason)
	case errors.Is(err, chat.ErrRoomNotFound):
		return NewNotFoundError(chat.ErrRoomNotFound.Error())
	case errors.Is(err, chat.ErrNotCreator):
		return NewForbiddenError(chat.ErrNotCreator.Error())
	case errors.Is(err, chat.ErrNotMember):
		return NewForbiddenError(chat.ErrNotMember.Error())
	default:
		s.log.Printf("%s: %v", failureMessage, err)
		return NewInternalServerError(failureMessage, err)
	}
}

func (s *SociofyApp) createRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError("Invalid request body")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	room, err := s.chat.CreateRoom(req.UserEmail, req.RoomName)
	if err != nil {
		errResp := s.chatError(err, "Failed to create room")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, RoomResponse{
		Success:  true,
		RoomId:   room.RoomId,
		RoomName: room.Name,
		Message:  "Room created successfully",
	})
}

func (s *SociofyApp) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError("Invalid request body")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := s.chat.Join(req.UserEmail, req.RoomId)
	if err != nil {
		errResp := s.chatError(err, "Failed to join room")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	message := "Joined room successfully"
	if res.Status == chat.JoinAlreadyMember {
		message = "You are already a member of this room"
	}

	s.writeJson(w, http.StatusOK, RoomResponse{
		Success:  true,
		RoomId:   res.RoomId,
		RoomName: res.RoomName,
		Message:  message,
	})
}

func (s *SociofyApp) deleteRoom(w http.ResponseWriter, r *http.Request) {
	var req DeleteRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError("Invalid request body")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.chat.DeleteRoom(req.UserEmail, req.RoomId); err != nil {
		errResp := s.chatError(err, "Failed to delete room")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: "Room deleted successfully",
	})
}

func (s *SociofyApp) sendRoomMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError("Invalid request body")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if _, err := s.chat.SendMessage(req.SenderEmail, req.RoomId, req.Content); err != nil {
		errResp := s.chatError(err, "Failed to send message")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}

func (s *SociofyApp) roomMessages(w http.ResponseWriter, r *http.Request) {
	roomId := r.URL.Query().Get("roomId")

	dbMessages, err := s.chat.Timeline(roomId)
	if err != nil {
		errResp := s.chatError(err, "Failed to fetch messages")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	messages := make([]types.Message, 0, len(dbMessages))
	for _, m := range dbMessages {
		messages = append(messages, types.Message{
			Id:          m.Id,
			SenderEmail: m.SenderEmail,
			Content:     m.Content,
			SentAt:      m.SentAt,
		})
	}

	s.writeJson(w, http.StatusOK, MessagesResponse{
		Success:  true,
		Messages: messages,
	})
}

func (s *SociofyApp) userRooms(w http.ResponseWriter, r *http.Request) {
	userEmail := r.URL.Query().Get("userEmail")

	dbRooms, err := s.chat.RoomsForUser(userEmail)
	if err != nil {
		errResp := s.chatError(err, "Failed to fetch rooms")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rooms := make([]types.Room, 0, len(dbRooms))
	for _, room := range dbRooms {
		rooms = append(rooms, types.Room{
			RoomId:       room.RoomId,
			Name:         room.Name,
			CreatedAt:    room.CreatedAt,
			CreatorEmail: room.CreatorEmail,
		})
	}

	s.writeJson(w, http.StatusOK, RoomsResponse{
		Success: true,
		Rooms:   rooms,
	})
}

func (s *SociofyApp) roomMembers(w http.ResponseWriter, r *http.Request) {
	roomId := r.URL.Query().Get("roomId")

	dbMembers, err := s.chat.Members(roomId)
	if err != nil {
		errResp := s.chatError(err, "Failed to fetch room members")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	members := make([]types.Member, 0, len(dbMembers))
	for _, m := range dbMembers {
		members = append(members, types.Member{
			UserEmail: m.UserEmail,
			JoinedAt:  m.JoinedAt,
		})
	}

	s.writeJson(w, http.StatusOK, MembersResponse{
		Success: true,
		Members: members,
	})
}

func (s *SociofyApp) modelStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, ModelStatusResponse{
		Model: modelReadyMessage,
	})
}

func (s *SociofyApp) askAssistant(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError("Invalid request body")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		errResp := NewBadRequestError("Question cannot be empty")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	answer, err := s.assistant.Generate(r.Context(), req.Question)
	if err != nil {
		var upErr *assistant.UpstreamError
		var errResp *ApiError
		if errors.As(err, &upErr) {
			errResp = NewInternalServerError(upErr.Error(), err)
		} else {
			s.log.Printf("assistant: %v", err)
			errResp = NewInternalServerError("Failed to reach the model", err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if s.stats != nil {
		s.stats.Incr(stats.AssistantRequests)
	}

	s.writeJson(w, http.StatusOK, AnswerResponse{Answer: answer})
}

func (s *SociofyApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Printf("health check: %v", err)
		errResp := NewInternalServerError("database unreachable", err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
