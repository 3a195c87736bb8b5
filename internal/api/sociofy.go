package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/rakshverma/Sociofy/internal/assistant"
	"github.com/rakshverma/Sociofy/internal/chat"
	"github.com/rakshverma/Sociofy/internal/config"
	"github.com/rakshverma/Sociofy/internal/database"
	"github.com/rakshverma/Sociofy/internal/stats"
)

type SociofyApp struct {
	log       *log.Logger
	chat      *chat.Service
	assistant *assistant.Client
	db        database.RoomRepository
	stats     stats.StatsProvider
	mux       *http.Server
}

func NewSociofyApp(mux *http.ServeMux, logger *log.Logger, cs *chat.Service, ac *assistant.Client, db database.RoomRepository, sp stats.StatsProvider, cfg *config.Config) *SociofyApp {
	s := &SociofyApp{
		log:       logger,
		chat:      cs,
		assistant: ac,
		db:        db,
		stats:     sp,
	}

	if sp != nil {
		sp.RegisterMetric(stats.AssistantRequests)
	}

	mux.HandleFunc("POST /create-room", s.createRoom)
	mux.HandleFunc("POST /join-room", s.joinRoom)
	mux.HandleFunc("POST /delete-room", s.deleteRoom)
	mux.HandleFunc("POST /send-room-message", s.sendRoomMessage)
	mux.HandleFunc("GET /room-messages", s.roomMessages)
	mux.HandleFunc("GET /user-rooms", s.userRooms)
	mux.HandleFunc("GET /room-members", s.roomMembers)
	mux.HandleFunc("GET /api/get", s.modelStatus)
	mux.HandleFunc("POST /api/post", s.askAssistant)
	mux.HandleFunc("GET /healthz", s.healthCheck)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
	)(mux)

	h = s.requestId(h)
	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *SociofyApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *SociofyApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
