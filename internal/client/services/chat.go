package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/docassist/internal/client/client"
	"github.com/dmitrijs2005/docassist/internal/client/events"
	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/logging"
)

// ChatState is the state of the active conversation.
type ChatState int

const (
	Idle ChatState = iota
	AwaitingResponse
)

func (s ChatState) String() string {
	if s == AwaitingResponse {
		return "awaiting response"
	}
	return "idle"
}

// SendOptions scope a question. An empty SessionID means the active
// session, and no active session means a new conversation. A SessionID
// other than the active one switches to it first, like OpenSession without
// loading its history.
type SendOptions struct {
	DocumentID string
	SessionID  string
}

// ChatService keeps the session list and the transcript of the active
// session.
//
// Send appends the user's message at once and never removes it, even when
// the request fails. Responses that arrive after the active conversation
// was switched (OpenSession, NewSession, or deleting the active session)
// are discarded with ErrStaleResponse.
type ChatService interface {
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	OpenSession(ctx context.Context, id string) ([]models.ChatMessage, error)
	Send(ctx context.Context, question string, opts SendOptions) (models.ChatReply, error)
	NewSession()
	DeleteSession(ctx context.Context, id string) error

	// Reset forgets the session list and the conversation. Responses to
	// requests issued before it are discarded.
	Reset()

	Sessions() []models.ChatSession
	Transcript() []models.ChatMessage
	ActiveSessionID() string
	State() ChatState
}

// ChatOption customises a ChatService.
type ChatOption func(*chatService)

// WithClock sets the time source for locally created messages.
func WithClock(now func() time.Time) ChatOption {
	return func(s *chatService) { s.now = now }
}

// WithIDGenerator sets the id source for locally created messages.
func WithIDGenerator(newID func() string) ChatOption {
	return func(s *chatService) { s.newID = newID }
}

type chatService struct {
	api   client.ChatAPI
	hub   *events.Hub
	log   logging.Logger
	now   func() time.Time
	newID func() string

	mu          sync.Mutex
	sessions    []models.ChatSession
	issuedList  uint64
	appliedList uint64
	active      string
	transcript  []models.ChatMessage
	generation  uint64
	pending     int
	deleted     *tombstones
}

func NewChatService(api client.ChatAPI, hub *events.Hub, log logging.Logger, opts ...ChatOption) ChatService {
	if log == nil {
		log = logging.Nop{}
	}
	s := &chatService{
		api:     api,
		hub:     hub,
		log:     log.With("component", "chat"),
		now:     time.Now,
		newID:   uuid.NewString,
		deleted: newTombstones(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ListSessions replaces the session list. On failure the previous list is
// kept; an out-of-order response is ignored.
func (s *chatService) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	s.mu.Lock()
	s.issuedList++
	seq := s.issuedList
	s.mu.Unlock()

	sessions, err := s.api.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	s.mu.Lock()
	if seq < s.appliedList {
		current := slices.Clone(s.sessions)
		s.mu.Unlock()
		return current, nil
	}
	s.sessions = slices.DeleteFunc(sessions, func(cs models.ChatSession) bool {
		return s.deleted.hides(cs.ID, seq)
	})
	s.appliedList = seq
	out := slices.Clone(s.sessions)
	s.mu.Unlock()

	s.hub.Emit(events.SessionsChanged)
	return out, nil
}

// OpenSession makes id active and loads its messages. The transcript is
// cleared right away; when the messages arrive they go in front of anything
// sent in the meantime.
func (s *chatService) OpenSession(ctx context.Context, id string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.active = id
	s.transcript = nil
	s.mu.Unlock()
	s.hub.Emit(events.TranscriptChanged)

	msgs, err := s.api.SessionMessages(ctx, id)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding transcript of a session no longer active", "session", id)
		if err != nil {
			return nil, fmt.Errorf("open session %s: %w", id, err)
		}
		return nil, ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("open session %s: %w", id, err)
	}
	s.transcript = append(slices.Clone(msgs), s.transcript...)
	out := slices.Clone(s.transcript)
	s.mu.Unlock()

	s.hub.Emit(events.TranscriptChanged)
	return out, nil
}

func (s *chatService) Send(ctx context.Context, question string, opts SendOptions) (models.ChatReply, error) {
	question = strings.TrimSpace(question)
	req := models.ChatRequest{Question: question, DocumentID: opts.DocumentID}
	if err := validateRequest(req); err != nil {
		return models.ChatReply{}, fmt.Errorf("send: %w", err)
	}

	s.mu.Lock()
	switched := opts.SessionID != "" && opts.SessionID != s.active
	if switched {
		s.generation++
		s.active = opts.SessionID
		s.transcript = nil
	}
	gen := s.generation
	req.SessionID = s.active
	s.transcript = append(s.transcript, models.ChatMessage{
		ID:           s.newID(),
		Role:         models.RoleUser,
		Content:      question,
		SourceChunks: []models.SourceChunk{},
		CreatedAt:    models.NewTimestamp(s.now()),
	})
	s.pending++
	s.mu.Unlock()
	s.hub.Emit(events.TranscriptChanged)
	s.hub.Emit(events.ChatStateChanged)

	reply, err := s.api.Chat(ctx, req)

	s.mu.Lock()
	s.pending--
	if gen != s.generation {
		s.mu.Unlock()
		s.hub.Emit(events.ChatStateChanged)
		s.log.Debug(ctx, "discarding chat reply for a conversation no longer active", "session", req.SessionID)
		if err != nil {
			return models.ChatReply{}, fmt.Errorf("send: %w", err)
		}
		return models.ChatReply{}, ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		s.hub.Emit(events.ChatStateChanged)
		return models.ChatReply{}, fmt.Errorf("send: %w", err)
	}

	if req.SessionID == "" && reply.SessionID != "" {
		s.active = reply.SessionID
	}
	sources := reply.Sources
	if sources == nil {
		sources = []models.SourceChunk{}
	}
	s.transcript = append(s.transcript, models.ChatMessage{
		ID:           s.newID(),
		Role:         models.RoleAssistant,
		Content:      reply.Answer,
		SourceChunks: sources,
		CreatedAt:    models.NewTimestamp(s.now()),
	})
	s.mu.Unlock()

	s.hub.Emit(events.TranscriptChanged)
	s.hub.Emit(events.ChatStateChanged)

	if _, err := s.ListSessions(ctx); err != nil {
		s.log.Warn(ctx, "refresh sessions after send", "error", err)
	}
	return reply, nil
}

// NewSession starts a fresh conversation locally. The server learns about
// it on the next Send.
func (s *chatService) NewSession() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.hub.Emit(events.TranscriptChanged)
}

func (s *chatService) DeleteSession(ctx context.Context, id string) error {
	if err := s.api.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	s.mu.Lock()
	s.deleted.bury(id, s.issuedList)
	s.sessions = slices.DeleteFunc(s.sessions, func(cs models.ChatSession) bool { return cs.ID == id })
	wasActive := s.active == id
	if wasActive {
		s.resetLocked()
	}
	s.mu.Unlock()

	s.hub.Emit(events.SessionsChanged)
	if wasActive {
		s.hub.Emit(events.TranscriptChanged)
	}
	return nil
}

func (s *chatService) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.issuedList++
	s.appliedList = s.issuedList
	s.sessions = nil
	s.deleted = newTombstones()
	s.mu.Unlock()

	s.hub.Emit(events.SessionsChanged)
	s.hub.Emit(events.TranscriptChanged)
}

func (s *chatService) resetLocked() {
	s.generation++
	s.active = ""
	s.transcript = nil
}

func (s *chatService) Sessions() []models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sessions)
}

func (s *chatService) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transcript)
}

func (s *chatService) ActiveSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *chatService) State() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending > 0 {
		return AwaitingResponse
	}
	return Idle
}
