package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/docassist/internal/client/events"
	"github.com/dmitrijs2005/docassist/internal/client/models"
)

// ---- auth ----

type fakeAuthAPI struct {
	mu sync.Mutex

	RegisterRet models.CredentialPair
	RegisterErr error
	LoginRet    models.CredentialPair
	LoginErr    error
	RefreshRet  models.CredentialPair
	RefreshErr  error

	// RefreshFn and CurrentUserFn override the static results when set.
	RefreshFn      func(ctx context.Context, token string) (models.CredentialPair, error)
	CurrentUserFn  func(ctx context.Context) (models.User, error)
	CurrentUserRet models.User
	CurrentUserErr error

	LastRegister     models.RegisterRequest
	LastLogin        models.LoginRequest
	LastRefreshToken string
	Calls            int
}

func (f *fakeAuthAPI) Register(_ context.Context, req models.RegisterRequest) (models.CredentialPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAuthAPI) Login(_ context.Context, req models.LoginRequest) (models.CredentialPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastLogin = req
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthAPI) Refresh(ctx context.Context, token string) (models.CredentialPair, error) {
	f.mu.Lock()
	fn := f.RefreshFn
	f.Calls++
	f.LastRefreshToken = token
	p, err := f.RefreshRet, f.RefreshErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, token)
	}
	return p, err
}

func (f *fakeAuthAPI) CurrentUser(ctx context.Context) (models.User, error) {
	f.mu.Lock()
	fn := f.CurrentUserFn
	f.Calls++
	u, err := f.CurrentUserRet, f.CurrentUserErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return u, err
}

// ---- documents ----

type fakeDocAPI struct {
	mu sync.Mutex

	ListFn   func(ctx context.Context) ([]models.Document, error)
	GetFn    func(ctx context.Context, id string) (models.Document, error)
	StatusFn func(ctx context.Context, id string) (models.DocumentStatusInfo, error)

	UploadRet models.Document
	UploadErr error
	DeleteErr error

	LastUpload  models.UploadRequest
	UploadCalls int
	Deleted     []string
}

func (f *fakeDocAPI) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return f.ListFn(ctx)
}

func (f *fakeDocAPI) GetDocument(ctx context.Context, id string) (models.Document, error) {
	return f.GetFn(ctx, id)
}

func (f *fakeDocAPI) DocumentStatus(ctx context.Context, id string) (models.DocumentStatusInfo, error) {
	return f.StatusFn(ctx, id)
}

func (f *fakeDocAPI) UploadDocument(_ context.Context, req models.UploadRequest) (models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UploadCalls++
	f.LastUpload = req
	return f.UploadRet, f.UploadErr
}

func (f *fakeDocAPI) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, id)
	return nil
}

// ---- chat ----

type fakeChatAPI struct {
	mu sync.Mutex

	ChatFn     func(ctx context.Context, req models.ChatRequest) (models.ChatReply, error)
	MessagesFn func(ctx context.Context, id string) ([]models.ChatMessage, error)

	ListFn    func(ctx context.Context) ([]models.ChatSession, error)
	DeleteErr error

	Requests  []models.ChatRequest
	ListCalls int
}

func (f *fakeChatAPI) Chat(ctx context.Context, req models.ChatRequest) (models.ChatReply, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	fn := f.ChatFn
	f.mu.Unlock()
	return fn(ctx, req)
}

func (f *fakeChatAPI) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	f.mu.Lock()
	f.ListCalls++
	fn := f.ListFn
	f.mu.Unlock()
	if fn == nil {
		return []models.ChatSession{}, nil
	}
	return fn(ctx)
}

func (f *fakeChatAPI) SessionMessages(ctx context.Context, id string) ([]models.ChatMessage, error) {
	return f.MessagesFn(ctx, id)
}

func (f *fakeChatAPI) DeleteSession(_ context.Context, id string) error {
	return f.DeleteErr
}

func (f *fakeChatAPI) lastRequest() models.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Requests[len(f.Requests)-1]
}

// ---- events ----

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func record(h *events.Hub) *recorder {
	r := &recorder{}
	h.Subscribe(func(e events.Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) has(e events.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.events {
		if got == e {
			return true
		}
	}
	return false
}
