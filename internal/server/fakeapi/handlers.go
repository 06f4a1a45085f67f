package fakeapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/common"
	"github.com/dmitrijs2005/docassist/internal/server/auth"
)

type registerBody struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=2"`
}

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type chatBody struct {
	Question   string `json:"question" binding:"required"`
	DocumentID string `json:"documentId"`
	SessionID  string `json:"sessionId"`
}

// ---- auth ----

func (s *Server) register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid registration: "+err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "hash password")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		fail(c, http.StatusConflict, "email already registered")
		return
	}
	u := &user{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			FullName:  body.FullName,
			CreatedAt: models.NewTimestamp(s.now()),
		},
		passwordHash: hash,
	}
	s.users[email] = u
	s.mu.Unlock()

	s.log.Info(c.Request.Context(), "user registered", "user", u.ID)
	s.issuePair(c, http.StatusCreated, u.ID)
}

func (s *Server) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid login request")
		return
	}

	s.mu.Lock()
	u, exists := s.users[strings.ToLower(strings.TrimSpace(body.Email))]
	s.mu.Unlock()

	if !exists || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(body.Password)) != nil {
		fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	s.issuePair(c, http.StatusOK, u.ID)
}

func (s *Server) refresh(c *gin.Context) {
	var body refreshBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "refresh token required")
		return
	}
	userID, err := s.tokens.UserID(body.RefreshToken, auth.Refresh)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	s.issuePair(c, http.StatusOK, userID)
}

func (s *Server) issuePair(c *gin.Context, status int, userID string) {
	access, err := s.tokens.GenerateToken(userID, auth.Access, s.cfg.AccessTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, "issue token")
		return
	}
	refresh, err := s.tokens.GenerateToken(userID, auth.Refresh, s.cfg.RefreshTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, "issue token")
		return
	}
	succeed(c, status, models.CredentialPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    strings.TrimSpace(common.BearerPrefix),
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	})
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	u, _ := s.userByID(currentUserID(c))
	s.mu.Unlock()
	succeed(c, http.StatusOK, u.User)
}

// userByID is called with s.mu held.
func (s *Server) userByID(id string) (*user, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// ---- documents ----

func (s *Server) listDocuments(c *gin.Context) {
	owner := currentUserID(c)

	s.mu.Lock()
	out := []models.Document{}
	for _, d := range s.docs {
		if d.owner == owner {
			out = append(out, d.Document)
		}
	}
	s.mu.Unlock()

	succeed(c, http.StatusOK, out)
}

func (s *Server) uploadDocument(c *gin.Context) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+1<<20)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		fail(c, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	if s.cfg.MaxUploadBytes > 0 && fh.Size > s.cfg.MaxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxUploadBytes))
		return
	}
	if fh.Size == 0 {
		fail(c, http.StatusBadRequest, "file is empty")
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "read upload")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		fail(c, http.StatusBadRequest, "read upload")
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	d := &document{
		Document: models.Document{
			ID:          uuid.NewString(),
			Filename:    fh.Filename,
			ContentType: contentType,
			FileSize:    fh.Size,
			Status:      models.StatusUploading,
			CreatedAt:   models.NewTimestamp(s.now()),
		},
		owner:   currentUserID(c),
		content: content,
	}

	s.mu.Lock()
	s.docs = append(s.docs, d)
	s.mu.Unlock()

	s.log.Info(c.Request.Context(), "document uploaded", "id", d.ID, "size", d.FileSize)
	succeed(c, http.StatusCreated, d.Document)
}

// findDocument is called with s.mu held.
func (s *Server) findDocument(c *gin.Context) (*document, int) {
	owner, id := currentUserID(c), c.Param("id")
	i := slices.IndexFunc(s.docs, func(d *document) bool { return d.ID == id && d.owner == owner })
	if i < 0 {
		return nil, -1
	}
	return s.docs[i], i
}

func (s *Server) getDocument(c *gin.Context) {
	s.mu.Lock()
	d, _ := s.findDocument(c)
	var out models.Document
	if d != nil {
		out = d.Document
	}
	s.mu.Unlock()

	if d == nil {
		fail(c, http.StatusNotFound, "document not found")
		return
	}
	succeed(c, http.StatusOK, out)
}

func (s *Server) documentStatus(c *gin.Context) {
	s.mu.Lock()
	d, _ := s.findDocument(c)
	var out models.DocumentStatusInfo
	if d != nil {
		out = models.DocumentStatusInfo{ID: d.ID, Status: d.Status, ChunkCount: d.ChunkCount}
	}
	s.mu.Unlock()

	if d == nil {
		fail(c, http.StatusNotFound, "document not found")
		return
	}
	succeed(c, http.StatusOK, out)
}

func (s *Server) deleteDocument(c *gin.Context) {
	s.mu.Lock()
	_, i := s.findDocument(c)
	if i >= 0 {
		s.docs = slices.Delete(s.docs, i, i+1)
	}
	s.mu.Unlock()

	if i < 0 {
		fail(c, http.StatusNotFound, "document not found")
		return
	}
	succeed(c, http.StatusOK, nil)
}

// ---- chat ----

func (s *Server) chat(c *gin.Context) {
	var body chatBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Question) == "" {
		fail(c, http.StatusBadRequest, "question is required")
		return
	}
	owner := currentUserID(c)
	now := models.NewTimestamp(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	var sess *session
	if body.SessionID != "" {
		i := slices.IndexFunc(s.sessions, func(cs *session) bool { return cs.ID == body.SessionID && cs.owner == owner })
		if i < 0 {
			fail(c, http.StatusNotFound, "session not found")
			return
		}
		sess = s.sessions[i]
	} else {
		sess = &session{
			ChatSession: models.ChatSession{
				ID:         uuid.NewString(),
				DocumentID: body.DocumentID,
				Title:      title(body.Question),
				CreatedAt:  now,
			},
			owner: owner,
		}
		s.sessions = append(s.sessions, sess)
	}

	sources := s.sourcesLocked(owner, body.DocumentID)
	answer := fmt.Sprintf("Based on %d source(s): %s", len(sources), body.Question)

	sess.messages = append(sess.messages,
		models.ChatMessage{ID: uuid.NewString(), Role: models.RoleUser, Content: body.Question, SourceChunks: []models.SourceChunk{}, CreatedAt: now},
		models.ChatMessage{ID: uuid.NewString(), Role: models.RoleAssistant, Content: answer, SourceChunks: sources, CreatedAt: now},
	)
	sess.MessageCount = len(sess.messages)

	succeed(c, http.StatusOK, models.ChatReply{SessionID: sess.ID, Answer: answer, Sources: sources})
}

// sourcesLocked cites the first chunk of up to three ready documents.
func (s *Server) sourcesLocked(owner, documentID string) []models.SourceChunk {
	out := []models.SourceChunk{}
	for _, d := range s.docs {
		if len(out) == 3 {
			break
		}
		if d.owner != owner || d.Status != models.StatusReady {
			continue
		}
		if documentID != "" && d.ID != documentID {
			continue
		}
		excerpt := string(d.content)
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		out = append(out, models.SourceChunk{
			ChunkID:    d.ID + "-0",
			DocumentID: d.ID,
			Content:    excerpt,
			Score:      1 / float64(len(out)+1),
		})
	}
	return out
}

func (s *Server) listSessions(c *gin.Context) {
	owner := currentUserID(c)

	s.mu.Lock()
	out := []models.ChatSession{}
	for _, cs := range s.sessions {
		if cs.owner == owner {
			out = append(out, cs.ChatSession)
		}
	}
	s.mu.Unlock()

	succeed(c, http.StatusOK, out)
}

func (s *Server) sessionMessages(c *gin.Context) {
	owner, id := currentUserID(c), c.Param("id")

	s.mu.Lock()
	i := slices.IndexFunc(s.sessions, func(cs *session) bool { return cs.ID == id && cs.owner == owner })
	var out []models.ChatMessage
	if i >= 0 {
		out = slices.Clone(s.sessions[i].messages)
	}
	s.mu.Unlock()

	if i < 0 {
		fail(c, http.StatusNotFound, "session not found")
		return
	}
	if out == nil {
		out = []models.ChatMessage{}
	}
	succeed(c, http.StatusOK, out)
}

func (s *Server) deleteSession(c *gin.Context) {
	owner, id := currentUserID(c), c.Param("id")

	s.mu.Lock()
	i := slices.IndexFunc(s.sessions, func(cs *session) bool { return cs.ID == id && cs.owner == owner })
	if i >= 0 {
		s.sessions = slices.Delete(s.sessions, i, i+1)
	}
	s.mu.Unlock()

	if i < 0 {
		fail(c, http.StatusNotFound, "session not found")
		return
	}
	succeed(c, http.StatusOK, nil)
}

func title(q string) string {
	q = strings.TrimSpace(q)
	if r := []rune(q); len(r) > 40 {
		return string(r[:40]) + "..."
	}
	return q
}

func failing(filename string) bool {
	return strings.Contains(strings.ToLower(filename), "fail")
}
