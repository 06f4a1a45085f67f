package models

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

// SourceChunk is an excerpt of a document cited as evidence for an answer.
type SourceChunk struct {
	ChunkID    string  `json:"chunkId"`
	DocumentID string  `json:"documentId"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// ChatMessage is one entry of a session transcript. SourceChunks is only
// populated on assistant messages.
type ChatMessage struct {
	ID           string        `json:"id"`
	Role         Role          `json:"role"`
	Content      string        `json:"content"`
	SourceChunks []SourceChunk `json:"sourceChunks"`
	CreatedAt    Timestamp     `json:"createdAt"`
}

// ChatSession summarises a conversation. DocumentID is empty for
// conversations over the whole library.
type ChatSession struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"documentId,omitempty"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// ChatRequest is the body of POST /api/ai/chat. An empty SessionID starts a
// new conversation; the server assigns the id and returns it in ChatReply.
type ChatRequest struct {
	Question   string `json:"question" validate:"required"`
	DocumentID string `json:"documentId,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
}

// ChatReply is the answer to a ChatRequest.
type ChatReply struct {
	SessionID string        `json:"sessionId"`
	Answer    string        `json:"answer"`
	Sources   []SourceChunk `json:"sources"`
}
