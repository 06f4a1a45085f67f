package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docassist/internal/client/guard"
	"github.com/dmitrijs2005/docassist/internal/client/services"
)

// Sessions refreshes and prints the conversation list.
func (a *App) Sessions(ctx context.Context) error {
	sessions, err := a.chat.ListSessions(ctx)
	if err != nil {
		return err
	}
	a.outMu.Lock()
	defer a.outMu.Unlock()
	renderSessions(a.out, sessions, a.chat.ActiveSessionID())
	return nil
}

// Open makes a conversation active and prints its transcript.
func (a *App) Open(ctx context.Context, id string) error {
	a.setPath(guard.PathChat, nil)
	msgs, err := a.chat.OpenSession(ctx, id)
	if err != nil {
		return err
	}
	a.outMu.Lock()
	defer a.outMu.Unlock()
	renderTranscript(a.out, msgs)
	return nil
}

// NewChat starts a fresh conversation.
func (a *App) NewChat(context.Context) error {
	a.chat.NewSession()
	a.printf("Started a new conversation.\n")
	return nil
}

// Ask sends a question in the active conversation. Without a question on
// the command line it is read from the prompt. On a document's page the
// question is scoped to that document.
func (a *App) Ask(ctx context.Context, question string) error {
	if strings.TrimSpace(question) == "" {
		q, err := getMultiline(a.reader, "Your question", a.out)
		if err != nil {
			return err
		}
		question = q
	}

	reply, err := a.chat.Send(ctx, question, services.SendOptions{DocumentID: a.currentDocumentID()})
	if err != nil {
		return err
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, "%s: %s\n", bold.Sprint("assistant"), reply.Answer)
	renderSources(a.out, reply.Sources)
	return nil
}

// RemoveSession deletes a conversation.
func (a *App) RemoveSession(ctx context.Context, id string) error {
	if err := a.chat.DeleteSession(ctx, id); err != nil {
		return err
	}
	a.printf("Deleted conversation %s\n", id)
	return nil
}
