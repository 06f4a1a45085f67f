package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/docassist/internal/client/client"
)

type fakeExec struct {
	loggedIn bool
	failWith error

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }

func (f *fakeExec) Register(context.Context) error { f.loggedIn = true; return f.record("register") }
func (f *fakeExec) Login(context.Context) error    { f.loggedIn = true; return f.record("login") }
func (f *fakeExec) Logout(context.Context) error   { f.loggedIn = false; return f.record("logout") }
func (f *fakeExec) Me(context.Context) error       { return f.record("me") }
func (f *fakeExec) Go(_ context.Context, p string) error {
	return f.record("go " + p)
}

func (f *fakeExec) Documents(context.Context) error { return f.record("docs") }
func (f *fakeExec) Show(_ context.Context, id string) error {
	return f.record("show " + id)
}
func (f *fakeExec) Status(_ context.Context, id string) error {
	return f.record("status " + id)
}
func (f *fakeExec) Upload(_ context.Context, p string) error {
	return f.record("upload " + p)
}
func (f *fakeExec) Delete(_ context.Context, id string) error {
	return f.record("delete " + id)
}
func (f *fakeExec) Poll(context.Context) error     { return f.record("poll") }
func (f *fakeExec) Sessions(context.Context) error { return f.record("sessions") }
func (f *fakeExec) Open(_ context.Context, id string) error {
	return f.record("open " + id)
}
func (f *fakeExec) NewChat(context.Context) error { return f.record("new") }
func (f *fakeExec) Ask(_ context.Context, q string) error {
	return f.record("ask " + q)
}
func (f *fakeExec) RemoveSession(_ context.Context, id string) error {
	return f.record("rmsession " + id)
}

// capturePrintln records everything runREPL prints, minus the prompts.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := strings.TrimSpace(fmt.Sprintln(a...))
		if !strings.HasPrefix(s, "docassist") {
			lines = append(lines, s)
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func run(exec execIface, input ...string) {
	r := bufio.NewReader(strings.NewReader(strings.Join(input, "\n")))
	runREPL(context.Background(), exec, func() string { return "" }, r)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	run(exec,
		"login",
		"docs",
		"show d1",
		"status d1",
		"upload /tmp/my file.pdf",
		"delete d1",
		"poll",
		"sessions",
		"open s1",
		"new",
		"ask what is   in there?",
		"rmsession s1",
		"me",
		"go /chat",
		"logout",
		"exit",
		"docs",
	)

	assert.Equal(t, []string{
		"login", "docs", "show d1", "status d1", "upload /tmp/my file.pdf", "delete d1", "poll",
		"sessions", "open s1", "new", "ask what is in there?", "rmsession s1", "me", "go /chat", "logout",
	}, exec.calls)
}

func TestRunREPL_ProtectedCommandsNeedLogin(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	run(exec, "docs", "ask hi", "go /dashboard", "quit")

	assert.Equal(t, []string{"go /dashboard"}, exec.calls)
	assert.Equal(t, []string{
		"Please log in first (register | login).",
		"Please log in first (register | login).",
		"Bye!",
	}, *out)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	run(exec, "show", "upload", "frobnicate", "", "help")

	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{
		"Usage: show <document-id>",
		"Usage: upload <file>",
		"Unknown command: frobnicate",
		helpSignedIn,
	}, *out)
}

func TestRunREPL_HelpWhenSignedOut(t *testing.T) {
	out := capturePrintln(t)
	run(&fakeExec{}, "help")
	assert.Equal(t, []string{helpSignedOut}, *out)
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true, failWith: &client.APIError{Kind: client.ErrNotFound, Status: 404, Message: "document not found"}}
	run(exec, "show nope", "docs")

	assert.Equal(t, []string{"show nope", "docs"}, exec.calls)
	assert.Equal(t, []string{"Error: document not found", "Error: document not found"}, *out)
}
