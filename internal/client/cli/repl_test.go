package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubShell struct {
	user  bool
	calls []string
}

func (s *stubShell) record(call string) error {
	s.calls = append(s.calls, call)
	return nil
}

func (s *stubShell) loggedIn() bool { return s.user }
func (s *stubShell) Register(context.Context) error { return s.record("register") }
func (s *stubShell) Login(context.Context) error { return s.record("login") }
func (s *stubShell) Logout(context.Context) error { return s.record("logout") }
func (s *stubShell) Search(_ context.Context, q string) error { return s.record("search:" + q) }
func (s *stubShell) Page(_ context.Context, n int) error { return s.record(fmt.Sprintf("page:%d", n)) }
func (s *stubShell) Next(context.Context) error { return s.record("next") }
func (s *stubShell) Prev(context.Context) error { return s.record("prev") }
func (s *stubShell) Show(context.Context) error { return s.record("show") }
func (s *stubShell) Save(_ context.Context, id string) error { return s.record("save:" + id) }
func (s *stubShell) Remove(_ context.Context, id string) error {
	return s.record("remove:" + id)
}
func (s *stubShell) Saved(context.Context) error { return s.record("saved") }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	t.Cleanup(func() { printlnFn = old })
	printlnFn = func(a ...interface{}) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	capturePrintln(t)
	s := &stubShell{}
	input := strings.Join([]string{
		"search frank herbert",
		"page 3",
		"next",
		"prev",
		"show",
		"save abc123",
		"remove abc123",
		"saved",
		"register",
		"login",
		"logout",
		"",
		"exit",
		"show",
	}, "\n") + "\n"

	runREPL(context.Background(), s, func() string { return "guest" }, rdr(input))

	assert.Equal(t, []string{
		"search:frank herbert",
		"page:3",
		"next",
		"prev",
		"show",
		"save:abc123",
		"remove:abc123",
		"saved",
		"register",
		"login",
		"logout",
	}, s.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	lines := capturePrintln(t)
	s := &stubShell{}

	runREPL(context.Background(), s, func() string { return "guest" }, rdr("page two\nsave\nremove a b\nfly\nquit\n"))

	assert.Empty(t, s.calls)
	assert.Contains(t, *lines, "Usage: page <n>")
	assert.Contains(t, *lines, "Usage: save <bookId>")
	assert.Contains(t, *lines, "Usage: remove <bookId>")
	assert.Contains(t, *lines, "Unknown command: fly")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := capturePrintln(t)

	runREPL(context.Background(), &stubShell{}, func() string { return "guest" }, rdr("help\n"))
	assert.Contains(t, *lines, helpGuest)

	runREPL(context.Background(), &stubShell{user: true}, func() string { return "reader" }, rdr("help\n"))
	assert.Contains(t, *lines, helpUser)
	assert.Contains(t, *lines, "navigator [reader] >")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)
	s := &stubShell{}

	runREPL(context.Background(), s, func() string { return "guest" }, rdr("saved"))
	assert.Equal(t, []string{"saved"}, s.calls)
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	capturePrintln(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &stubShell{}

	runREPL(ctx, s, func() string { return "guest" }, rdr("saved\n"))
	assert.Empty(t, s.calls)
}
