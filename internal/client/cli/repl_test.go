package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	failOn   string

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Signup(ctx context.Context) error {
	f.loggedIn = true
	return f.record("signup")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(ctx context.Context) error        { return f.record("whoami") }
func (f *fakeExec) Refresh(ctx context.Context) error       { return f.record("refresh") }
func (f *fakeExec) ResetPassword(ctx context.Context) error { return f.record("reset") }
func (f *fakeExec) Status(ctx context.Context) error        { return f.record("status") }
func (f *fakeExec) ShowToken(ctx context.Context) error     { return f.record("token") }
func (f *fakeExec) Endpoints(ctx context.Context) error     { return f.record("endpoints") }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	lines := capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"whoami",
		"me",
		"refresh",
		"",
		"status",
		"token",
		"endpoints",
		"logout",
		"signup",
		"reset",
		"foobar",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "whoami", "whoami", "refresh", "status", "token", "endpoints", "logout", "signup", "reset",
	}, exec.calls)
	assert.Contains(t, *lines, "Available commands: login, signup, reset, whoami, status, token, endpoints, exit")
	assert.Contains(t, *lines, "Available commands: whoami, refresh, status, token, endpoints, logout, exit")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}

func TestRunREPL_PrintsHandlerErrorsAndContinues(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{failOn: "refresh"}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("refresh\nstatus\nquit\n")))

	require.Equal(t, []string{"refresh", "status"}, exec.calls)
	assert.Contains(t, *lines, "Error: refresh failed")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("status")))

	assert.Equal(t, []string{"status"}, exec.calls)
}
