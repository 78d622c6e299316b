package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentfree/sessionkit/internal/client/models"
	"github.com/agentfree/sessionkit/internal/client/repositories/kv"
	"github.com/agentfree/sessionkit/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefaultAccounts(t *testing.T) {
	accs := DefaultAccounts(fixedNow)
	require.Len(t, accs, 2)

	assert.Equal(t, "manusrocks", accs[0].Username)
	assert.Equal(t, "demo@agentfree.com", accs[0].Email)
	assert.Equal(t, models.RoleCustomer, accs[0].Role)
	assert.Empty(t, accs[0].LicenseNumber)

	assert.Equal(t, "attorney", accs[1].Username)
	assert.Equal(t, models.RoleAttorney, accs[1].Role)
	assert.Equal(t, "CA-12345", accs[1].LicenseNumber)

	for _, a := range accs {
		assert.Equal(t, "thankyoumanus", a.Password)
		assert.Equal(t, fixedNow, a.CreatedAt)
	}
}

func TestRoster_AddAssignsSequentialIDs(t *testing.T) {
	r := NewRoster(DefaultAccounts(fixedNow)...)

	a, err := r.Add(models.SignupRequest{Username: "a", Password: "x"}, fixedNow)
	require.NoError(t, err)
	b, err := r.Add(models.SignupRequest{Username: "b", Password: "x"}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "3", a.ID)
	assert.Equal(t, "4", b.ID)
	assert.Equal(t, 4, r.Len())

	_, err = r.Add(models.SignupRequest{Username: "a"}, fixedNow)
	require.ErrorIs(t, err, common.ErrUsernameTaken)
	assert.Equal(t, 4, r.Len())
}

func TestRoster_ByEmail(t *testing.T) {
	r := NewRoster(DefaultAccounts(fixedNow)...)

	acc, ok := r.ByEmail("attorney@agentfree.com")
	require.True(t, ok)
	assert.Equal(t, "2", acc.ID)

	_, ok = r.ByEmail("ATTORNEY@agentfree.com")
	assert.False(t, ok)
}

func TestRoster_AccountsIsSnapshot(t *testing.T) {
	r := NewRoster(DefaultAccounts(fixedNow)...)
	snap := r.Accounts()
	snap[0].Username = "changed"

	_, ok := r.Match("manusrocks", "thankyoumanus")
	assert.True(t, ok)
}

func TestLoadRoster_OK(t *testing.T) {
	p := writeRoster(t, `
users:
  - username: alice
    password: pw1
    email: alice@example.com
    firstName: Alice
    lastName: Smith
  - id: "42"
    username: bob
    password: pw2
    email: bob@example.com
    role: attorney
    licenseNumber: NY-1
    avatar: https://example.com/bob.png
    createdAt: 2024-01-02T03:04:05Z
`)

	r, err := LoadRoster(p, fixedNow)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	alice, ok := r.Match("alice", "pw1")
	require.True(t, ok)
	assert.Equal(t, "1", alice.ID)
	assert.Equal(t, models.RoleCustomer, alice.Role)
	assert.Equal(t, fixedNow, alice.CreatedAt)
	assert.Nil(t, alice.Avatar)

	bob, ok := r.Match("bob", "pw2")
	require.True(t, ok)
	assert.Equal(t, "42", bob.ID)
	assert.Equal(t, models.RoleAttorney, bob.Role)
	assert.Equal(t, "NY-1", bob.LicenseNumber)
	require.NotNil(t, bob.Avatar)
	assert.Equal(t, "https://example.com/bob.png", *bob.Avatar)
	assert.Equal(t, 2024, bob.CreatedAt.Year())
}

func TestLoadRoster_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "users: [", "parse roster"},
		{"missing username", "users:\n  - password: x\n", "username is required"},
		{"duplicate", "users:\n  - username: a\n  - username: a\n", "username already exists: a"},
		{"unknown role", "users:\n  - username: a\n    role: admin\n", `unknown role "admin"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRoster(writeRoster(t, tt.body), fixedNow)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRoster_MissingFile(t *testing.T) {
	_, err := LoadRoster(filepath.Join(t.TempDir(), "nope.yaml"), fixedNow)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSessionService_WithLoadedRoster(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, "users:\n  - username: carol\n    password: pw\n    email: carol@example.com\n"), fixedNow)
	require.NoError(t, err)

	svc, _ := newService(t, kv.NewMemoryStore(), WithRoster(r))
	res, err := svc.Login(t.Context(), "carol", "pw")
	require.NoError(t, err)
	assert.Equal(t, "1", res.User.ID)

	_, err = svc.Login(t.Context(), "manusrocks", "thankyoumanus")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}
