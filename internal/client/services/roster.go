package services

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/agentfree/sessionkit/internal/client/models"
	"github.com/agentfree/sessionkit/internal/common"
	"gopkg.in/yaml.v3"
)

// Roster is the in-memory user list the mock service authenticates against.
// Accounts are only ever appended.
type Roster struct {
	mu       sync.RWMutex
	accounts []models.Account
}

func NewRoster(accounts ...models.Account) *Roster {
	return &Roster{accounts: append([]models.Account(nil), accounts...)}
}

// DefaultAccounts returns the two demo accounts: a customer and an attorney.
func DefaultAccounts(createdAt time.Time) []models.Account {
	return []models.Account{
		{
			User: models.User{
				ID:        "1",
				Username:  "manusrocks",
				Email:     "demo@agentfree.com",
				FirstName: "Demo",
				LastName:  "User",
				Role:      models.RoleCustomer,
				CreatedAt: createdAt,
			},
			Password: "thankyoumanus",
		},
		{
			User: models.User{
				ID:            "2",
				Username:      "attorney",
				Email:         "attorney@agentfree.com",
				FirstName:     "Sarah",
				LastName:      "Johnson",
				Role:          models.RoleAttorney,
				LicenseNumber: "CA-12345",
				CreatedAt:     createdAt,
			},
			Password: "thankyoumanus",
		},
	}
}

// Match finds the account whose username and password both match exactly.
func (r *Roster) Match(username, password string) (models.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == username && subtle.ConstantTimeCompare([]byte(a.Password), []byte(password)) == 1 {
			return a, true
		}
	}
	return models.Account{}, false
}

// ByEmail finds the first account registered with email.
func (r *Roster) ByEmail(email string) (models.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return a, true
		}
	}
	return models.Account{}, false
}

// Add appends a customer built from req. The id is the roster size after the
// append, matching how the web mock numbers users.
func (r *Roster) Add(req models.SignupRequest, createdAt time.Time) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Username == req.Username {
			return models.Account{}, common.ErrUsernameTaken
		}
	}

	acc := models.Account{
		User: models.User{
			ID:        strconv.Itoa(len(r.accounts) + 1),
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      models.RoleCustomer,
			Avatar:    nil,
			CreatedAt: createdAt,
		},
		Password: req.Password,
	}
	r.accounts = append(r.accounts, acc)
	return acc, nil
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// Accounts returns a snapshot of the roster.
func (r *Roster) Accounts() []models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Account(nil), r.accounts...)
}

type rosterFile struct {
	Users []models.Account `yaml:"users"`
}

// LoadRoster reads accounts from a YAML fixtures file:
//
//	users:
//	  - username: manusrocks
//	    password: thankyoumanus
//	    email: demo@agentfree.com
//	    role: customer
//
// Missing ids are numbered by position and missing creation times default to
// createdAt.
func LoadRoster(path string, createdAt time.Time) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(f.Users))
	for i := range f.Users {
		a := &f.Users[i]
		if a.Username == "" {
			return nil, fmt.Errorf("roster entry %d: username is required", i+1)
		}
		if _, dup := seen[a.Username]; dup {
			return nil, fmt.Errorf("roster entry %d: %w: %s", i+1, common.ErrUsernameTaken, a.Username)
		}
		seen[a.Username] = struct{}{}

		switch a.Role {
		case "":
			a.Role = models.RoleCustomer
		case models.RoleCustomer, models.RoleAttorney:
		default:
			return nil, fmt.Errorf("roster entry %d: unknown role %q", i+1, a.Role)
		}
		if a.ID == "" {
			a.ID = strconv.Itoa(i + 1)
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = createdAt
		}
	}

	return NewRoster(f.Users...), nil
}
