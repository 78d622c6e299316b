package services

import (
	"time"

	"github.com/agentfree/sessionkit/internal/client/models"
)

// EventType names a session lifecycle event.
type EventType string

const (
	EventLogin        EventType = "auth:login"
	EventLogout       EventType = "auth:logout"
	EventTokenRefresh EventType = "auth:token_refresh"
	EventError        EventType = "auth:error"
)

// Event is delivered to the handler registered with WithEventHandler after
// the operation that produced it has finished. User and Token are set for
// login and refresh; Op and Err for errors.
type Event struct {
	Type  EventType
	At    time.Time
	User  *models.User
	Token string
	Op    string
	Err   error
}
