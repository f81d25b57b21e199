// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"fmt"
)

const MaxDisplayNameLen = 36

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

type UserID string

// Identity is the verified (or synthesized) principal behind a connection.
type Identity struct {
	ID          UserID `json:"id"`
	DisplayName string `json:"displayName"`
	Guest       bool   `json:"guest,omitempty"`
}

// NewIdentity avoids ad-hoc struct literals in adapters.
func NewIdentity(id UserID, displayName string) (Identity, error) {
	if len(displayName) == 0 {
		return Identity{}, ErrDisplayNameEmpty
	}
	if len(displayName) > MaxDisplayNameLen {
		return Identity{}, ErrDisplayNameTooLong
	}
	return Identity{ID: id, DisplayName: displayName}, nil
}

// GuestIdentity synthesizes a principal for an unauthenticated connection.
// The short id keeps the display name readable in member lists.
func GuestIdentity(connID ConnID) Identity {
	short := string(connID)
	if len(short) > 6 {
		short = short[:6]
	}
	return Identity{
		ID:          UserID("guest-" + string(connID)),
		DisplayName: "Guest-" + short,
		Guest:       true,
	}
}

func (i Identity) String() string {
	return fmt.Sprintf("%s(%s)", i.DisplayName, i.ID)
}
