package domain

import (
	"strings"
	"testing"
)

func TestNewIdentityValidatesDisplayName(t *testing.T) {
	if _, err := NewIdentity("u1", ""); err != ErrDisplayNameEmpty {
		t.Errorf("empty name: err = %v", err)
	}
	if _, err := NewIdentity("u1", strings.Repeat("x", MaxDisplayNameLen+1)); err != ErrDisplayNameTooLong {
		t.Errorf("long name: err = %v", err)
	}
	id, err := NewIdentity("u1", "Alice")
	if err != nil || id.DisplayName != "Alice" {
		t.Errorf("valid name: id = %v, err = %v", id, err)
	}
}

func TestGuestIdentity(t *testing.T) {
	id := GuestIdentity("abcdef123456")
	if !id.Guest {
		t.Error("guest flag not set")
	}
	if id.ID != "guest-abcdef123456" {
		t.Errorf("id = %q", id.ID)
	}
	if id.DisplayName != "Guest-abcdef" {
		t.Errorf("display name = %q, want short suffix", id.DisplayName)
	}

	short := GuestIdentity("ab")
	if short.DisplayName != "Guest-ab" {
		t.Errorf("short conn id: display name = %q", short.DisplayName)
	}
}
