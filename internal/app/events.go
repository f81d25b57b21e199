package app

import "github.com/codehive/server/internal/domain"

// Server-originated lifecycle payloads. Mutation fan-out payloads live in the
// signal adapter; only events the supervisor itself emits are defined here.

type UserLeftEvent struct {
	Type    string          `json:"type"`
	User    domain.Member   `json:"user"`
	Members []domain.Member `json:"members"`
	HostID  domain.ConnID   `json:"hostId"`
}

type HostChangedEvent struct {
	Type     string        `json:"type"`
	HostID   domain.ConnID `json:"hostId"`
	HostName string        `json:"hostName,omitempty"`
}

type ChatToggledEvent struct {
	Type     string `json:"type"`
	Disabled bool   `json:"disabled"`
}

type SessionEndedEvent struct {
	Type string `json:"type"`
}

type KickedEvent struct {
	Type string `json:"type"`
}

type MutedEvent struct {
	Type  string `json:"type"`
	Muted bool   `json:"muted"`
}
