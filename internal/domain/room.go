package domain

type (
	RoomID string
	ConnID string
)

// Member is the per-room participation snapshot sent in member lists.
type Member struct {
	ConnID      ConnID `json:"socketId"`
	UserID      UserID `json:"userId"`
	DisplayName string `json:"displayName"`
	Guest       bool   `json:"guest,omitempty"`
}

// Settings holds the session-wide toggles for a room. Ephemeral, lazily
// defaulted on first join and discarded when the room empties.
type Settings struct {
	ChatDisabled bool `json:"chatDisabled"`
}
