package store

import "time"

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Canvas struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   string    `json:"payload"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TabGroup struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
}

type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sentAt"`
}

type TerminalEntry struct {
	Body  string    `json:"body"`
	RanAt time.Time `json:"ranAt"`
}

// RoomState is the full hydration snapshot sent to a connection on join.
type RoomState struct {
	Room      Room            `json:"room"`
	Files     []File          `json:"files"`
	Canvases  []Canvas        `json:"canvases"`
	TabGroups []TabGroup      `json:"tabGroups"`
	Chat      []ChatMessage   `json:"chat"`
	Terminal  []TerminalEntry `json:"terminal"`
}
