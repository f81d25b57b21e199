package domain

// Cursor is the last known editor position of a connection. Overwritten on
// every update, never merged.
type Cursor struct {
	ConnID      ConnID `json:"socketId"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	FileID      string `json:"fileId,omitempty"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Selection   any    `json:"selection,omitempty"`
}

// VoiceParticipant is one entry in a room's voice roster.
type VoiceParticipant struct {
	PeerID      string `json:"peerId"`
	ConnID      ConnID `json:"socketId"`
	DisplayName string `json:"displayName"`
	Muted       bool   `json:"muted"`
}
