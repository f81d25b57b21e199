package domain

// Client-originated event types.
const (
	EvJoinRoom         = "join-room"
	EvLeaveRoom        = "leave-room"
	EvCodeChange       = "code-change"
	EvFileCreate       = "file-create"
	EvFileDelete       = "file-delete"
	EvFileRename       = "file-rename"
	EvActiveFileChange = "active-file-change"
	EvCursorPosition   = "cursor-position"
	EvIntentUpdate     = "intent-update"
	EvTabGroupCreate   = "tab-group-create"
	EvTabGroupUpdate   = "tab-group-update"
	EvTabGroupDelete   = "tab-group-delete"
	EvCanvasObjectAdd  = "canvas-object-add"
	EvCanvasObjectMod  = "canvas-object-modify"
	EvCanvasObjectDel  = "canvas-object-delete"
	EvCanvasPathCreate = "canvas-path-create"
	EvCanvasFullSync   = "canvas-full-sync"
	EvCanvasFileCreate = "canvas-file-create"
	EvCanvasFileSwitch = "canvas-file-switch"
	EvChatMessage      = "chat-message"
	EvVoiceJoin        = "voice-join"
	EvVoiceLeave       = "voice-leave"
	EvVoiceMute        = "voice-mute"
	EvTerminalOutput   = "terminal-output"
	EvRequestCursors   = "request-cursors"
	EvHostKickUser     = "host-kick-user"
	EvHostMuteUser     = "host-mute-user"
	EvHostTransfer     = "host-transfer"
	EvHostToggleChat   = "host-toggle-chat"
	EvHostEndSession   = "host-end-session"
	EvPing             = "ping"
)

// Server-originated event types.
const (
	EvRoomState         = "room-state"
	EvUserJoined        = "user-joined"
	EvUserLeft          = "user-left"
	EvHostChanged       = "host-changed"
	EvChatToggled       = "chat-toggled"
	EvSessionEnded      = "session-ended"
	EvYouWereKicked     = "you-were-kicked"
	EvYouWereMuted      = "you-were-muted"
	EvHostError         = "host-error"
	EvVoiceParticipants = "voice-participants"
	EvVoiceUserJoined   = "voice-user-joined"
	EvVoiceUserLeft     = "voice-user-left"
	EvVoiceUserMuted    = "voice-user-muted"
	EvCursorsSnapshot   = "cursors-snapshot"
	EvPong              = "pong"
)
