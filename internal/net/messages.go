package net

import (
	"dungeon-delve/server/internal/sim"
)

// ProtocolVersion is bumped whenever a wire message changes shape.
const ProtocolVersion = 1

// clientMessage is the union of everything a client may send. Type selects
// which fields matter.
type clientMessage struct {
	Ver    int            `json:"ver,omitempty"`
	Type   string         `json:"type"`
	Input  sim.InputState `json:"input"`
	SentAt int64          `json:"sentAt"`
}

// joinedMessage acknowledges a new session over HTTP. The initial snapshot
// lets the client draw the menu before the websocket is up.
type joinedMessage struct {
	Ver       int          `json:"ver"`
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	TickRate  int          `json:"tickRate"`
	Snapshot  sim.Snapshot `json:"snapshot"`
}

// stateMessage carries one simulation snapshot.
type stateMessage struct {
	Ver        int          `json:"ver"`
	Type       string       `json:"type"`
	ServerTime int64        `json:"serverTime"`
	Snapshot   sim.Snapshot `json:"snapshot"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}

// tauntMessage delivers boss flavor text. Epoch lets the client drop lines
// generated for a run it has already left.
type tauntMessage struct {
	Ver   int    `json:"ver"`
	Type  string `json:"type"`
	Epoch uint64 `json:"epoch"`
	Text  string `json:"text"`
}
