package domain

import "github.com/google/uuid"

// SessionStatus is the externally observable state of the local peer.
type SessionStatus struct {
	PeerID     uuid.UUID `json:"peer_id"`
	State      string    `json:"state"` // disconnected, awaiting-peer or connected.
	Role       string    `json:"role,omitempty"`
	RemotePeer uuid.UUID `json:"remote_peer,omitempty"`
	Phase      string    `json:"phase"`
	Round      uint32    `json:"round"`
	Tick       uint64    `json:"tick"`
	RTTMillis  int64     `json:"rtt_ms"`
	TickRate   float64   `json:"tick_rate"`
	Dropped    uint64    `json:"dropped_frames"`
}
