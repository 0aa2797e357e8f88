package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchResult records the outcome of one finished game.
type MatchResult struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	LocalPeer    uuid.UUID `json:"local_peer" bson:"localPeer"`
	RemotePeer   uuid.UUID `json:"remote_peer,omitempty" bson:"remotePeer,omitempty"`
	Role         string    `json:"role" bson:"role"`
	Mode         string    `json:"mode" bson:"mode"`
	Round        uint32    `json:"round" bson:"round"`
	LocalSlot    string    `json:"local_slot" bson:"localSlot"`
	Winner       string    `json:"winner" bson:"winner"` // Slot name, "draw" or "" for solo games.
	Scores       []int     `json:"scores" bson:"scores"` // Indexed by slot.
	Ticks        uint64    `json:"ticks" bson:"ticks"`
	ConfigDigest string    `json:"config_digest" bson:"configDigest"`
	EndedAt      time.Time `json:"ended_at" bson:"endedAt"`
}
