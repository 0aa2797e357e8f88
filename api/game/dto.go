// Package gameapi provides the request and response bodies of the game routes.
package gameapi

import "github.com/beka-birhanu/snake-duel/game"

// SteerRequest sets the local heading for the next tick.
type SteerRequest struct {
	Direction string `json:"direction" binding:"required"` // up, down, left or right.
}

// SnakeResponse is one snake with its heading spelled out.
type SnakeResponse struct {
	Slot      string       `json:"slot"`
	Cells     []game.Point `json:"cells"`
	Direction string       `json:"direction"`
	Alive     bool         `json:"alive"`
	Score     int          `json:"score"`
	Length    int          `json:"length"`
}

// SnapshotResponse is the board as seen by the local peer.
type SnapshotResponse struct {
	Tick      uint64          `json:"tick"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Mode      string          `json:"mode"`
	LocalSlot string          `json:"local_slot"`
	Snakes    []SnakeResponse `json:"snakes"`
	Food      []game.Food     `json:"food"`
	Over      bool            `json:"over"`
	Winner    string          `json:"winner,omitempty"`
	Checksum  string          `json:"checksum"`
}
