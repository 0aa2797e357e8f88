package domain

import "errors"

// Errors shared by transports and the session layer.
var (
	ErrAlreadyConnected = errors.New("already connected")
	ErrPeerNotFound     = errors.New("peer not found")
	ErrLinkClosed       = errors.New("link closed")
)
