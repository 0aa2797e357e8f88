package i

import "github.com/google/uuid"

// LinkEventKind tells what happened on a link.
type LinkEventKind uint8

const (
	LinkListenFail  LinkEventKind = iota + 1 // Listening or announcing failed.
	LinkConnectFail                          // Dialing the host failed.
	LinkNewPeer                              // A peer completed the handshake.
	LinkData                                 // A payload arrived.
	LinkClosed                               // The peer left or the transport failed.
)

// LinkEvent is one update observed on a link.
type LinkEvent struct {
	Kind    LinkEventKind
	Peer    uuid.UUID
	Payload []byte
	Err     error
}

// Link is a point-to-point datagram channel. Setup happens in the background;
// its progress is only visible through Events.
type Link interface {
	// Send delivers a payload best effort. It never blocks on the network.
	Send([]byte) error

	// Events returns the updates queued since the last call, without blocking.
	Events() []LinkEvent

	// Close tears the link down immediately.
	Close() error
}

// Transport creates links between peers identified by UUID.
type Transport interface {
	// Listen makes local reachable and waits for one peer.
	Listen(local uuid.UUID) (Link, error)

	// Dial starts connecting local to the listening peer remote.
	Dial(local, remote uuid.UUID) (Link, error)
}
