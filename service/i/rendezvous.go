package i

import (
	"context"

	"github.com/google/uuid"
)

// Rendezvous is the signaling directory peers use to find each other.
type Rendezvous interface {
	// Announce publishes the address a host can be reached at.
	Announce(ctx context.Context, host uuid.UUID, addr string) error

	// Lookup returns the address announced by host.
	Lookup(ctx context.Context, host uuid.UUID) (string, error)

	// Claim reserves host for client. A second client gets an error.
	Claim(ctx context.Context, host, client uuid.UUID) error

	// Withdraw removes the announcement and any claim.
	Withdraw(ctx context.Context, host uuid.UUID) error
}
