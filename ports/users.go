package ports

import (
	"context"

	"github.com/layer-3/gatekeeper/core"
)

// UserDirectory is the narrow interface to the external user-profile
// collaborator. The auth core resolves wallet addresses to user records and
// records wallet link/unlink operations through it; profile persistence
// itself lives outside this service.
type UserDirectory interface {
	// ResolveWallet returns the user owning the given address, creating a
	// record on first sign-in.
	ResolveWallet(ctx context.Context, address string) (core.User, error)

	// LinkWallet associates an additional address with the user.
	LinkWallet(ctx context.Context, userID, address string) error

	// UnlinkWallet removes an address association from the user.
	UnlinkWallet(ctx context.Context, userID, address string) error
}
