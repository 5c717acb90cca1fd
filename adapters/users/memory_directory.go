package users

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/layer-3/gatekeeper/core"
)

// MemoryDirectory is an in-memory ports.UserDirectory for single-instance
// deployments and tests. Production deployments point the same interface at
// the external profile service instead.
type MemoryDirectory struct {
	mu      sync.RWMutex
	byAddr  map[string]string   // address -> userID
	wallets map[string][]string // userID -> addresses
}

// NewMemoryDirectory creates an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byAddr:  make(map[string]string),
		wallets: make(map[string][]string),
	}
}

// ResolveWallet returns the user owning the address, creating a record on
// first sign-in.
func (d *MemoryDirectory) ResolveWallet(ctx context.Context, address string) (core.User, error) {
	addr := strings.ToLower(address)

	d.mu.Lock()
	defer d.mu.Unlock()

	userID, ok := d.byAddr[addr]
	if !ok {
		userID = uuid.New().String()
		d.byAddr[addr] = userID
		d.wallets[userID] = []string{addr}
	}

	return core.User{
		Address:    addr,
		UserID:     userID,
		AuthMethod: core.AuthMethodWallet,
	}, nil
}

// LinkWallet associates an additional address with the user.
func (d *MemoryDirectory) LinkWallet(ctx context.Context, userID, address string) error {
	addr := strings.ToLower(address)

	d.mu.Lock()
	defer d.mu.Unlock()

	if owner, ok := d.byAddr[addr]; ok && owner != userID {
		return fmt.Errorf("address %s already linked to another user", addr)
	}

	d.byAddr[addr] = userID
	for _, existing := range d.wallets[userID] {
		if existing == addr {
			return nil
		}
	}
	d.wallets[userID] = append(d.wallets[userID], addr)
	return nil
}

// UnlinkWallet removes an address association from the user.
func (d *MemoryDirectory) UnlinkWallet(ctx context.Context, userID, address string) error {
	addr := strings.ToLower(address)

	d.mu.Lock()
	defer d.mu.Unlock()

	if owner, ok := d.byAddr[addr]; !ok || owner != userID {
		return fmt.Errorf("address %s is not linked to user %s", addr, userID)
	}

	delete(d.byAddr, addr)
	linked := d.wallets[userID]
	for i, existing := range linked {
		if existing == addr {
			d.wallets[userID] = append(linked[:i], linked[i+1:]...)
			break
		}
	}
	return nil
}
