package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/layer-3/gatekeeper/core"
)

const addr = "0x8BA1F109551bD432803012645Ac136ddd64DBA72"

func TestResolveWalletStable(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	user, err := d.ResolveWallet(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, strings.ToLower(addr), user.Address)
	require.Equal(t, core.AuthMethodWallet, user.AuthMethod)
	require.NotEmpty(t, user.UserID)
}

func TestResolveWalletSameUser(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	first, err := d.ResolveWallet(ctx, addr)
	require.NoError(t, err)

	second, err := d.ResolveWallet(ctx, strings.ToLower(addr))
	require.NoError(t, err)
	require.Equal(t, first.UserID, second.UserID)
}

func TestLinkUnlinkWallet(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	owner, err := d.ResolveWallet(ctx, addr)
	require.NoError(t, err)

	extra := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	require.NoError(t, d.LinkWallet(ctx, owner.UserID, extra))

	// The linked address resolves to the same user.
	linked, err := d.ResolveWallet(ctx, extra)
	require.NoError(t, err)
	require.Equal(t, owner.UserID, linked.UserID)

	// Another user cannot claim it.
	other, err := d.ResolveWallet(ctx, "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")
	require.NoError(t, err)
	require.Error(t, d.LinkWallet(ctx, other.UserID, extra))

	require.NoError(t, d.UnlinkWallet(ctx, owner.UserID, extra))
	require.Error(t, d.UnlinkWallet(ctx, owner.UserID, extra))
}
