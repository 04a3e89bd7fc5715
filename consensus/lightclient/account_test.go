package lightclient

import (
	"crypto/ed25519"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountIDFromEd25519PubKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	pk, err := NewEd25519PubKey(pub)
	require.NoError(t, err)

	id, err := AccountIDFromPubKey(pk)
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	id2, err := AccountIDFromPubKey(pk)
	require.NoError(t, err)
	assert.Equal(t, id, id2)
}

func TestAccountIDFromSecp256k1PubKey(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pk, err := NewSecp256k1PubKey(priv.PubKey().SerializeCompressed())
	require.NoError(t, err)

	id, err := AccountIDFromPubKey(pk)
	require.NoError(t, err)
	assert.False(t, id.IsZero())
}

func TestAccountIDHexRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	pk, err := NewEd25519PubKey(pub)
	require.NoError(t, err)
	id, err := AccountIDFromPubKey(pk)
	require.NoError(t, err)

	parsed, err := ParseAccountID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestAccountIDLess(t *testing.T) {
	a := AccountID{0x01}
	b := AccountID{0x02}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}
