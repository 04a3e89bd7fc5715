package lightclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValidator(t *testing.T, seed byte, power uint64) Validator {
	t.Helper()
	pk, err := NewEd25519PubKey(make32(seed))
	require.NoError(t, err)
	v, err := NewValidator(pk, power)
	require.NoError(t, err)
	return v
}

func make32(seed byte) []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = seed + byte(i)
	}
	return b
}

func TestNewValidatorSetDedupAndSort(t *testing.T) {
	v1 := mustValidator(t, 0x01, 10)
	v2 := mustValidator(t, 0x02, 20)
	dup := v1 // same address, different power shouldn't matter: first occurrence wins
	dup.VotingPower = 99

	set := NewValidatorSet([]Validator{v2, v1, dup})
	require.Equal(t, 2, set.Len())

	vals := set.Validators()
	assert.True(t, vals[0].Address.Less(vals[1].Address))

	kept, ok := set.Validator(v1.Address)
	require.True(t, ok)
	assert.Equal(t, uint64(10), kept.VotingPower)
}

func TestValidatorSetHashDeterministic(t *testing.T) {
	v1 := mustValidator(t, 0x01, 10)
	v2 := mustValidator(t, 0x02, 20)
	set1 := NewValidatorSet([]Validator{v1, v2})
	set2 := NewValidatorSet([]Validator{v2, v1})
	assert.Equal(t, set1.Hash(), set2.Hash())
}

func TestValidatorSetTotalPower(t *testing.T) {
	v1 := mustValidator(t, 0x01, 10)
	v2 := mustValidator(t, 0x02, 20)
	set := NewValidatorSet([]Validator{v1, v2})
	total, err := set.TotalPower()
	require.NoError(t, err)
	assert.Equal(t, uint64(30), total)
}

func TestValidatorSetTotalPowerOverflow(t *testing.T) {
	v1 := mustValidator(t, 0x01, 1<<63)
	v2 := mustValidator(t, 0x02, 1<<63)
	set := NewValidatorSet([]Validator{v1, v2})
	_, err := set.TotalPower()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestValidatorSetLookup(t *testing.T) {
	v1 := mustValidator(t, 0x01, 10)
	v2 := mustValidator(t, 0x02, 20)
	set := NewValidatorSet([]Validator{v1, v2})

	got, ok := set.Validator(v1.Address)
	require.True(t, ok)
	assert.Equal(t, v1.VotingPower, got.VotingPower)

	_, ok = set.Validator(AccountID{0xFF})
	assert.False(t, ok)
}

func TestValidatorSetIntersectKeepsLeftPower(t *testing.T) {
	v1 := mustValidator(t, 0x01, 10)
	v2 := mustValidator(t, 0x02, 20)
	v2Prime := v2
	v2Prime.VotingPower = 999

	left := NewValidatorSet([]Validator{v1, v2})
	right := NewValidatorSet([]Validator{v2Prime})

	overlap := left.Intersect(right)
	require.Equal(t, 1, overlap.Len())
	got, ok := overlap.Validator(v2.Address)
	require.True(t, ok)
	assert.Equal(t, uint64(20), got.VotingPower)
}

func TestValidatorVerifyAddress(t *testing.T) {
	v := mustValidator(t, 0x01, 10)
	assert.True(t, v.VerifyAddress())

	tampered := v
	tampered.Address = AccountID{0xFF}
	assert.False(t, tampered.VerifyAddress())
}
