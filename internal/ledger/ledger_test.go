package ledger

import (
	"math/rand"
	"testing"

	"DiamondQuest/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToZero(t *testing.T) {
	tests := []struct {
		name   string
		stored *string
	}{
		{"absent", nil},
		{"garbage", strptr("lots")},
		{"negative", strptr("-5")},
		{"empty", strptr("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, s.Set(storage.KeyBalance, *tt.stored))
			}
			assert.Equal(t, int64(0), New(s).Balance())
		})
	}
}

func TestNew_LoadsPersistedBalance(t *testing.T) {
	s := storage.NewMemoryStore()
	require.NoError(t, s.Set(storage.KeyBalance, "137"))
	assert.Equal(t, int64(137), New(s).Balance())
}

func TestCredit_Persists(t *testing.T) {
	s := storage.NewMemoryStore()
	l := New(s)

	l.Credit(20)
	assert.Equal(t, int64(20), l.Balance())
	v, _, _ := s.Get(storage.KeyBalance)
	assert.Equal(t, "20", v)

	l.Credit(0)
	l.Credit(-4)
	assert.Equal(t, int64(20), l.Balance())
}

func TestDebit_InsufficientLeavesBalance(t *testing.T) {
	l := New(storage.NewMemoryStore())
	l.Credit(500)

	for _, amount := range []int64{501, 1000, 1 << 40} {
		assert.False(t, l.Debit(amount), "debit %d", amount)
		assert.Equal(t, int64(500), l.Balance())
	}

	assert.True(t, l.Debit(500))
	assert.Equal(t, int64(0), l.Balance())
	assert.False(t, l.Debit(0))
}

func TestSetAbsolute(t *testing.T) {
	s := storage.NewMemoryStore()
	l := New(s)

	l.SetAbsolute(42)
	assert.Equal(t, int64(42), l.Balance())

	l.SetAbsolute(-1)
	assert.Equal(t, int64(42), l.Balance())

	l.SetAbsolute(0)
	v, _, _ := s.Get(storage.KeyBalance)
	assert.Equal(t, "0", v)
}

func TestCreditWith_WritesExtrasTogether(t *testing.T) {
	s := storage.NewMemoryStore()
	l := New(s)

	l.CreditWith(10, map[string]string{storage.KeyClaimedShares: `["facebook"]`})
	v, _, _ := s.Get(storage.KeyClaimedShares)
	assert.Equal(t, `["facebook"]`, v)
	v, _, _ = s.Get(storage.KeyBalance)
	assert.Equal(t, "10", v)
}

// Balance never goes negative and always equals credits minus successful debits.
func TestRandomSequences_BalanceNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		l := New(storage.NewMemoryStore())
		var expected int64
		for i := 0; i < 200; i++ {
			amount := rng.Int63n(150) + 1
			if rng.Intn(2) == 0 {
				l.Credit(amount)
				expected += amount
			} else if l.Debit(amount) {
				expected -= amount
			}
			require.GreaterOrEqual(t, l.Balance(), int64(0))
			require.Equal(t, expected, l.Balance())
		}
	}
}

func TestReload(t *testing.T) {
	s := storage.NewMemoryStore()
	l := New(s)
	l.Credit(300)

	require.NoError(t, s.Clear())
	l.Reload()
	assert.Equal(t, int64(0), l.Balance())
}

func strptr(s string) *string { return &s }
