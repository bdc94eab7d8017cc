package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersonID(t *testing.T) {
	t.Run("round-trips a canonical UUID", func(t *testing.T) {
		raw := uuid.NewString()
		id, err := ParsePersonID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
		assert.False(t, id.IsNil())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "not-a-uuid", "1234"} {
			_, err := ParsePersonID(s)
			assert.Error(t, err, "input %q", s)
		}
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := ParsePersonID(uuid.Nil.String())
		assert.Error(t, err)
	})
}

func TestNewIDsAreDistinct(t *testing.T) {
	assert.NotEqual(t, NewRecordID(), NewRecordID())
	assert.False(t, NewVaccineID().IsNil())
}
