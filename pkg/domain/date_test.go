package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("parses the wire format", func(t *testing.T) {
		d, err := ParseDate("2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", d.String())
	})

	t.Run("rejects impossible calendar dates", func(t *testing.T) {
		for _, s := range []string{"", "2025-02-30", "2025-13-01", "10/03/2025", "2025-3-10"} {
			_, err := ParseDate(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestDateComparison(t *testing.T) {
	earlier := NewDate(2025, time.March, 10)
	later := NewDate(2025, time.March, 11)

	assert.True(t, later.After(earlier))
	assert.False(t, earlier.After(later))
	assert.False(t, earlier.After(earlier))
}

func TestDateOfDropsClock(t *testing.T) {
	instant := time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, NewDate(2025, time.March, 10), DateOf(instant))
}

func TestDateJSON(t *testing.T) {
	t.Run("marshals as YYYY-MM-DD", func(t *testing.T) {
		b, err := json.Marshal(NewDate(2025, time.March, 10))
		require.NoError(t, err)
		assert.Equal(t, `"2025-03-10"`, string(b))
	})

	t.Run("unmarshal rejects null", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`null`), &d))
	})
}
