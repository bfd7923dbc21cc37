package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"15m"`, want: 15 * time.Minute},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2024-6-1", "01.06.2024", "2024-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestFixedClock(t *testing.T) {
	c := &FixedClock{T: time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2024-06-01", Today(c))

	c.Advance(time.Hour)
	assert.Equal(t, "2024-06-02", Today(c))
}
