package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name          string
		dailyRate     int64
		start, end    string
		chauffeurKm   int64
		chauffeurRate int64
		want          int64
		wantErr       error
	}{
		{
			name:      "three days",
			dailyRate: 10000,
			start:     "2024-01-01",
			end:       "2024-01-04",
			want:      30000,
		},
		{
			name:      "single day",
			dailyRate: 500000,
			start:     "2024-03-01",
			end:       "2024-03-02",
			want:      500000,
		},
		{
			name:      "full month allowed",
			dailyRate: 10000,
			start:     "2024-01-01",
			end:       "2024-01-31",
			want:      300000,
		},
		{
			name:      "zero-length range rejected",
			dailyRate: 10000,
			start:     "2024-01-01",
			end:       "2024-01-01",
			wantErr:   ErrInvalidRange,
		},
		{
			name:      "reversed range rejected",
			dailyRate: 10000,
			start:     "2024-01-04",
			end:       "2024-01-01",
			wantErr:   ErrInvalidRange,
		},
		{
			name:      "over max days rejected",
			dailyRate: 10000,
			start:     "2024-01-01",
			end:       "2024-02-15",
			wantErr:   ErrInvalidRange,
		},
		{
			name:          "chauffeur addon added linearly",
			dailyRate:     500000,
			start:         "2024-03-01",
			end:           "2024-03-04",
			chauffeurKm:   120,
			chauffeurRate: 1500,
			want:          1500000 + 180000,
		},
		{
			name:          "negative distance rejected",
			dailyRate:     10000,
			start:         "2024-01-01",
			end:           "2024-01-04",
			chauffeurKm:   -1,
			chauffeurRate: 1500,
			wantErr:       ErrInvalidAddon,
		},
		{
			name:          "distance over cap rejected",
			dailyRate:     10000,
			start:         "2024-01-01",
			end:           "2024-01-04",
			chauffeurKm:   MaxChauffeurKm + 1,
			chauffeurRate: 1500,
			wantErr:       ErrInvalidAddon,
		},
		{
			name:        "addon requested on listing without chauffeur rate",
			dailyRate:   10000,
			start:       "2024-01-01",
			end:         "2024-01-04",
			chauffeurKm: 50,
			wantErr:     ErrInvalidAddon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(tt.dailyRate, date(tt.start), date(tt.end), tt.chauffeurKm, tt.chauffeurRate)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		got, err := Quote(10000, date("2024-01-01"), date("2024-01-04"), 0, 0)
		require.NoError(t, err)
		require.Equal(t, int64(30000), got)
	}
}

func TestDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, int64(3), Days(start, end))
}
