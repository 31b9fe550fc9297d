package auction

import (
	"testing"
	"time"

	"auctionhousego/internal/models"

	"github.com/stretchr/testify/require"
)

func TestStatusAt(t *testing.T) {
	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want LifecycleStatus
	}{
		{"before_start", start.Add(-time.Second), StatusUpcoming},
		{"at_start_instant", start, StatusActive},
		{"mid_window", start.Add(24 * time.Hour), StatusActive},
		{"at_end_instant", end, StatusActive},
		{"after_end", end.Add(time.Nanosecond), StatusEnded},
		{"long_after_end", end.Add(30 * 24 * time.Hour), StatusEnded},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, StatusAt(start, end, tc.now))
		})
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	a := &models.Auction{EndTime: now.Add(90 * time.Minute)}

	require.Equal(t, 90*time.Minute, TimeRemaining(a, now))
	require.Equal(t, time.Duration(0), TimeRemaining(a, now.Add(2*time.Hour)))
}

func TestPrimaryImageURL(t *testing.T) {
	imgs := []models.AuctionImage{
		{ImageID: 1, ImageURL: "https://img/one.jpg", DisplayOrder: 2},
		{ImageID: 2, ImageURL: "https://img/two.jpg", DisplayOrder: 1},
		{ImageID: 3, ImageURL: "https://img/three.jpg", DisplayOrder: 3, IsPrimary: true},
	}

	require.Equal(t, "https://img/three.jpg", PrimaryImageURL(imgs))

	// Without a flagged primary the lowest display order wins.
	imgs[2].IsPrimary = false
	require.Equal(t, "https://img/two.jpg", PrimaryImageURL(imgs))

	require.Equal(t, "", PrimaryImageURL(nil))
}
