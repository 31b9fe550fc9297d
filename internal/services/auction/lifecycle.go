package auction

import (
	"time"

	"auctionhousego/internal/models"
)

// LifecycleStatus is derived from the clock on every read. It is never
// persisted: the stored is_active flag is a seller-controlled off-switch,
// orthogonal to where the auction sits in time.
type LifecycleStatus string

const (
	StatusUpcoming LifecycleStatus = "Upcoming"
	StatusActive   LifecycleStatus = "Active"
	StatusEnded    LifecycleStatus = "Ended"
)

// StatusAt resolves the temporal state of an auction window. Both
// boundary instants count as Active: bidding opens exactly at startTime
// and the last valid instant is endTime itself.
func StatusAt(startTime, endTime, now time.Time) LifecycleStatus {
	switch {
	case now.Before(startTime):
		return StatusUpcoming
	case now.After(endTime):
		return StatusEnded
	default:
		return StatusActive
	}
}

func Status(a *models.Auction, now time.Time) LifecycleStatus {
	return StatusAt(a.StartTime, a.EndTime, now)
}

// TimeRemaining reports how long until the auction ends, floored at zero.
func TimeRemaining(a *models.Auction, now time.Time) time.Duration {
	if d := a.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}
