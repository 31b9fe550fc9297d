package models

import (
	"fmt"
	"math"
	"time"
)

// Account types. A user is exactly one of the two for the lifetime of
// the account.
const (
	RoleBuyer  = "Buyer"
	RoleSeller = "Seller"
)

type User struct {
	UserID       int64      `json:"user_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	AccountType  string     `json:"account_type"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// DisplayName is the partially-masked name shown next to bids,
// e.g. "Alice W.".
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return fmt.Sprintf("%s %c.", u.FirstName, u.LastName[0])
}

// FullName is the unmasked name, used where the viewer is entitled to it
// (e.g. the seller of an auction the user has won).
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Auction struct {
	AuctionID     int64      `json:"auction_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Condition     string     `json:"condition"`
	Location      string     `json:"location"`
	ShippingInfo  string     `json:"shipping_info"`
	StartingPrice float64    `json:"starting_price"`
	ReservePrice  *float64   `json:"reserve_price,omitempty"`
	CurrentPrice  float64    `json:"current_price"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	IsActive      bool       `json:"is_active"`
	IsFeatured    bool       `json:"is_featured"`
	ViewCount     int64      `json:"view_count"`
	SellerID      int64      `json:"seller_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`

	// Version is the optimistic-concurrency token. Every price update
	// increments it; writers compare-and-swap against the value they read.
	Version int64 `json:"-"`
}

type Bid struct {
	BidID        int64     `json:"bid_id"`
	AuctionID    int64     `json:"auction_id"`
	BidderID     int64     `json:"bidder_id"`
	Amount       float64   `json:"amount"`
	BidTime      time.Time `json:"bid_time"`
	IsWinningBid bool      `json:"is_winning_bid"`
}

type WatchlistItem struct {
	WatchlistID int64     `json:"watchlist_id"`
	UserID      int64     `json:"user_id"`
	AuctionID   int64     `json:"auction_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuctionImage struct {
	ImageID      int64     `json:"image_id"`
	AuctionID    int64     `json:"auction_id"`
	ImageURL     string    `json:"image_url"`
	AltText      string    `json:"alt_text,omitempty"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// RoundCents normalises a currency amount to 2-place precision.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
