package bidding

import (
	"fmt"
	"time"

	"auctionhousego/internal/models"
)

// RejectReason identifies why a candidate bid was turned down. The set is
// closed; handlers map each reason to an HTTP status.
type RejectReason string

const (
	ReasonAuctionInactive      RejectReason = "AuctionInactive"
	ReasonNotStarted           RejectReason = "NotStarted"
	ReasonEnded                RejectReason = "Ended"
	ReasonSelfBid              RejectReason = "SelfBid"
	ReasonRoleForbidden        RejectReason = "RoleForbidden"
	ReasonAmountTooLow         RejectReason = "AmountTooLow"
	ReasonAlreadyHighestBidder RejectReason = "AlreadyHighestBidder"
)

// Rejection is an expected validation outcome, not a failure. It satisfies
// error so it can flow through the usual return paths, and callers pick it
// out with errors.As.
type Rejection struct {
	Reason  RejectReason
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func reject(reason RejectReason, msg string) *Rejection {
	return &Rejection{Reason: reason, Message: msg}
}

// ValidateBid decides whether a candidate bid is acceptable against a
// snapshot of the auction, its current highest bid (nil if none), and the
// bidder, all evaluated at the given instant. Checks run in a fixed order
// and the first failure wins. The function is pure: no clock, no store.
func ValidateBid(a *models.Auction, highest *models.Bid, bidder *models.User, amount float64, now time.Time) *Rejection {
	if !a.IsActive {
		return reject(ReasonAuctionInactive, "this auction is not active")
	}
	if now.Before(a.StartTime) {
		return reject(ReasonNotStarted, "this auction has not started yet")
	}
	if now.After(a.EndTime) {
		return reject(ReasonEnded, "this auction has already ended")
	}
	if bidder.UserID == a.SellerID {
		return reject(ReasonSelfBid, "sellers cannot bid on their own auctions")
	}
	if bidder.AccountType != models.RoleBuyer {
		return reject(ReasonRoleForbidden, "only buyers can place bids")
	}

	minimum := a.StartingPrice
	if highest != nil && highest.Amount > minimum {
		minimum = highest.Amount
	}
	if amount <= minimum {
		return reject(ReasonAmountTooLow,
			fmt.Sprintf("bid must be higher than the current highest bid of $%.2f", minimum))
	}

	if highest != nil && highest.BidderID == bidder.UserID {
		return reject(ReasonAlreadyHighestBidder, "you are already the highest bidder on this auction")
	}
	return nil
}
