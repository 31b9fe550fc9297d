package bidding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auctionhousego/internal/cache"
	"auctionhousego/internal/models"
	"auctionhousego/internal/services/auction"

	"go.uber.org/zap"
)

var (
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrBidderNotFound      = errors.New("bidder not found")
	ErrNoBids              = errors.New("no bids placed on this auction")
	ErrConcurrencyConflict = errors.New("auction was updated concurrently")
)

// One internal retry after a lost version race, then the conflict is
// surfaced to the caller.
const maxPlaceBidAttempts = 2

type BidResponse struct {
	BidID        int64     `json:"bid_id"`
	AuctionID    int64     `json:"auction_id"`
	Amount       float64   `json:"amount"`
	BidTime      time.Time `json:"bid_time" example:"2025-07-27T16:05:05Z"`
	IsWinningBid bool      `json:"is_winning_bid"`
	BidderName   string    `json:"bidder_name" example:"Alice W."`
	AuctionPrice float64   `json:"auction_price"`
}

type UserBid struct {
	BidID               int64                   `json:"bid_id"`
	AuctionID           int64                   `json:"auction_id"`
	AuctionTitle        string                  `json:"auction_title"`
	Amount              float64                 `json:"amount"`
	BidTime             time.Time               `json:"bid_time"`
	IsWinningBid        bool                    `json:"is_winning_bid"`
	AuctionEndTime      time.Time               `json:"auction_end_time"`
	AuctionCurrentPrice float64                 `json:"auction_current_price"`
	AuctionStatus       auction.LifecycleStatus `json:"auction_status"`
}

type WinningBid struct {
	BidID          int64     `json:"bid_id"`
	AuctionID      int64     `json:"auction_id"`
	AuctionTitle   string    `json:"auction_title"`
	WinningAmount  float64   `json:"winning_amount"`
	AuctionEndTime time.Time `json:"auction_end_time"`
	SellerName     string    `json:"seller_name"`
	SellerEmail    string    `json:"seller_email"`
	Location       string    `json:"location"`
	ShippingInfo   string    `json:"shipping_info"`
}

type BidStatistics struct {
	AuctionID       int64      `json:"auction_id"`
	TotalBids       int64      `json:"total_bids"`
	UniqueBidders   int64      `json:"unique_bidders"`
	StartingPrice   float64    `json:"starting_price"`
	CurrentPrice    float64    `json:"current_price"`
	AverageIncrease float64    `json:"average_increase"`
	HighestBid      float64    `json:"highest_bid"`
	LastBidTime     *time.Time `json:"last_bid_time,omitempty"`
}

type IBiddingService interface {
	PlaceBid(ctx context.Context, auctionID, bidderID int64, amount float64) (*BidResponse, error)
	GetHighestBid(ctx context.Context, auctionID int64) (*BidResponse, error)
	GetAuctionBids(ctx context.Context, auctionID int64, page, pageSize int) ([]BidResponse, error)
	GetUserBids(ctx context.Context, userID int64, page, pageSize int, status string) ([]UserBid, error)
	GetUserWinningBids(ctx context.Context, userID int64, page, pageSize int) ([]WinningBid, error)
	GetBidStatistics(ctx context.Context, auctionID int64) (*BidStatistics, error)
	IsUserWinningBidder(ctx context.Context, auctionID, userID int64) (bool, error)
}

type biddingService struct {
	db  *sql.DB
	rc  *cache.Cache
	now func() time.Time
}

func NewBiddingService(db *sql.DB, rc *cache.Cache) IBiddingService {
	return &biddingService{
		db:  db,
		rc:  rc,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBid runs the whole placement protocol as one transaction: load the
// auction snapshot and its highest bid, validate, demote the previous
// winner, insert the new bid and bump the auction price. The price update
// compare-and-swaps against the version read at the start of the
// transaction; a lost race rolls everything back and the protocol is
// re-run once from the top before ErrConcurrencyConflict is surfaced.
func (svc *biddingService) PlaceBid(ctx context.Context, auctionID, bidderID int64, amount float64) (*BidResponse, error) {
	amount = models.RoundCents(amount)

	var (
		resp *BidResponse
		err  error
	)
	for attempt := 1; attempt <= maxPlaceBidAttempts; attempt++ {
		resp, err = svc.placeBidOnce(ctx, auctionID, bidderID, amount)
		if !errors.Is(err, ErrConcurrencyConflict) {
			break
		}
		zap.L().Debug("place_bid_retry",
			zap.Int64("auction_id", auctionID),
			zap.Int64("bidder_id", bidderID),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		return nil, err
	}

	svc.rc.Invalidate(ctx, cache.AuctionKey(auctionID), cache.StatsKey(auctionID))

	zap.L().Info("bid_placed",
		zap.Int64("auction_id", auctionID),
		zap.Int64("bidder_id", bidderID),
		zap.Int64("bid_id", resp.BidID),
		zap.Float64("amount", amount),
	)
	return resp, nil
}

func (svc *biddingService) placeBidOnce(ctx context.Context, auctionID, bidderID int64, amount float64) (*BidResponse, error) {
	now := svc.now()

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("place bid: begin tx: %w", err)
	}
	defer tx.Rollback()

	a := models.Auction{}
	err = tx.QueryRowContext(ctx, `
		SELECT auction_id, starting_price, current_price, start_time, end_time,
		       is_active, seller_id, version
		  FROM auctions WHERE auction_id = $1`, auctionID).
		Scan(&a.AuctionID, &a.StartingPrice, &a.CurrentPrice, &a.StartTime,
			&a.EndTime, &a.IsActive, &a.SellerID, &a.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuctionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("place bid: load auction %d: %w", auctionID, err)
	}

	bidder := models.User{}
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, account_type, is_active
		  FROM users WHERE user_id = $1`, bidderID).
		Scan(&bidder.UserID, &bidder.FirstName, &bidder.LastName,
			&bidder.AccountType, &bidder.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBidderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("place bid: load bidder %d: %w", bidderID, err)
	}

	highest, err := scanHighestBid(tx.QueryRowContext(ctx, `
		SELECT bid_id, auction_id, bidder_id, amount, bid_time
		  FROM bids WHERE auction_id = $1
		 ORDER BY amount DESC, bid_time ASC LIMIT 1`, auctionID))
	if err != nil {
		return nil, fmt.Errorf("place bid: load highest bid: %w", err)
	}

	if rej := ValidateBid(&a, highest, &bidder, amount, now); rej != nil {
		zap.L().Warn("bid_rejected",
			zap.Int64("auction_id", auctionID),
			zap.Int64("bidder_id", bidderID),
			zap.Float64("amount", amount),
			zap.String("reason", string(rej.Reason)),
		)
		return nil, rej
	}

	// Optimistic concurrency: only the writer that saw the latest version
	// gets to move the price. Anyone else lost a race and must re-read.
	res, err := tx.ExecContext(ctx, `
		UPDATE auctions
		   SET current_price = $1, updated_at = $2, version = version + 1
		 WHERE auction_id = $3 AND version = $4`,
		amount, now, auctionID, a.Version)
	if err != nil {
		return nil, fmt.Errorf("place bid: update auction price: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("place bid: rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrConcurrencyConflict
	}

	if highest != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE bids SET is_winning_bid = FALSE WHERE bid_id = $1`,
			highest.BidID); err != nil {
			return nil, fmt.Errorf("place bid: demote bid %d: %w", highest.BidID, err)
		}
	}

	var bidID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO bids (auction_id, bidder_id, amount, bid_time, is_winning_bid)
		     VALUES ($1, $2, $3, $4, TRUE)
		  RETURNING bid_id`,
		auctionID, bidderID, amount, now).Scan(&bidID)
	if err != nil {
		return nil, fmt.Errorf("place bid: insert bid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("place bid: commit: %w", err)
	}

	return &BidResponse{
		BidID:        bidID,
		AuctionID:    auctionID,
		Amount:       amount,
		BidTime:      now,
		IsWinningBid: true,
		BidderName:   bidder.DisplayName(),
		AuctionPrice: amount,
	}, nil
}

func scanHighestBid(row *sql.Row) (*models.Bid, error) {
	b := models.Bid{}
	err := row.Scan(&b.BidID, &b.AuctionID, &b.BidderID, &b.Amount, &b.BidTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (svc *biddingService) GetHighestBid(ctx context.Context, auctionID int64) (*BidResponse, error) {
	var (
		out         BidResponse
		first, last string
	)
	err := svc.db.QueryRowContext(ctx, `
		SELECT b.bid_id, b.auction_id, b.amount, b.bid_time, b.is_winning_bid,
		       u.first_name, u.last_name
		  FROM bids b
		  JOIN users u ON u.user_id = b.bidder_id
		 WHERE b.auction_id = $1
		 ORDER BY b.amount DESC, b.bid_time ASC LIMIT 1`, auctionID).
		Scan(&out.BidID, &out.AuctionID, &out.Amount, &out.BidTime,
			&out.IsWinningBid, &first, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBids
	}
	if err != nil {
		return nil, fmt.Errorf("get highest bid for auction %d: %w", auctionID, err)
	}
	out.BidderName = displayName(first, last)
	out.AuctionPrice = out.Amount
	return &out, nil
}

func (svc *biddingService) GetAuctionBids(ctx context.Context, auctionID int64, page, pageSize int) ([]BidResponse, error) {
	limit, offset := pageWindow(page, pageSize, 50)
	rows, err := svc.db.QueryContext(ctx, `
		SELECT b.bid_id, b.auction_id, b.amount, b.bid_time, b.is_winning_bid,
		       u.first_name, u.last_name
		  FROM bids b
		  JOIN users u ON u.user_id = b.bidder_id
		 WHERE b.auction_id = $1
		 ORDER BY b.bid_time DESC
		 LIMIT $2 OFFSET $3`, auctionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %d: %w", auctionID, err)
	}
	defer rows.Close()

	list := make([]BidResponse, 0, limit)
	for rows.Next() {
		var b BidResponse
		var first, last string
		if err := rows.Scan(&b.BidID, &b.AuctionID, &b.Amount, &b.BidTime,
			&b.IsWinningBid, &first, &last); err != nil {
			return nil, err
		}
		b.BidderName = displayName(first, last)
		list = append(list, b)
	}
	return list, rows.Err()
}

func (svc *biddingService) GetUserBids(ctx context.Context, userID int64, page, pageSize int, status string) ([]UserBid, error) {
	limit, offset := pageWindow(page, pageSize, 20)
	now := svc.now()

	q := `
		SELECT b.bid_id, b.auction_id, a.title, b.amount, b.bid_time,
		       b.is_winning_bid, a.start_time, a.end_time, a.current_price
		  FROM bids b
		  JOIN auctions a ON a.auction_id = b.auction_id
		 WHERE b.bidder_id = $1`
	args := []any{userID}

	switch status {
	case "active":
		q += ` AND a.is_active AND a.end_time > $2`
		args = append(args, now)
	case "won":
		q += ` AND b.is_winning_bid AND a.end_time <= $2`
		args = append(args, now)
	case "lost":
		q += ` AND NOT b.is_winning_bid AND a.end_time <= $2`
		args = append(args, now)
	}
	q += fmt.Sprintf(` ORDER BY b.bid_time DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := svc.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list bids for user %d: %w", userID, err)
	}
	defer rows.Close()

	list := make([]UserBid, 0, limit)
	for rows.Next() {
		var (
			ub    UserBid
			start time.Time
		)
		if err := rows.Scan(&ub.BidID, &ub.AuctionID, &ub.AuctionTitle, &ub.Amount,
			&ub.BidTime, &ub.IsWinningBid, &start, &ub.AuctionEndTime,
			&ub.AuctionCurrentPrice); err != nil {
			return nil, err
		}
		ub.AuctionStatus = auction.StatusAt(start, ub.AuctionEndTime, now)
		list = append(list, ub)
	}
	return list, rows.Err()
}

func (svc *biddingService) GetUserWinningBids(ctx context.Context, userID int64, page, pageSize int) ([]WinningBid, error) {
	limit, offset := pageWindow(page, pageSize, 20)
	rows, err := svc.db.QueryContext(ctx, `
		SELECT b.bid_id, b.auction_id, a.title, b.amount, a.end_time,
		       s.first_name, s.last_name, s.email, a.location, a.shipping_info
		  FROM bids b
		  JOIN auctions a ON a.auction_id = b.auction_id
		  JOIN users s    ON s.user_id = a.seller_id
		 WHERE b.bidder_id = $1 AND b.is_winning_bid AND a.end_time <= $2
		 ORDER BY a.end_time DESC
		 LIMIT $3 OFFSET $4`, userID, svc.now(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list winning bids for user %d: %w", userID, err)
	}
	defer rows.Close()

	list := make([]WinningBid, 0, limit)
	for rows.Next() {
		var (
			wb          WinningBid
			first, last string
		)
		if err := rows.Scan(&wb.BidID, &wb.AuctionID, &wb.AuctionTitle,
			&wb.WinningAmount, &wb.AuctionEndTime, &first, &last,
			&wb.SellerEmail, &wb.Location, &wb.ShippingInfo); err != nil {
			return nil, err
		}
		wb.SellerName = first + " " + last
		list = append(list, wb)
	}
	return list, rows.Err()
}

// GetBidStatistics aggregates an auction's bid set. Results are served
// from the read cache when fresh; an accepted bid invalidates the entry.
func (svc *biddingService) GetBidStatistics(ctx context.Context, auctionID int64) (*BidStatistics, error) {
	cached := BidStatistics{}
	if svc.rc.Get(ctx, cache.StatsKey(auctionID), &cached) {
		return &cached, nil
	}

	stats := BidStatistics{AuctionID: auctionID}
	err := svc.db.QueryRowContext(ctx, `
		SELECT starting_price, current_price FROM auctions WHERE auction_id = $1`,
		auctionID).Scan(&stats.StartingPrice, &stats.CurrentPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuctionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bid statistics: load auction %d: %w", auctionID, err)
	}

	var (
		maxAmount   sql.NullFloat64
		lastBidTime sql.NullTime
	)
	err = svc.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT bidder_id), MAX(amount), MAX(bid_time)
		  FROM bids WHERE auction_id = $1`, auctionID).
		Scan(&stats.TotalBids, &stats.UniqueBidders, &maxAmount, &lastBidTime)
	if err != nil {
		return nil, fmt.Errorf("bid statistics: aggregate auction %d: %w", auctionID, err)
	}

	stats.HighestBid = stats.StartingPrice
	if maxAmount.Valid {
		stats.HighestBid = maxAmount.Float64
	}
	if lastBidTime.Valid {
		t := lastBidTime.Time.UTC()
		stats.LastBidTime = &t
	}
	if stats.TotalBids > 0 {
		stats.AverageIncrease = models.RoundCents(
			(stats.CurrentPrice - stats.StartingPrice) / float64(stats.TotalBids))
	}

	svc.rc.Set(ctx, cache.StatsKey(auctionID), &stats)
	return &stats, nil
}

func (svc *biddingService) IsUserWinningBidder(ctx context.Context, auctionID, userID int64) (bool, error) {
	var winnerID int64
	err := svc.db.QueryRowContext(ctx, `
		SELECT bidder_id FROM bids
		 WHERE auction_id = $1 AND is_winning_bid LIMIT 1`, auctionID).
		Scan(&winnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("winning bidder for auction %d: %w", auctionID, err)
	}
	return winnerID == userID, nil
}

// pageWindow converts 1-based page/pageSize into LIMIT/OFFSET, with a
// per-query default page size.
func pageWindow(page, pageSize, defaultSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return pageSize, (page - 1) * pageSize
}

func displayName(first, last string) string {
	u := models.User{FirstName: first, LastName: last}
	return u.DisplayName()
}
