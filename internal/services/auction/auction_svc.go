package auction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auctionhousego/internal/cache"
	"auctionhousego/internal/models"

	"go.uber.org/zap"
)

var (
	ErrNotFound             = errors.New("auction not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotSeller            = errors.New("only sellers can create auctions")
	ErrNotOwner             = errors.New("auction belongs to another seller")
	ErrHasBids              = errors.New("auction has existing bids")
	ErrBiddingStarted       = errors.New("cannot modify auction details after bidding has started")
	ErrEndBeforeStart       = errors.New("end time must be after start time")
	ErrReserveBelowStarting = errors.New("reserve price cannot be less than starting price")
	ErrStartInPast          = errors.New("start time is in the past")
	ErrAlreadyWatched       = errors.New("auction already on watchlist")
	ErrNotWatched           = errors.New("auction not on watchlist")
	ErrImageNotFound        = errors.New("image not found")
)

// Requested start times this far in the past are rejected outright rather
// than silently moved to "now".
const startTimeTolerance = 5 * time.Minute

type SellerInfo struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type AuctionResponse struct {
	AuctionID     int64                 `json:"auction_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      string                `json:"category"`
	Condition     string                `json:"condition"`
	Location      string                `json:"location"`
	ShippingInfo  string                `json:"shipping_info"`
	StartingPrice float64               `json:"starting_price"`
	ReservePrice  *float64              `json:"reserve_price,omitempty"`
	CurrentPrice  float64               `json:"current_price"`
	StartTime     time.Time             `json:"start_time" example:"2025-07-27T16:05:05Z"`
	EndTime       time.Time             `json:"end_time"   example:"2025-07-30T16:05:05Z"`
	IsActive      bool                  `json:"is_active"`
	IsFeatured    bool                  `json:"is_featured"`
	ViewCount     int64                 `json:"view_count"`
	CreatedAt     time.Time             `json:"created_at"`
	Seller        SellerInfo            `json:"seller"`
	TotalBids     int64                 `json:"total_bids"`
	Status        LifecycleStatus       `json:"status" example:"Active"`
	TimeRemaining float64               `json:"time_remaining_seconds"`
	Images        []models.AuctionImage `json:"images"`
	PrimaryImage  string                `json:"primary_image_url,omitempty"`
}

type AuctionSummary struct {
	AuctionID     int64           `json:"auction_id"`
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	StartingPrice float64         `json:"starting_price"`
	CurrentPrice  float64         `json:"current_price"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	IsActive      bool            `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`
	ViewCount     int64           `json:"view_count"`
	TotalBids     int64           `json:"total_bids"`
	Status        LifecycleStatus `json:"status"`
	Seller        SellerInfo      `json:"seller"`
	PrimaryImage  string          `json:"primary_image_url,omitempty"`
}

type CreateAuctionInput struct {
	Title         string
	Description   string
	Category      string
	Condition     string
	Location      string
	ShippingInfo  string
	StartingPrice float64
	ReservePrice  *float64
	StartTime     time.Time
	EndTime       time.Time
	IsFeatured    bool
}

type UpdateAuctionInput struct {
	Title        string
	Description  string
	Category     string
	Condition    string
	Location     string
	ShippingInfo string
	ReservePrice *float64
	EndTime      time.Time
	IsFeatured   bool
}

type ImageInput struct {
	ImageURL     string
	AltText      string
	IsPrimary    bool
	DisplayOrder int
}

type IAuctionService interface {
	CreateAuction(ctx context.Context, sellerID int64, in CreateAuctionInput) (*AuctionResponse, error)
	GetAuction(ctx context.Context, auctionID int64) (*AuctionResponse, error)
	ListAuctions(ctx context.Context, page, pageSize int, category, search string) ([]AuctionSummary, error)
	GetSellerAuctions(ctx context.Context, sellerID int64, page, pageSize int) ([]AuctionSummary, error)
	UpdateAuction(ctx context.Context, auctionID, sellerID int64, in UpdateAuctionInput) (*AuctionResponse, error)
	DeleteAuction(ctx context.Context, auctionID, sellerID int64) error
	DeactivateAuction(ctx context.Context, auctionID, sellerID int64) error

	AddToWatchlist(ctx context.Context, auctionID, userID int64) error
	RemoveFromWatchlist(ctx context.Context, auctionID, userID int64) error
	GetWatchlist(ctx context.Context, userID int64, page, pageSize int) ([]AuctionSummary, error)

	AddImage(ctx context.Context, auctionID, sellerID int64, in ImageInput) (*models.AuctionImage, error)
	ListImages(ctx context.Context, auctionID int64) ([]models.AuctionImage, error)
	DeleteImage(ctx context.Context, imageID, sellerID int64) error
	SetPrimaryImage(ctx context.Context, imageID, sellerID int64) error
}

type auctionService struct {
	db  *sql.DB
	rc  *cache.Cache
	now func() time.Time
}

func NewAuctionService(db *sql.DB, rc *cache.Cache) IAuctionService {
	return &auctionService{
		db:  db,
		rc:  rc,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (svc *auctionService) CreateAuction(ctx context.Context, sellerID int64, in CreateAuctionInput) (*AuctionResponse, error) {
	now := svc.now()

	var accountType string
	err := svc.db.QueryRowContext(ctx,
		`SELECT account_type FROM users WHERE user_id = $1 AND is_active`, sellerID).
		Scan(&accountType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create auction: load seller %d: %w", sellerID, err)
	}
	if accountType != models.RoleSeller {
		return nil, ErrNotSeller
	}

	if in.StartTime.Before(now.Add(-startTimeTolerance)) {
		return nil, ErrStartInPast
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, ErrEndBeforeStart
	}
	starting := models.RoundCents(in.StartingPrice)
	if in.ReservePrice != nil {
		r := models.RoundCents(*in.ReservePrice)
		if r < starting {
			return nil, ErrReserveBelowStarting
		}
		in.ReservePrice = &r
	}

	var auctionID int64
	err = svc.db.QueryRowContext(ctx, `
		INSERT INTO auctions (title, description, category, condition, location,
		                      shipping_info, starting_price, reserve_price,
		                      current_price, start_time, end_time, is_active,
		                      is_featured, view_count, seller_id, created_at, version)
		     VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$7,$9,$10,TRUE,$11,0,$12,$13,0)
		  RETURNING auction_id`,
		in.Title, in.Description, in.Category, in.Condition, in.Location,
		in.ShippingInfo, starting, in.ReservePrice,
		in.StartTime.UTC(), in.EndTime.UTC(), in.IsFeatured, sellerID, now).
		Scan(&auctionID)
	if err != nil {
		return nil, fmt.Errorf("create auction: insert: %w", err)
	}

	zap.L().Info("auction_created",
		zap.Int64("auction_id", auctionID),
		zap.Int64("seller_id", sellerID),
		zap.Float64("starting_price", starting),
	)
	return svc.GetAuction(ctx, auctionID)
}

// GetAuction returns the full auction view. Snapshots are served from the
// read cache when fresh; the view counter is bumped either way.
func (svc *auctionService) GetAuction(ctx context.Context, auctionID int64) (*AuctionResponse, error) {
	now := svc.now()

	cached := AuctionResponse{}
	if svc.rc.Get(ctx, cache.AuctionKey(auctionID), &cached) {
		if _, err := svc.db.ExecContext(ctx,
			`UPDATE auctions SET view_count = view_count + 1 WHERE auction_id = $1`,
			auctionID); err != nil {
			zap.L().Debug("view_count_bump", zap.Int64("auction_id", auctionID), zap.Error(err))
		}
		cached.ViewCount++
		cached.Status = StatusAt(cached.StartTime, cached.EndTime, now)
		cached.TimeRemaining = remainingSeconds(cached.EndTime, now)
		return &cached, nil
	}

	out := AuctionResponse{}
	err := svc.db.QueryRowContext(ctx, `
		UPDATE auctions SET view_count = view_count + 1 WHERE auction_id = $1
		RETURNING auction_id, title, description, category, condition, location,
		          shipping_info, starting_price, reserve_price, current_price,
		          start_time, end_time, is_active, is_featured, view_count,
		          seller_id, created_at`, auctionID).
		Scan(&out.AuctionID, &out.Title, &out.Description, &out.Category,
			&out.Condition, &out.Location, &out.ShippingInfo, &out.StartingPrice,
			&out.ReservePrice, &out.CurrentPrice, &out.StartTime, &out.EndTime,
			&out.IsActive, &out.IsFeatured, &out.ViewCount, &out.Seller.UserID,
			&out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get auction %d: %w", auctionID, err)
	}

	err = svc.db.QueryRowContext(ctx,
		`SELECT first_name, last_name, email FROM users WHERE user_id = $1`,
		out.Seller.UserID).
		Scan(&out.Seller.FirstName, &out.Seller.LastName, &out.Seller.Email)
	if err != nil {
		return nil, fmt.Errorf("get auction %d: load seller: %w", auctionID, err)
	}

	if err := svc.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bids WHERE auction_id = $1`, auctionID).
		Scan(&out.TotalBids); err != nil {
		return nil, fmt.Errorf("get auction %d: count bids: %w", auctionID, err)
	}

	images, err := svc.ListImages(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	out.Images = images
	out.PrimaryImage = PrimaryImageURL(images)

	out.Status = StatusAt(out.StartTime, out.EndTime, now)
	out.TimeRemaining = remainingSeconds(out.EndTime, now)

	svc.rc.Set(ctx, cache.AuctionKey(auctionID), &out)
	return &out, nil
}

const summarySelect = `
	SELECT a.auction_id, a.title, a.category, a.starting_price, a.current_price,
	       a.start_time, a.end_time, a.is_active, a.is_featured, a.view_count,
	       u.user_id, u.first_name, u.last_name, u.email,
	       (SELECT COUNT(*) FROM bids b WHERE b.auction_id = a.auction_id),
	       COALESCE((SELECT i.image_url FROM auction_images i
	                  WHERE i.auction_id = a.auction_id
	                  ORDER BY i.is_primary DESC, i.display_order ASC LIMIT 1), '')
	  FROM auctions a
	  JOIN users u ON u.user_id = a.seller_id`

func (svc *auctionService) ListAuctions(ctx context.Context, page, pageSize int, category, search string) ([]AuctionSummary, error) {
	limit, offset := pageWindow(page, pageSize, 20)

	q := summarySelect + ` WHERE a.is_active`
	args := []any{}
	if category != "" {
		args = append(args, category)
		q += fmt.Sprintf(` AND LOWER(a.category) = LOWER($%d)`, len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		q += fmt.Sprintf(` AND (a.title ILIKE $%d OR a.description ILIKE $%d)`, len(args), len(args))
	}
	q += fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return svc.querySummaries(ctx, q, args...)
}

func (svc *auctionService) GetSellerAuctions(ctx context.Context, sellerID int64, page, pageSize int) ([]AuctionSummary, error) {
	limit, offset := pageWindow(page, pageSize, 20)
	q := summarySelect + ` WHERE a.seller_id = $1 ORDER BY a.created_at DESC LIMIT $2 OFFSET $3`
	return svc.querySummaries(ctx, q, sellerID, limit, offset)
}

func (svc *auctionService) querySummaries(ctx context.Context, q string, args ...any) ([]AuctionSummary, error) {
	now := svc.now()
	rows, err := svc.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	defer rows.Close()

	list := make([]AuctionSummary, 0)
	for rows.Next() {
		var s AuctionSummary
		if err := rows.Scan(&s.AuctionID, &s.Title, &s.Category, &s.StartingPrice,
			&s.CurrentPrice, &s.StartTime, &s.EndTime, &s.IsActive, &s.IsFeatured,
			&s.ViewCount, &s.Seller.UserID, &s.Seller.FirstName,
			&s.Seller.LastName, &s.Seller.Email, &s.TotalBids, &s.PrimaryImage); err != nil {
			return nil, err
		}
		s.Status = StatusAt(s.StartTime, s.EndTime, now)
		list = append(list, s)
	}
	return list, rows.Err()
}

func (svc *auctionService) UpdateAuction(ctx context.Context, auctionID, sellerID int64, in UpdateAuctionInput) (*AuctionResponse, error) {
	now := svc.now()

	var (
		ownerID   int64
		startTime time.Time
		bidCount  int64
	)
	err := svc.db.QueryRowContext(ctx, `
		SELECT a.seller_id, a.start_time,
		       (SELECT COUNT(*) FROM bids b WHERE b.auction_id = a.auction_id)
		  FROM auctions a WHERE a.auction_id = $1`, auctionID).
		Scan(&ownerID, &startTime, &bidCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update auction %d: load: %w", auctionID, err)
	}
	if ownerID != sellerID {
		return nil, ErrNotOwner
	}
	// Commercial terms freeze once bidding has begun.
	if !startTime.After(now) && bidCount > 0 {
		return nil, ErrBiddingStarted
	}
	if !in.EndTime.After(startTime) {
		return nil, ErrEndBeforeStart
	}
	if in.ReservePrice != nil {
		r := models.RoundCents(*in.ReservePrice)
		in.ReservePrice = &r
	}

	_, err = svc.db.ExecContext(ctx, `
		UPDATE auctions
		   SET title = $1, description = $2, category = $3, condition = $4,
		       location = $5, shipping_info = $6, reserve_price = $7,
		       end_time = $8, is_featured = $9, updated_at = $10
		 WHERE auction_id = $11`,
		in.Title, in.Description, in.Category, in.Condition, in.Location,
		in.ShippingInfo, in.ReservePrice, in.EndTime.UTC(), in.IsFeatured,
		now, auctionID)
	if err != nil {
		return nil, fmt.Errorf("update auction %d: %w", auctionID, err)
	}

	svc.rc.Invalidate(ctx, cache.AuctionKey(auctionID))
	return svc.GetAuction(ctx, auctionID)
}

// DeleteAuction removes an auction outright. Only bid-free auctions can be
// deleted; anything with a bid history can only be deactivated.
func (svc *auctionService) DeleteAuction(ctx context.Context, auctionID, sellerID int64) error {
	var (
		ownerID  int64
		bidCount int64
	)
	err := svc.db.QueryRowContext(ctx, `
		SELECT a.seller_id,
		       (SELECT COUNT(*) FROM bids b WHERE b.auction_id = a.auction_id)
		  FROM auctions a WHERE a.auction_id = $1`, auctionID).
		Scan(&ownerID, &bidCount)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete auction %d: load: %w", auctionID, err)
	}
	if ownerID != sellerID {
		return ErrNotOwner
	}
	if bidCount > 0 {
		return ErrHasBids
	}

	if _, err := svc.db.ExecContext(ctx,
		`DELETE FROM auctions WHERE auction_id = $1`, auctionID); err != nil {
		return fmt.Errorf("delete auction %d: %w", auctionID, err)
	}
	svc.rc.Invalidate(ctx, cache.AuctionKey(auctionID), cache.StatsKey(auctionID))
	zap.L().Info("auction_deleted", zap.Int64("auction_id", auctionID))
	return nil
}

func (svc *auctionService) DeactivateAuction(ctx context.Context, auctionID, sellerID int64) error {
	res, err := svc.db.ExecContext(ctx, `
		UPDATE auctions SET is_active = FALSE, updated_at = $1
		 WHERE auction_id = $2 AND seller_id = $3`,
		svc.now(), auctionID, sellerID)
	if err != nil {
		return fmt.Errorf("deactivate auction %d: %w", auctionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate auction %d: rows affected: %w", auctionID, err)
	}
	if n == 0 {
		// Distinguish missing auction from wrong owner for the caller.
		var ownerID int64
		err := svc.db.QueryRowContext(ctx,
			`SELECT seller_id FROM auctions WHERE auction_id = $1`, auctionID).
			Scan(&ownerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("deactivate auction %d: load: %w", auctionID, err)
		}
		return ErrNotOwner
	}
	svc.rc.Invalidate(ctx, cache.AuctionKey(auctionID))
	zap.L().Info("auction_deactivated", zap.Int64("auction_id", auctionID))
	return nil
}

func (svc *auctionService) AddToWatchlist(ctx context.Context, auctionID, userID int64) error {
	var exists bool
	if err := svc.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM auctions WHERE auction_id = $1)`, auctionID).
		Scan(&exists); err != nil {
		return fmt.Errorf("watchlist add: check auction %d: %w", auctionID, err)
	}
	if !exists {
		return ErrNotFound
	}

	res, err := svc.db.ExecContext(ctx, `
		INSERT INTO watchlist_items (user_id, auction_id, created_at)
		     VALUES ($1, $2, $3)
		ON CONFLICT (user_id, auction_id) DO NOTHING`,
		userID, auctionID, svc.now())
	if err != nil {
		return fmt.Errorf("watchlist add: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("watchlist add: rows affected: %w", err)
	} else if n == 0 {
		return ErrAlreadyWatched
	}
	return nil
}

func (svc *auctionService) RemoveFromWatchlist(ctx context.Context, auctionID, userID int64) error {
	res, err := svc.db.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE user_id = $1 AND auction_id = $2`,
		userID, auctionID)
	if err != nil {
		return fmt.Errorf("watchlist remove: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("watchlist remove: rows affected: %w", err)
	} else if n == 0 {
		return ErrNotWatched
	}
	return nil
}

func (svc *auctionService) GetWatchlist(ctx context.Context, userID int64, page, pageSize int) ([]AuctionSummary, error) {
	limit, offset := pageWindow(page, pageSize, 20)
	q := summarySelect + `
	  JOIN watchlist_items w ON w.auction_id = a.auction_id
	 WHERE w.user_id = $1
	 ORDER BY w.created_at DESC LIMIT $2 OFFSET $3`
	return svc.querySummaries(ctx, q, userID, limit, offset)
}

// AddImage attaches an image to an auction. A new primary demotes the
// previous one, same single-winner pattern as bids but seller-only so no
// concurrency pressure.
func (svc *auctionService) AddImage(ctx context.Context, auctionID, sellerID int64, in ImageInput) (*models.AuctionImage, error) {
	if err := svc.requireOwner(ctx, auctionID, sellerID); err != nil {
		return nil, err
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("add image: begin tx: %w", err)
	}
	defer tx.Rollback()

	if in.IsPrimary {
		if _, err := tx.ExecContext(ctx,
			`UPDATE auction_images SET is_primary = FALSE WHERE auction_id = $1 AND is_primary`,
			auctionID); err != nil {
			return nil, fmt.Errorf("add image: demote primary: %w", err)
		}
	}

	img := models.AuctionImage{
		AuctionID:    auctionID,
		ImageURL:     in.ImageURL,
		AltText:      in.AltText,
		IsPrimary:    in.IsPrimary,
		DisplayOrder: in.DisplayOrder,
		CreatedAt:    svc.now(),
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO auction_images (auction_id, image_url, alt_text, is_primary,
		                            display_order, created_at)
		     VALUES ($1, $2, $3, $4, $5, $6)
		  RETURNING image_id`,
		img.AuctionID, img.ImageURL, img.AltText, img.IsPrimary,
		img.DisplayOrder, img.CreatedAt).Scan(&img.ImageID)
	if err != nil {
		return nil, fmt.Errorf("add image: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add image: commit: %w", err)
	}
	svc.rc.Invalidate(ctx, cache.AuctionKey(auctionID))
	return &img, nil
}

func (svc *auctionService) ListImages(ctx context.Context, auctionID int64) ([]models.AuctionImage, error) {
	rows, err := svc.db.QueryContext(ctx, `
		SELECT image_id, auction_id, image_url, alt_text, is_primary,
		       display_order, created_at
		  FROM auction_images
		 WHERE auction_id = $1
		 ORDER BY display_order ASC, image_id ASC`, auctionID)
	if err != nil {
		return nil, fmt.Errorf("list images for auction %d: %w", auctionID, err)
	}
	defer rows.Close()

	list := make([]models.AuctionImage, 0)
	for rows.Next() {
		var img models.AuctionImage
		if err := rows.Scan(&img.ImageID, &img.AuctionID, &img.ImageURL,
			&img.AltText, &img.IsPrimary, &img.DisplayOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, img)
	}
	return list, rows.Err()
}

func (svc *auctionService) DeleteImage(ctx context.Context, imageID, sellerID int64) error {
	auctionID, err := svc.imageOwner(ctx, imageID, sellerID)
	if err != nil {
		return err
	}
	if _, err := svc.db.ExecContext(ctx,
		`DELETE FROM auction_images WHERE image_id = $1`, imageID); err != nil {
		return fmt.Errorf("delete image %d: %w", imageID, err)
	}
	svc.rc.Invalidate(ctx, cache.AuctionKey(auctionID))
	return nil
}

func (svc *auctionService) SetPrimaryImage(ctx context.Context, imageID, sellerID int64) error {
	auctionID, err := svc.imageOwner(ctx, imageID, sellerID)
	if err != nil {
		return err
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set primary image: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE auction_images SET is_primary = FALSE WHERE auction_id = $1 AND is_primary`,
		auctionID); err != nil {
		return fmt.Errorf("set primary image: demote: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE auction_images SET is_primary = TRUE WHERE image_id = $1`,
		imageID); err != nil {
		return fmt.Errorf("set primary image: promote: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set primary image: commit: %w", err)
	}
	svc.rc.Invalidate(ctx, cache.AuctionKey(auctionID))
	return nil
}

func (svc *auctionService) requireOwner(ctx context.Context, auctionID, sellerID int64) error {
	var ownerID int64
	err := svc.db.QueryRowContext(ctx,
		`SELECT seller_id FROM auctions WHERE auction_id = $1`, auctionID).
		Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load auction %d: %w", auctionID, err)
	}
	if ownerID != sellerID {
		return ErrNotOwner
	}
	return nil
}

func (svc *auctionService) imageOwner(ctx context.Context, imageID, sellerID int64) (int64, error) {
	var (
		auctionID int64
		ownerID   int64
	)
	err := svc.db.QueryRowContext(ctx, `
		SELECT i.auction_id, a.seller_id
		  FROM auction_images i
		  JOIN auctions a ON a.auction_id = i.auction_id
		 WHERE i.image_id = $1`, imageID).
		Scan(&auctionID, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrImageNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load image %d: %w", imageID, err)
	}
	if ownerID != sellerID {
		return 0, ErrNotOwner
	}
	return auctionID, nil
}

// PrimaryImageURL picks the image shown in listings: the flagged primary,
// otherwise the lowest display order. Derived at read time, never stored.
func PrimaryImageURL(images []models.AuctionImage) string {
	if len(images) == 0 {
		return ""
	}
	best := images[0]
	for _, img := range images[1:] {
		if img.IsPrimary && !best.IsPrimary {
			best = img
			continue
		}
		if img.IsPrimary == best.IsPrimary && img.DisplayOrder < best.DisplayOrder {
			best = img
		}
	}
	return best.ImageURL
}

func remainingSeconds(endTime, now time.Time) float64 {
	if d := endTime.Sub(now); d > 0 {
		return d.Seconds()
	}
	return 0
}

func pageWindow(page, pageSize, defaultSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return pageSize, (page - 1) * pageSize
}
