package auction

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 7, 2, 15, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*auctionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &auctionService{
		db:  db,
		now: func() time.Time { return fixedNow },
	}, mock
}

func validInput() CreateAuctionInput {
	return CreateAuctionInput{
		Title:         "Antique clock",
		Category:      "Collectibles",
		StartingPrice: 50,
		StartTime:     fixedNow.Add(time.Hour),
		EndTime:       fixedNow.Add(73 * time.Hour),
	}
}

func expectSellerLookup(mock sqlmock.Sqlmock, sellerID int64, accountType string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT account_type FROM users WHERE user_id = $1 AND is_active")).
		WithArgs(sellerID).
		WillReturnRows(sqlmock.NewRows([]string{"account_type"}).AddRow(accountType))
}

func TestCreateAuction_RejectsBuyerAccount(t *testing.T) {
	svc, mock := newTestService(t)
	expectSellerLookup(mock, 20, "Buyer")

	_, err := svc.CreateAuction(context.Background(), 20, validInput())
	require.ErrorIs(t, err, ErrNotSeller)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuction_UnknownSeller(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT account_type FROM users WHERE user_id = $1 AND is_active")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"account_type"}))

	_, err := svc.CreateAuction(context.Background(), 10, validInput())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateAuction_WindowValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateAuctionInput)
		want   error
	}{
		{
			name: "start_too_far_in_past",
			mutate: func(in *CreateAuctionInput) {
				in.StartTime = fixedNow.Add(-10 * time.Minute)
			},
			want: ErrStartInPast,
		},
		{
			name: "end_before_start",
			mutate: func(in *CreateAuctionInput) {
				in.EndTime = in.StartTime.Add(-time.Hour)
			},
			want: ErrEndBeforeStart,
		},
		{
			name: "end_equal_to_start",
			mutate: func(in *CreateAuctionInput) {
				in.EndTime = in.StartTime
			},
			want: ErrEndBeforeStart,
		},
		{
			name: "reserve_below_starting",
			mutate: func(in *CreateAuctionInput) {
				r := 49.99
				in.ReservePrice = &r
			},
			want: ErrReserveBelowStarting,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock := newTestService(t)
			expectSellerLookup(mock, 10, "Seller")

			in := validInput()
			tc.mutate(&in)

			_, err := svc.CreateAuction(context.Background(), 10, in)
			require.ErrorIs(t, err, tc.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateAuction_StartSlightlyInPastIsAccepted(t *testing.T) {
	// Within the tolerance window the request stands as given.
	svc, mock := newTestService(t)
	expectSellerLookup(mock, 10, "Seller")

	in := validInput()
	in.StartTime = fixedNow.Add(-2 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO auctions")).
		WillReturnRows(sqlmock.NewRows([]string{"auction_id"}).AddRow(5))

	// CreateAuction re-reads the full view after the insert.
	expectGetAuction(mock, 5)

	out, err := svc.CreateAuction(context.Background(), 10, in)
	require.NoError(t, err)
	require.Equal(t, int64(5), out.AuctionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func expectGetAuction(mock sqlmock.Sqlmock, auctionID int64) {
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE auctions SET view_count = view_count + 1 WHERE auction_id = $1")).
		WithArgs(auctionID).
		WillReturnRows(sqlmock.NewRows([]string{"auction_id", "title", "description",
			"category", "condition", "location", "shipping_info", "starting_price",
			"reserve_price", "current_price", "start_time", "end_time", "is_active",
			"is_featured", "view_count", "seller_id", "created_at"}).
			AddRow(auctionID, "Antique clock", "", "Collectibles", "", "", "",
				50.0, nil, 50.0, fixedNow.Add(time.Hour), fixedNow.Add(73*time.Hour),
				true, false, 1, 10, fixedNow))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT first_name, last_name, email FROM users WHERE user_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name", "email"}).
			AddRow("Sue", "Low", "sue@example.com"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bids WHERE auction_id = $1")).
		WithArgs(auctionID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM auction_images")).
		WithArgs(auctionID).
		WillReturnRows(sqlmock.NewRows([]string{"image_id", "auction_id", "image_url",
			"alt_text", "is_primary", "display_order", "created_at"}))
}

func TestGetAuction(t *testing.T) {
	svc, mock := newTestService(t)
	expectGetAuction(mock, 5)

	out, err := svc.GetAuction(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "Antique clock", out.Title)
	require.Equal(t, "Sue", out.Seller.FirstName)
	require.Equal(t, StatusUpcoming, out.Status)
	require.Equal(t, (73 * time.Hour).Seconds(), out.TimeRemaining)
	require.Empty(t, out.PrimaryImage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAuction_NotFound(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE auctions SET view_count = view_count + 1 WHERE auction_id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"auction_id"}))

	_, err := svc.GetAuction(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAuction_FrozenAfterBiddingStarts(t *testing.T) {
	svc, mock := newTestService(t)

	// Started an hour ago and already carries a bid.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.seller_id, a.start_time")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id", "start_time", "count"}).
			AddRow(10, fixedNow.Add(-time.Hour), 3))

	_, err := svc.UpdateAuction(context.Background(), 5, 10, UpdateAuctionInput{
		Title:   "New title",
		EndTime: fixedNow.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrBiddingStarted)
}

func TestUpdateAuction_WrongOwner(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.seller_id, a.start_time")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id", "start_time", "count"}).
			AddRow(10, fixedNow.Add(time.Hour), 0))

	_, err := svc.UpdateAuction(context.Background(), 5, 99, UpdateAuctionInput{})
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestDeleteAuction_RefusedWithBids(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.seller_id,")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id", "count"}).AddRow(10, 2))

	err := svc.DeleteAuction(context.Background(), 5, 10)
	require.ErrorIs(t, err, ErrHasBids)
}

func TestDeleteAuction_BidFree(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.seller_id,")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id", "count"}).AddRow(10, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM auctions WHERE auction_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeleteAuction(context.Background(), 5, 10))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateAuction_DistinguishesMissingFromForeign(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE auctions SET is_active = FALSE")).
		WithArgs(fixedNow, int64(5), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT seller_id FROM auctions WHERE auction_id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id"}).AddRow(10))

	require.ErrorIs(t, svc.DeactivateAuction(context.Background(), 5, 99), ErrNotOwner)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE auctions SET is_active = FALSE")).
		WithArgs(fixedNow, int64(404), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT seller_id FROM auctions WHERE auction_id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id"}))

	require.ErrorIs(t, svc.DeactivateAuction(context.Background(), 404, 10), ErrNotFound)
}

func TestAddToWatchlist_Duplicate(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, auction_id) DO NOTHING")).
		WithArgs(int64(20), int64(5), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.AddToWatchlist(context.Background(), 5, 20)
	require.ErrorIs(t, err, ErrAlreadyWatched)
}

func TestAddToWatchlist_MissingAuction(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	require.ErrorIs(t, svc.AddToWatchlist(context.Background(), 404, 20), ErrNotFound)
}

func TestRemoveFromWatchlist_NotWatched(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM watchlist_items WHERE user_id = $1 AND auction_id = $2")).
		WithArgs(int64(20), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, svc.RemoveFromWatchlist(context.Background(), 5, 20), ErrNotWatched)
}

func TestAddImage_NewPrimaryDemotesOld(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT seller_id FROM auctions WHERE auction_id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id"}).AddRow(10))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE auction_images SET is_primary = FALSE WHERE auction_id = $1 AND is_primary")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO auction_images")).
		WithArgs(int64(5), "https://img/new.jpg", "front view", true, 1, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"image_id"}).AddRow(33))
	mock.ExpectCommit()

	img, err := svc.AddImage(context.Background(), 5, 10, ImageInput{
		ImageURL:     "https://img/new.jpg",
		AltText:      "front view",
		IsPrimary:    true,
		DisplayOrder: 1,
	})
	require.NoError(t, err)
	require.Equal(t, int64(33), img.ImageID)
	require.True(t, img.IsPrimary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteImage_ForeignSeller(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT i.auction_id, a.seller_id")).
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows([]string{"auction_id", "seller_id"}).AddRow(5, 10))

	require.ErrorIs(t, svc.DeleteImage(context.Background(), 33, 99), ErrNotOwner)
}
