package db_client

import (
	"database/sql"
	"fmt"
)

// Migrate bootstraps the marketplace schema. Every statement is
// idempotent, so running it on every start is safe.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id       BIGSERIAL PRIMARY KEY,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			account_type  TEXT NOT NULL,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS auctions (
			auction_id     BIGSERIAL PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL DEFAULT '',
			condition      TEXT NOT NULL DEFAULT '',
			location       TEXT NOT NULL DEFAULT '',
			shipping_info  TEXT NOT NULL DEFAULT '',
			starting_price DOUBLE PRECISION NOT NULL,
			reserve_price  DOUBLE PRECISION,
			current_price  DOUBLE PRECISION NOT NULL,
			start_time     TIMESTAMPTZ NOT NULL,
			end_time       TIMESTAMPTZ NOT NULL,
			is_active      BOOLEAN NOT NULL DEFAULT TRUE,
			is_featured    BOOLEAN NOT NULL DEFAULT FALSE,
			view_count     BIGINT NOT NULL DEFAULT 0,
			seller_id      BIGINT NOT NULL REFERENCES users(user_id),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ,
			version        BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS bids (
			bid_id         BIGSERIAL PRIMARY KEY,
			auction_id     BIGINT NOT NULL REFERENCES auctions(auction_id) ON DELETE CASCADE,
			bidder_id      BIGINT NOT NULL REFERENCES users(user_id),
			amount         DOUBLE PRECISION NOT NULL,
			bid_time       TIMESTAMPTZ NOT NULL,
			is_winning_bid BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_auction_ranking
			ON bids (auction_id, amount DESC, bid_time ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_bidder ON bids (bidder_id)`,
		`CREATE TABLE IF NOT EXISTS watchlist_items (
			user_id    BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			auction_id BIGINT NOT NULL REFERENCES auctions(auction_id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, auction_id)
		)`,
		`CREATE TABLE IF NOT EXISTS auction_images (
			image_id      BIGSERIAL PRIMARY KEY,
			auction_id    BIGINT NOT NULL REFERENCES auctions(auction_id) ON DELETE CASCADE,
			image_url     TEXT NOT NULL,
			alt_text      TEXT NOT NULL DEFAULT '',
			is_primary    BOOLEAN NOT NULL DEFAULT FALSE,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
