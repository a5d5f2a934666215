// AngelaMos | 2026
// sql.go

package preference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/automarket/internal/core"
	"github.com/carterperez-dev/automarket/internal/market"
)

const Schema = `
CREATE TABLE IF NOT EXISTS market_preferences (
	profile_id TEXT PRIMARY KEY,
	market     TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// SQLStore is the postgres flavour of the primary store.
type SQLStore struct {
	db        core.DBTX
	profileID string
}

func NewSQLStore(db core.DBTX, profileID string) *SQLStore {
	return &SQLStore{db: db, profileID: profileID}
}

func Migrate(ctx context.Context, db core.DBTX) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate market_preferences: %w", err)
	}
	return nil
}

func (s *SQLStore) Name() string {
	return "postgres"
}

func (s *SQLStore) Read(ctx context.Context) (string, error) {
	query := `SELECT market FROM market_preferences WHERE profile_id = $1`

	var code string
	err := s.db.GetContext(ctx, &code, query, s.profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get market preference: %w", err)
	}

	return code, nil
}

func (s *SQLStore) Write(ctx context.Context, code market.Code) error {
	query := `
		INSERT INTO market_preferences (profile_id, market)
		VALUES ($1, $2)
		ON CONFLICT (profile_id)
		DO UPDATE SET market = EXCLUDED.market, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, s.profileID, code.String()); err != nil {
		return fmt.Errorf("upsert market preference: %w", err)
	}

	return nil
}
