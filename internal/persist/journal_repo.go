package persist

import (
	"context"
	"fmt"

	"github.com/l1jgo/gameserver/internal/system"
)

// JournalRepo stores game activity in the game_journal table.
type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Record implements system.ActivitySink.
func (r *JournalRepo) Record(ctx context.Context, a system.Activity) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO game_journal (kind, game_token, player_token, occurred_at)
		 VALUES ($1, $2, $3, $4)`,
		string(a.Kind), a.Game, a.Player, a.At,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", a.Kind, err)
	}
	return nil
}

// ForGame returns up to limit records of one game, oldest first.
func (r *JournalRepo) ForGame(ctx context.Context, gameToken string, limit int) ([]system.Activity, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT kind, game_token, player_token, occurred_at
		 FROM game_journal WHERE game_token = $1
		 ORDER BY id LIMIT $2`, gameToken, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []system.Activity
	for rows.Next() {
		var a system.Activity
		var kind string
		if err := rows.Scan(&kind, &a.Game, &a.Player, &a.At); err != nil {
			return nil, err
		}
		a.Kind = system.ActivityKind(kind)
		out = append(out, a)
	}
	return out, rows.Err()
}
