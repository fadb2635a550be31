package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

type postgres struct {
	db       *sql.DB
	defaults Defaults
	logger   log.Logger
}

// NewPostgres runs the migrations on db and seeds the buddies table when it is empty.
func NewPostgres(ctx context.Context, db *sql.DB, defaults Defaults, logger log.Logger) (Store, error) {
	p := &postgres{db: db, defaults: defaults, logger: logger}
	if err := p.migrate(ctx); err != nil {
		return nil, err
	}
	if err := p.seedBuddies(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Applies every embedded migration not yet recorded in schema_migrations, in file name order.
func (p *postgres) migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("store: creating schema_migrations: %w", err)
	}
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, name := range files {
		var exists bool
		if err := p.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version=$1)`, name).Scan(&exists); err != nil {
			return fmt.Errorf("store: checking migration %s: %w", name, err)
		}
		if exists {
			continue
		}
		body, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		tx, err := p.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("store: applying migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		p.logger.WithCtx(ctx).Info().Str("migration", name).Msg("Applied migration")
	}
	return nil
}

func (p *postgres) seedBuddies(ctx context.Context) error {
	var count int
	if err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM sports_buddies`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, b := range p.defaults.SeedBuddies() {
		if _, err := p.insertBuddy(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (p *postgres) Tier() string    { return TierPostgres }
func (p *postgres) Available() bool { return true }

const selectLiveGame = `SELECT id, team1_name, team2_name, team1_data, team2_data, status, created_at FROM live_games`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLiveGame(row rowScanner) (entity.LiveGame, error) {
	var (
		game         entity.LiveGame
		team1, team2 []byte
	)
	if err := row.Scan(&game.ID, &game.Team1.Name, &game.Team2.Name, &team1, &team2, &game.Status, &game.CreatedAt); err != nil {
		return entity.LiveGame{}, err
	}
	if err := json.Unmarshal(team1, &game.Team1.Players); err != nil {
		return entity.LiveGame{}, fmt.Errorf("store: decoding team1_data of game %d: %w", game.ID, err)
	}
	if err := json.Unmarshal(team2, &game.Team2.Players); err != nil {
		return entity.LiveGame{}, fmt.Errorf("store: decoding team2_data of game %d: %w", game.ID, err)
	}
	game.CreatedAt = game.CreatedAt.UTC()
	return game, nil
}

func (p *postgres) CurrentLiveGame(ctx context.Context) (entity.LiveGame, error) {
	game, err := scanLiveGame(p.db.QueryRowContext(ctx, selectLiveGame+` ORDER BY created_at DESC, id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		// Create a new game if none exists
		return p.CreateLiveGame(ctx)
	}
	if err != nil {
		p.logger.WithCtx(ctx).Error().Err(err).Msg("Error occured while fetching the current live game")
		return entity.LiveGame{}, err
	}
	return game, nil
}

func (p *postgres) CreateLiveGame(ctx context.Context) (entity.LiveGame, error) {
	game := p.defaults.NewLiveGame(0, time.Now())
	team1, err := json.Marshal(game.Team1.Players)
	if err != nil {
		return entity.LiveGame{}, err
	}
	team2, err := json.Marshal(game.Team2.Players)
	if err != nil {
		return entity.LiveGame{}, err
	}
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO live_games (team1_name, team2_name, team1_data, team2_data, status, created_at)
		 VALUES ($1, $2, $3::jsonb, $4::jsonb, $5, $6) RETURNING id`,
		game.Team1.Name, game.Team2.Name, string(team1), string(team2), game.Status, game.CreatedAt,
	).Scan(&game.ID)
	if err != nil {
		p.logger.WithCtx(ctx).Error().Err(err).Msg("Error occured while creating a live game")
		return entity.LiveGame{}, err
	}
	p.logger.WithCtx(ctx).Info().Int64("game_id", game.ID).Msg("Created live game")
	return game, nil
}

func (p *postgres) LiveGame(ctx context.Context, id int64) (entity.LiveGame, error) {
	game, err := scanLiveGame(p.db.QueryRowContext(ctx, selectLiveGame+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.LiveGame{}, ErrNotFound
	}
	return game, err
}

// Locks the row, applies fn and writes the teams back in one transaction.
func (p *postgres) update(ctx context.Context, id int64, fn func(*entity.LiveGame) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	game, err := scanLiveGame(tx.QueryRowContext(ctx, selectLiveGame+` WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := fn(&game); err != nil {
		return err
	}
	team1, err := json.Marshal(game.Team1.Players)
	if err != nil {
		return err
	}
	team2, err := json.Marshal(game.Team2.Players)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE live_games SET team1_name=$2, team2_name=$3, team1_data=$4::jsonb, team2_data=$5::jsonb WHERE id=$1`,
		id, game.Team1.Name, game.Team2.Name, string(team1), string(team2),
	); err != nil {
		p.logger.WithCtx(ctx).Error().Err(err).Int64("game_id", id).Msg("Error occured while updating a live game")
		return err
	}
	return tx.Commit()
}

func (p *postgres) UpdatePlayerStat(ctx context.Context, id int64, team string, playerIndex int, statType string, value int) error {
	return p.update(ctx, id, func(g *entity.LiveGame) error {
		return applyStat(g, team, playerIndex, statType, value)
	})
}

func (p *postgres) UpdateTeamName(ctx context.Context, id int64, team, name string) error {
	return p.update(ctx, id, func(g *entity.LiveGame) error {
		return applyTeamName(g, team, name)
	})
}

func (p *postgres) UpdatePlayerName(ctx context.Context, id int64, team string, playerIndex int, name string) error {
	return p.update(ctx, id, func(g *entity.LiveGame) error {
		return applyPlayerName(g, team, playerIndex, name)
	})
}

func (p *postgres) ListBuddies(ctx context.Context) ([]entity.Buddy, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, age, sport, location, availability, skill_level, created_at FROM sports_buddies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entity.Buddy{}
	for rows.Next() {
		var (
			b       entity.Buddy
			created time.Time
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Age, &b.Sport, &b.Location, &b.Availability, &b.SkillLevel, &created); err != nil {
			return nil, err
		}
		b.CreatedAt = created.Format("2006-01-02")
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *postgres) insertBuddy(ctx context.Context, b entity.Buddy) (entity.Buddy, error) {
	created := time.Now().UTC()
	if b.CreatedAt != "" {
		if t, err := time.Parse("2006-01-02", b.CreatedAt); err == nil {
			created = t
		}
	}
	b.CreatedAt = created.Format("2006-01-02")
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO sports_buddies (name, age, sport, location, availability, skill_level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		b.Name, b.Age, b.Sport, b.Location, b.Availability, b.SkillLevel, created,
	).Scan(&b.ID)
	return b, err
}

func (p *postgres) AddBuddy(ctx context.Context, buddy entity.Buddy) (entity.Buddy, error) {
	b, err := p.insertBuddy(ctx, buddy)
	if err != nil {
		p.logger.WithCtx(ctx).Error().Err(err).Msg("Error occured while adding a buddy")
	}
	return b, err
}

func (p *postgres) ListGames(ctx context.Context) ([]entity.CompletedGame, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, date, opponent, result, points, rebounds, assists, steals, blocks, turnovers, minutes
		 FROM basketball_games ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entity.CompletedGame{}
	for rows.Next() {
		var (
			g    entity.CompletedGame
			date time.Time
		)
		if err := rows.Scan(&g.ID, &date, &g.Opponent, &g.Result, &g.Points, &g.Rebounds, &g.Assists, &g.Steals, &g.Blocks, &g.Turnovers, &g.Minutes); err != nil {
			return nil, err
		}
		g.Date = date.Format("2006-01-02")
		out = append(out, g)
	}
	return out, rows.Err()
}

func (p *postgres) AddGame(ctx context.Context, g entity.CompletedGame) (entity.CompletedGame, error) {
	date, err := time.Parse("2006-01-02", g.Date)
	if err != nil {
		return entity.CompletedGame{}, fmt.Errorf("store: game date %q: %w", g.Date, err)
	}
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO basketball_games (date, opponent, result, points, rebounds, assists, steals, blocks, turnovers, minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		date, g.Opponent, g.Result, g.Points, g.Rebounds, g.Assists, g.Steals, g.Blocks, g.Turnovers, g.Minutes,
	).Scan(&g.ID)
	if err != nil {
		p.logger.WithCtx(ctx).Error().Err(err).Msg("Error occured while adding a completed game")
		return entity.CompletedGame{}, err
	}
	return g, nil
}

func (p *postgres) Close(context.Context) error {
	return p.db.Close()
}
