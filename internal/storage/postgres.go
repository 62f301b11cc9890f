package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open handle and applies pending migrations.
func NewPostgres(db *sql.DB) (*Postgres, error) {
	p := &Postgres{db: db}
	if err := p.migrate(pgMigration); err != nil {
		return nil, err
	}
	return p, nil
}

// Open connects via the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

var pgMigration = []string{
	`CREATE TABLE podcast (
    id UUID PRIMARY KEY,
    book_id UUID NOT NULL,
    user_id UUID NOT NULL,
    title VARCHAR(255) NOT NULL,
    status VARCHAR(20) NOT NULL,
    language VARCHAR(10) NOT NULL,
    audio_url TEXT,
    script JSONB,
    error_message TEXT,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE UNIQUE INDEX podcast_book_user_idx ON podcast (book_id, user_id)`,
	`CREATE INDEX podcast_status_idx ON podcast (status)`,
}

func (p *Postgres) migrate(wanted []string) error {
	query := `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`
	if _, err := p.db.Exec(query); err != nil {
		return err
	}

	rows, err := p.db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return err
	}
	existing := []string{}
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, q)
	}
	rows.Close()

	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	for _, q := range missing {
		if _, err := p.db.Exec(q); err != nil {
			return err
		}
		if _, err := p.db.Exec(`INSERT INTO migration (query) VALUES ($1)`, q); err != nil {
			return err
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	needed := []string{}
	if len(wanted) < len(existing) {
		return nil, fmt.Errorf("not enough migrations")
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want != existing[i]:
			return nil, fmt.Errorf("incompatible migration: %v", want)
		}
	}

	return needed, nil
}

func (p *Postgres) Save(ctx context.Context, pod *podcast.Podcast) error {
	rec, err := toRecord(pod)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
INSERT INTO podcast (id, book_id, user_id, title, status, language, audio_url, script, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10, $11)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    status = EXCLUDED.status,
    language = EXCLUDED.language,
    audio_url = EXCLUDED.audio_url,
    script = EXCLUDED.script,
    error_message = EXCLUDED.error_message,
    updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.BookID, rec.UserID, rec.Title, rec.Status, rec.Language,
		rec.AudioURL, nullBytes(rec.ScriptJSON), rec.ErrorMessage, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return podcast.ErrPodcastAlreadyExists
		}
		return fmt.Errorf("save podcast: %w", err)
	}

	return nil
}

func (p *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*podcast.Podcast, error) {
	row := p.db.QueryRowContext(ctx, selectPodcast+` WHERE id = $1`, id)
	return scanPodcast(row)
}

func (p *Postgres) FindByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (*podcast.Podcast, error) {
	row := p.db.QueryRowContext(ctx, selectPodcast+` WHERE book_id = $1 AND user_id = $2`, bookID, userID)
	return scanPodcast(row)
}

func (p *Postgres) UpdateStatus(ctx context.Context, id uuid.UUID, status podcast.Status, audioURL, errorMessage string) error {
	res, err := p.db.ExecContext(ctx, `
UPDATE podcast
SET status = $2,
    audio_url = COALESCE(NULLIF($3, ''), audio_url),
    error_message = NULLIF($4, ''),
    updated_at = NOW()
WHERE id = $1`,
		id, string(status), audioURL, errorMessage)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n == 0 {
		return podcast.ErrPodcastNotFound
	}
	return nil
}

func (p *Postgres) FindByStatus(ctx context.Context, status podcast.Status) ([]*podcast.Podcast, error) {
	rows, err := p.db.QueryContext(ctx, selectPodcast+` WHERE status = $1 ORDER BY created_at`, string(status))
	if err != nil {
		return nil, fmt.Errorf("find by status: %w", err)
	}
	defer rows.Close()

	var out []*podcast.Podcast
	for rows.Next() {
		pod, err := scanPodcast(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pod)
	}
	return out, rows.Err()
}

const selectPodcast = `
SELECT id, book_id, user_id, title, status, language,
       COALESCE(audio_url, ''), script, COALESCE(error_message, ''),
       created_at, updated_at
FROM podcast`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPodcast(row rowScanner) (*podcast.Podcast, error) {
	var rec podcastRecord
	err := row.Scan(&rec.ID, &rec.BookID, &rec.UserID, &rec.Title, &rec.Status, &rec.Language,
		&rec.AudioURL, &rec.ScriptJSON, &rec.ErrorMessage, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, podcast.ErrPodcastNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan podcast: %w", err)
	}
	return toAggregate(&rec)
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

func isUniqueViolation(err error) bool {
	// pgx surfaces SQLSTATE 23505 in the error text
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
