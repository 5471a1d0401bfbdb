package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"labeler/internal/domain"
	"labeler/internal/port"
)

type postingRepo struct {
	db *sqlx.DB
}

// NewPostingRepo creates a new PostgreSQL-backed DocumentSource.
func NewPostingRepo(db *sqlx.DB) port.DocumentSource {
	return &postingRepo{db: db}
}

func (r *postingRepo) ReadText(ctx context.Context, docID string) (string, error) {
	var body string
	err := r.db.GetContext(ctx, &body, `SELECT body FROM postings WHERE id = $1`, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("postingRepo.ReadText %s: %w", docID, domain.ErrDocumentNotFound)
		}
		return "", fmt.Errorf("postingRepo.ReadText: %w", err)
	}
	return body, nil
}

func (r *postingRepo) List(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM postings ORDER BY id`); err != nil {
		return nil, fmt.Errorf("postingRepo.List: %w", err)
	}
	return ids, nil
}
