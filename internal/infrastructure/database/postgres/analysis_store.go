package postgres

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/pkg/errors"
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

// AnalysisStore persists completed batch analyses.  Result rows are stored
// as a jsonb document; the evaluator's output is immutable once written, so
// no row-level schema is needed.
type AnalysisStore struct {
	conn   *Connection
	logger logging.Logger
}

// NewAnalysisStore builds a store on top of an open connection.
func NewAnalysisStore(conn *Connection, log logging.Logger) *AnalysisStore {
	return &AnalysisStore{conn: conn, logger: log.Named("analysis-store")}
}

// isNoRows matches pgx.ErrNoRows anywhere in the chain, since scan errors
// may arrive wrapped.
func isNoRows(err error) bool {
	return stderrors.Is(err, pgx.ErrNoRows)
}

// Save writes an analysis.  The id must be unique; replaying the same id is
// a conflict.
func (s *AnalysisStore) Save(ctx context.Context, a *compound.Analysis) error {
	results, err := json.Marshal(a.Results)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to serialize analysis results")
	}

	const q = `
		INSERT INTO analyses (id, submitted_at, compound_count, results)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.conn.Pool().Exec(ctx, q, a.ID, a.SubmittedAt, a.Count, results); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to save analysis").
			WithDetail(a.ID)
	}
	s.logger.Debug("analysis saved",
		logging.String("analysis_id", a.ID),
		logging.Int("compounds", a.Count),
	)
	return nil
}

// GetByID loads one analysis, or CodeAnalysisNotFound.
func (s *AnalysisStore) GetByID(ctx context.Context, id string) (*compound.Analysis, error) {
	const q = `
		SELECT id, submitted_at, compound_count, results
		FROM analyses
		WHERE id = $1`

	var a compound.Analysis
	var results []byte
	err := s.conn.Pool().QueryRow(ctx, q, id).Scan(&a.ID, &a.SubmittedAt, &a.Count, &results)
	if isNoRows(err) {
		return nil, errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load analysis").WithDetail(id)
	}
	if err := json.Unmarshal(results, &a.Results); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "corrupt analysis results").WithDetail(id)
	}
	return &a, nil
}

// ListRecent returns the newest analyses without their result payloads.
func (s *AnalysisStore) ListRecent(ctx context.Context, limit int) ([]compound.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
		SELECT id, submitted_at, compound_count
		FROM analyses
		ORDER BY submitted_at DESC
		LIMIT $1`

	rows, err := s.conn.Pool().Query(ctx, q, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	var analyses []compound.Analysis
	for rows.Next() {
		var a compound.Analysis
		if err := rows.Scan(&a.ID, &a.SubmittedAt, &a.Count); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan analysis row")
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to iterate analyses")
	}
	return analyses, nil
}

// Delete removes one analysis; deleting an unknown id is a no-op that
// reports CodeAnalysisNotFound.
func (s *AnalysisStore) Delete(ctx context.Context, id string) error {
	tag, err := s.conn.Pool().Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete analysis").WithDetail(id)
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	return nil
}
