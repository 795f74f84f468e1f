package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"plangate/internal/assignment/models"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/sentinel"
)

// PostgresStore persists the append-only assignment history. A serial
// sequence column decides "current" deterministically even when two
// assignments share a timestamp.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the plan_assignments table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS plan_assignments (
			seq             BIGSERIAL PRIMARY KEY,
			id              TEXT NOT NULL UNIQUE,
			user_id         TEXT NOT NULL,
			plan_id         TEXT NOT NULL,
			applied_at      TIMESTAMPTZ NOT NULL,
			effective_roles JSONB NOT NULL DEFAULT '[]',
			metadata        JSONB NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS plan_assignments_user_idx ON plan_assignments (user_id, seq)
	`)
	if err != nil {
		return fmt.Errorf("ensure plan_assignments schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Assign(ctx context.Context, a *models.Assignment) error {
	return s.append(ctx, a)
}

func (s *PostgresStore) ChangePlan(ctx context.Context, _ id.UserID, next *models.Assignment) error {
	return s.append(ctx, next)
}

func (s *PostgresStore) append(ctx context.Context, a *models.Assignment) error {
	roles, err := json.Marshal(a.EffectiveRoles)
	if err != nil {
		return fmt.Errorf("marshal effective roles: %w", err)
	}
	metadata := a.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal assignment metadata: %w", err)
	}

	query := `
		INSERT INTO plan_assignments (id, user_id, plan_id, applied_at, effective_roles, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		a.ID.String(), a.UserID.String(), a.PlanID.String(), a.AppliedAt, roles, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("append assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindCurrentByUser(ctx context.Context, userID id.UserID) (*models.Assignment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, plan_id, applied_at, effective_roles, metadata
		FROM plan_assignments
		WHERE user_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`, userID.String())

	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return a, err
}

func (s *PostgresStore) ListHistory(ctx context.Context, userID id.UserID) ([]*models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, plan_id, applied_at, effective_roles, metadata
		FROM plan_assignments
		WHERE user_id = $1
		ORDER BY seq ASC
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list assignment history: %w", err)
	}
	defer rows.Close()

	var history []*models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, a)
	}
	return history, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var (
		a        models.Assignment
		aID      string
		userID   string
		planID   string
		roles    []byte
		metadata []byte
	)
	if err := row.Scan(&aID, &userID, &planID, &a.AppliedAt, &roles, &metadata); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	a.ID = id.AssignmentID(aID)
	a.UserID = id.UserID(userID)
	a.PlanID = id.PlanID(planID)
	if err := json.Unmarshal(roles, &a.EffectiveRoles); err != nil {
		return nil, fmt.Errorf("unmarshal effective roles: %w", err)
	}
	if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal assignment metadata: %w", err)
	}
	return &a, nil
}
