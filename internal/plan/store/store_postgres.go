package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"plangate/internal/plan"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/sentinel"
)

// PostgresStore persists plan definitions. Rule documents are stored as
// JSONB columns; a plan row is replaced wholesale on save, matching the
// immutable-value semantics of the domain type.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the plans table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS plans (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL,
			role_mappings JSONB NOT NULL DEFAULT '[]',
			module_rules  JSONB NOT NULL DEFAULT '[]',
			feature_rules JSONB NOT NULL DEFAULT '[]',
			usage_limits  JSONB NOT NULL DEFAULT '[]',
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure plans schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, p *plan.Plan) error {
	roleMappings, err := json.Marshal(p.RoleMappings)
	if err != nil {
		return fmt.Errorf("marshal role mappings: %w", err)
	}
	moduleRules, err := json.Marshal(p.ModuleRules)
	if err != nil {
		return fmt.Errorf("marshal module rules: %w", err)
	}
	featureRules, err := json.Marshal(p.FeatureRules)
	if err != nil {
		return fmt.Errorf("marshal feature rules: %w", err)
	}
	usageLimits, err := json.Marshal(p.UsageLimits)
	if err != nil {
		return fmt.Errorf("marshal usage limits: %w", err)
	}

	query := `
		INSERT INTO plans (id, name, description, status, role_mappings, module_rules, feature_rules, usage_limits, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			role_mappings = EXCLUDED.role_mappings,
			module_rules = EXCLUDED.module_rules,
			feature_rules = EXCLUDED.feature_rules,
			usage_limits = EXCLUDED.usage_limits,
			updated_at = now()
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID.String(), p.Name, p.Description, string(p.Status),
		roleMappings, moduleRules, featureRules, usageLimits,
	)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	return s.findOne(ctx, `SELECT id, name, description, status, role_mappings, module_rules, feature_rules, usage_limits FROM plans WHERE id = $1`, planID.String())
}

func (s *PostgresStore) FindActiveByID(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	return s.findOne(ctx, `SELECT id, name, description, status, role_mappings, module_rules, feature_rules, usage_limits FROM plans WHERE id = $1 AND status = 'active'`, planID.String())
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, status, role_mappings, module_rules, feature_rules, usage_limits FROM plans WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active plans: %w", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *PostgresStore) findOne(ctx context.Context, query, planID string) (*plan.Plan, error) {
	row := s.db.QueryRowContext(ctx, query, planID)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*plan.Plan, error) {
	var (
		p            plan.Plan
		planID       string
		status       string
		roleMappings []byte
		moduleRules  []byte
		featureRules []byte
		usageLimits  []byte
	)
	if err := row.Scan(&planID, &p.Name, &p.Description, &status, &roleMappings, &moduleRules, &featureRules, &usageLimits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	p.ID = id.PlanID(planID)
	p.Status = plan.Status(status)
	if err := json.Unmarshal(roleMappings, &p.RoleMappings); err != nil {
		return nil, fmt.Errorf("unmarshal role mappings: %w", err)
	}
	if err := json.Unmarshal(moduleRules, &p.ModuleRules); err != nil {
		return nil, fmt.Errorf("unmarshal module rules: %w", err)
	}
	if err := json.Unmarshal(featureRules, &p.FeatureRules); err != nil {
		return nil, fmt.Errorf("unmarshal feature rules: %w", err)
	}
	if err := json.Unmarshal(usageLimits, &p.UsageLimits); err != nil {
		return nil, fmt.Errorf("unmarshal usage limits: %w", err)
	}
	return &p, nil
}
