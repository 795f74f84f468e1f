package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"plangate/internal/auditlog"
)

// PostgresStore persists the audit trail and runs the aggregation queries
// in SQL. A serial sequence column breaks ties between entries sharing a
// timestamp so "latest state" stays deterministic.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit_entries table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_entries (
			seq         BIGSERIAL PRIMARY KEY,
			id          TEXT NOT NULL UNIQUE,
			type        TEXT NOT NULL,
			tenant_id   TEXT NOT NULL DEFAULT '',
			user_id     TEXT NOT NULL DEFAULT '',
			module      TEXT NOT NULL DEFAULT '',
			feature     TEXT NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL,
			ip_address  TEXT NOT NULL DEFAULT '',
			device      JSONB,
			payload     JSONB NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS audit_entries_type_time_idx ON audit_entries (type, occurred_at);
		CREATE INDEX IF NOT EXISTS audit_entries_user_idx ON audit_entries (user_id, occurred_at)
	`)
	if err != nil {
		return fmt.Errorf("ensure audit_entries schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, entry *auditlog.Entry) error {
	payload, err := marshalEntryPayload(entry)
	if err != nil {
		return err
	}
	var device []byte
	if entry.Context.Device != nil {
		device, err = json.Marshal(entry.Context.Device)
		if err != nil {
			return fmt.Errorf("marshal audit device: %w", err)
		}
	}

	query := `
		INSERT INTO audit_entries (id, type, tenant_id, user_id, module, feature, occurred_at, ip_address, device, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID.String(), string(entry.Type), entry.TenantID, entry.UserID.String(),
		entry.Module, entry.Feature, entry.OccurredAt, entry.Context.IPAddress,
		device, payload,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountDistinctUsersByEventType(ctx context.Context, t auditlog.EventType, r auditlog.TimeRange) (int, error) {
	where, args := rangeClause(r, []string{"type = $1", "user_id <> ''"}, []any{string(t)})
	query := "SELECT COUNT(DISTINCT user_id) FROM audit_entries WHERE " + where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count distinct users: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountEventsByType(ctx context.Context, t auditlog.EventType, r auditlog.TimeRange) (int, error) {
	where, args := rangeClause(r, []string{"type = $1"}, []any{string(t)})
	query := "SELECT COUNT(*) FROM audit_entries WHERE " + where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events by type: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) AggregateModuleAccesses(ctx context.Context, r auditlog.TimeRange) ([]auditlog.ModuleUsage, error) {
	where, args := rangeClause(r,
		[]string{"type IN ($1, $2)"},
		[]any{string(auditlog.EventModuleAccessed), string(auditlog.EventFeatureAccessed)},
	)
	query := `
		SELECT COALESCE(NULLIF(module, ''), '` + auditlog.UnknownModule + `') AS module, COUNT(*)
		FROM audit_entries
		WHERE ` + where + `
		GROUP BY 1
		ORDER BY COUNT(*) DESC, 1 ASC
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate module accesses: %w", err)
	}
	defer rows.Close()

	var usage []auditlog.ModuleUsage
	for rows.Next() {
		var u auditlog.ModuleUsage
		if err := rows.Scan(&u.Module, &u.Count); err != nil {
			return nil, fmt.Errorf("scan module usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func (s *PostgresStore) AggregateUserStatus(ctx context.Context, r auditlog.TimeRange) (auditlog.UserStatusBreakdown, error) {
	where, args := rangeClause(r,
		[]string{"type IN ($1, $2)", "user_id <> ''"},
		[]any{string(auditlog.EventUserBlocked), string(auditlog.EventUserUnblocked)},
	)
	query := `
		SELECT type, COUNT(*)
		FROM (
			SELECT DISTINCT ON (user_id) user_id, type
			FROM audit_entries
			WHERE ` + where + `
			ORDER BY user_id, occurred_at DESC, seq DESC
		) latest
		GROUP BY type
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return auditlog.UserStatusBreakdown{}, fmt.Errorf("aggregate user status: %w", err)
	}
	defer rows.Close()

	var breakdown auditlog.UserStatusBreakdown
	for rows.Next() {
		var (
			t     string
			count int
		)
		if err := rows.Scan(&t, &count); err != nil {
			return auditlog.UserStatusBreakdown{}, fmt.Errorf("scan user status: %w", err)
		}
		if auditlog.EventType(t) == auditlog.EventUserBlocked {
			breakdown.Blocked = count
		} else {
			breakdown.Active = count
		}
	}
	return breakdown, rows.Err()
}

func (s *PostgresStore) CountFinancialEvents(ctx context.Context, r auditlog.TimeRange) (int, error) {
	return s.CountEventsByType(ctx, auditlog.EventFinancial, r)
}

// rangeClause appends inclusive time bounds to the given conditions,
// numbering the placeholders after the existing args.
func rangeClause(r auditlog.TimeRange, conditions []string, args []any) (string, []any) {
	if r.From != nil {
		args = append(args, *r.From)
		conditions = append(conditions, "occurred_at >= $"+strconv.Itoa(len(args)))
	}
	if r.To != nil {
		args = append(args, *r.To)
		conditions = append(conditions, "occurred_at <= $"+strconv.Itoa(len(args)))
	}
	return strings.Join(conditions, " AND "), args
}

func marshalEntryPayload(entry *auditlog.Entry) ([]byte, error) {
	if entry.Payload == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(entry.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return b, nil
}
