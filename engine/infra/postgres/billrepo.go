package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/avasalony-boop/policy-tracker/engine/bill"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const defaultListLimit = 100

// DB is the minimal database interface BillRepo depends on (pgxpool or pgxmock).
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BillRepo implements bill.Repository backed by a pgx-compatible pool.
type BillRepo struct {
	db DB
}

func NewBillRepo(db DB) *BillRepo {
	return &BillRepo{db: db}
}

// The prior-status read locks the bill row so two concurrent upserts of the
// same UID cannot interleave their read-prior/write-new sequences.
const selectPriorStatusQuery = "SELECT status_general FROM bills WHERE bill_uid = $1 FOR UPDATE"

const upsertBillQuery = `
    INSERT INTO bills (
        bill_uid, source, jurisdiction, session, bill_number, title, summary,
        subjects, sponsors_primary, committees, status_general, status_specific,
        introduced_date, effective_date, last_action_date, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    ON CONFLICT (bill_uid) DO UPDATE SET
        source = $2,
        jurisdiction = $3,
        session = $4,
        bill_number = $5,
        title = $6,
        summary = $7,
        subjects = $8,
        sponsors_primary = $9,
        committees = $10,
        status_general = $11,
        status_specific = $12,
        introduced_date = $13,
        effective_date = $14,
        last_action_date = $15,
        updated_at = $16
`

// Actions are keyed by content digest; re-ingesting the same provider data
// inserts nothing.
const insertActionQuery = `
    INSERT INTO actions (id, bill_uid, action_date, organization, classification, action_text)
    VALUES ($1, $2, $3, $4, $5, $6)
    ON CONFLICT (id) DO NOTHING
`

const upsertLabelsQuery = `
    INSERT INTO labels (bill_uid, topic_labels, client_vertical, impact_score)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (bill_uid) DO UPDATE SET
        topic_labels = $2,
        client_vertical = $3,
        impact_score = $4
`

const overviewColumnsSQL = "b.bill_uid, b.jurisdiction, b.bill_number, b.title, " +
	"b.status_general, b.last_action_date, b.effective_date, " +
	"COALESCE(l.topic_labels, '') AS topic_labels"

const effectiveWindowQuery = "SELECT " + overviewColumnsSQL + " " +
	"FROM bills b LEFT JOIN labels l ON l.bill_uid = b.bill_uid " +
	"WHERE b.effective_date <> '' AND b.effective_date BETWEEN $1 AND $2 " +
	"ORDER BY b.effective_date DESC LIMIT 100"

func (r *BillRepo) withTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.FromContext(ctx).Warn("Transaction rollback failed after panic", "error", rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.FromContext(ctx).Warn("Transaction rollback failed", "error", rbErr)
			}
		} else if cErr := tx.Commit(ctx); cErr != nil {
			err = fmt.Errorf("committing transaction: %w", cErr)
		}
	}()
	err = fn(tx)
	return err
}

// Upsert performs the three writes for one bill atomically and reports the
// previously stored status. On any failure the whole transaction rolls back
// and the store keeps its prior state for this bill.
func (r *BillRepo) Upsert(
	ctx context.Context,
	b *bill.Bill,
	actions []bill.Action,
	labels *bill.Labels,
) (bill.UpsertResult, error) {
	var res bill.UpsertResult
	err := r.withTransaction(ctx, func(tx pgx.Tx) error {
		prior, found, err := readPriorStatus(ctx, tx, b.UID)
		if err != nil {
			return err
		}
		res = bill.UpsertResult{PriorStatus: prior, Found: found}
		if err := upsertBill(ctx, tx, b); err != nil {
			return err
		}
		if err := insertActions(ctx, tx, b.UID, actions); err != nil {
			return err
		}
		return upsertLabels(ctx, tx, labels)
	})
	if err != nil {
		return bill.UpsertResult{}, err
	}
	return res, nil
}

func readPriorStatus(ctx context.Context, tx pgx.Tx, uid string) (bill.Status, bool, error) {
	var prior string
	err := tx.QueryRow(ctx, selectPriorStatusQuery, uid).Scan(&prior)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading prior status: %w", err)
	}
	return bill.Status(prior), true, nil
}

func upsertBill(ctx context.Context, tx pgx.Tx, b *bill.Bill) error {
	if _, err := tx.Exec(ctx, upsertBillQuery,
		b.UID, b.Source, b.Jurisdiction, b.Session, b.Number, b.Title, b.Summary,
		b.Subjects, b.SponsorPrimary, b.Committees, b.Status, b.StatusSpecific,
		b.IntroducedDate, b.EffectiveDate, b.LastActionDate, b.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upserting bill %s: %w", b.UID, err)
	}
	return nil
}

func insertActions(ctx context.Context, tx pgx.Tx, billUID string, actions []bill.Action) error {
	for i := range actions {
		a := &actions[i]
		digest := bill.ActionDigest(billUID, a)
		if _, err := tx.Exec(ctx, insertActionQuery,
			digest, billUID, a.Date, a.Organization,
			strings.Join(a.Classification, ","), a.Text,
		); err != nil {
			return fmt.Errorf("inserting action %s: %w", digest, err)
		}
	}
	return nil
}

func upsertLabels(ctx context.Context, tx pgx.Tx, labels *bill.Labels) error {
	if labels == nil {
		return nil
	}
	if _, err := tx.Exec(ctx, upsertLabelsQuery,
		labels.BillUID, strings.Join(labels.Topics, ","),
		labels.Vertical, labels.ImpactScore,
	); err != nil {
		return fmt.Errorf("upserting labels for %s: %w", labels.BillUID, err)
	}
	return nil
}

// List returns bill overviews matching the filter, most recently normalized
// first.
func (r *BillRepo) List(ctx context.Context, filter *bill.ListFilter) ([]*bill.Overview, error) {
	sb := squirrel.Select(
		"b.bill_uid", "b.jurisdiction", "b.bill_number", "b.title",
		"b.status_general", "b.last_action_date", "b.effective_date",
		"COALESCE(l.topic_labels, '') AS topic_labels",
	).
		From("bills b").
		LeftJoin("labels l ON l.bill_uid = b.bill_uid").
		OrderBy("b.updated_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	limit := defaultListLimit
	if filter != nil {
		if filter.Topic != "" {
			sb = sb.Where("l.topic_labels LIKE ?", "%"+filter.Topic+"%")
		}
		if filter.Jurisdiction != "" {
			sb = sb.Where("b.jurisdiction = ?", filter.Jurisdiction)
		}
		if filter.Status != "" {
			sb = sb.Where("b.status_general = ?", string(filter.Status))
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}
	query, args, err := sb.Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}
	var rows []*bill.Overview
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("scanning bill overviews: %w", err)
	}
	return rows, nil
}

// EffectiveBetween returns bills whose effective date falls in [start, end],
// newest effective date first.
func (r *BillRepo) EffectiveBetween(ctx context.Context, start, end string) ([]*bill.Overview, error) {
	var rows []*bill.Overview
	if err := pgxscan.Select(ctx, r.db, &rows, effectiveWindowQuery, start, end); err != nil {
		return nil, fmt.Errorf("scanning effective bills: %w", err)
	}
	return rows, nil
}
