package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// Schema:
//
//	CREATE TABLE leads (
//	  id            CHAR(36)      NOT NULL PRIMARY KEY,
//	  session_id    CHAR(36)      NOT NULL,
//	  user_id       BIGINT UNSIGNED NULL,
//	  variant_id    CHAR(36)      NOT NULL,
//	  variant_name  VARCHAR(255)  NOT NULL,
//	  color_name    VARCHAR(255)  NOT NULL DEFAULT '',
//	  wheel_id      VARCHAR(64)   NOT NULL DEFAULT '',
//	  seat_id       VARCHAR(64)   NOT NULL DEFAULT '',
//	  accessory_ids JSON          NOT NULL,
//	  total_price   DECIMAL(14,2) NOT NULL,
//	  created_at    TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);

// LeadRepo persists finished configurations.
type LeadRepo struct {
	db *sql.DB
}

// NewLeadRepo constructs a LeadRepo given a DB handle.
func NewLeadRepo(db *sql.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

// Create inserts a lead.  The caller supplies the id.
func (r *LeadRepo) Create(ctx context.Context, l *model.Lead) error {
	ids := l.AccessoryIDs
	if ids == nil {
		ids = []string{}
	}
	acc, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	const q = `INSERT INTO leads
		(id, session_id, user_id, variant_id, variant_name, color_name, wheel_id, seat_id, accessory_ids, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var uid any
	if l.UserID != nil {
		uid = *l.UserID
	}
	_, err = r.db.ExecContext(ctx, q,
		l.ID, l.SessionID, uid, l.VariantID, l.VariantName, l.ColorName, l.WheelID, l.SeatID,
		string(acc), l.TotalPrice.StringFixed(2))
	return err
}

const leadColumns = `id, session_id, user_id, variant_id, variant_name, color_name, wheel_id, seat_id,
	accessory_ids, total_price, created_at`

func scanLead(s rowScanner) (*model.Lead, error) {
	var (
		l     model.Lead
		uid   sql.NullInt64
		acc   []byte
		total string
	)
	if err := s.Scan(&l.ID, &l.SessionID, &uid, &l.VariantID, &l.VariantName, &l.ColorName, &l.WheelID,
		&l.SeatID, &acc, &total, &l.CreatedAt); err != nil {
		return nil, err
	}
	if uid.Valid {
		v := uint64(uid.Int64)
		l.UserID = &v
	}
	l.AccessoryIDs = []string{}
	if len(acc) > 0 {
		if err := json.Unmarshal(acc, &l.AccessoryIDs); err != nil {
			return nil, err
		}
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	l.TotalPrice = d
	return &l, nil
}

// GetByID fetches a lead, returning ErrLeadNotFound when absent.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	l, err := scanLead(r.db.QueryRowContext(ctx, "SELECT "+leadColumns+" FROM leads WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListRecent returns the newest leads first.
func (r *LeadRepo) ListRecent(ctx context.Context, limit int) ([]*model.Lead, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+leadColumns+" FROM leads ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
