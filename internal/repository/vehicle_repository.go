// This file defines the vehicles repository.  A vehicle row is one sellable
// variant; its option lists and image maps live in JSON columns on the same
// row, the way the back-office writes them.  Reads return the row as stored
// (model.VehicleRecord); typing and null handling happen in the catalog
// loader.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// Schema:
//
//	CREATE TABLE vehicles (
//	  id           CHAR(36)     NOT NULL PRIMARY KEY,
//	  category_id  VARCHAR(64)  NOT NULL,
//	  name         VARCHAR(255) NOT NULL,
//	  base_price   VARCHAR(64)  NULL,
//	  cover_image  VARCHAR(1024) NOT NULL DEFAULT '',
//	  images       JSON NULL,
//	  interior     JSON NULL,
//	  transmission VARCHAR(16)  NOT NULL DEFAULT 'both',
//	  colors       JSON NULL,
//	  wheels       JSON NULL,
//	  seat_types   JSON NULL,
//	  accessories  JSON NULL,
//	  created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	  updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
//	  KEY idx_vehicles_category (category_id)
//	);
const vehicleColumns = `id, category_id, name, base_price, cover_image, images, interior,
	transmission, colors, wheels, seat_types, accessories, created_at, updated_at`

// VehicleRepo encapsulates all database queries related to vehicles.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo constructs a VehicleRepo with the provided DB handle.
func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(s rowScanner) (*model.VehicleRecord, error) {
	var (
		v     model.VehicleRecord
		price sql.NullString
	)
	err := s.Scan(&v.ID, &v.CategoryID, &v.Name, &price, &v.CoverImage, &v.Images, &v.Interior,
		&v.Transmission, &v.Colors, &v.Wheels, &v.SeatTypes, &v.Accessories, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		v.BasePrice = model.PriceOf(price.String)
	}
	return &v, nil
}

// ReadOne fetches the vehicle with the given id.  It returns
// ErrVehicleNotFound if no row matches.
func (r *VehicleRepo) ReadOne(ctx context.Context, id string) (*model.VehicleRecord, error) {
	q := "SELECT " + vehicleColumns + " FROM vehicles WHERE id = ?"
	v, err := scanVehicle(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// ReadFirst returns the default vehicle used when no id is given: the
// oldest row.  An empty table yields ErrVehicleNotFound.
func (r *VehicleRepo) ReadFirst(ctx context.Context) (*model.VehicleRecord, error) {
	q := "SELECT " + vehicleColumns + " FROM vehicles ORDER BY created_at, id LIMIT 1"
	v, err := scanVehicle(r.db.QueryRowContext(ctx, q))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// ReadMany returns every vehicle of a category except excludeID, ordered
// by name.
func (r *VehicleRepo) ReadMany(ctx context.Context, categoryID, excludeID string) ([]*model.VehicleRecord, error) {
	q := "SELECT " + vehicleColumns + " FROM vehicles WHERE category_id = ? AND id <> ? ORDER BY name, id"
	return r.query(ctx, q, categoryID, excludeID)
}

// List returns vehicles for public browsing, optionally narrowed to one
// category.
func (r *VehicleRepo) List(ctx context.Context, categoryID string, limit, offset int) ([]*model.VehicleRecord, error) {
	where := []string{}
	args := []any{}
	if categoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, categoryID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := "SELECT " + vehicleColumns + " FROM vehicles WHERE " + cond + " ORDER BY category_id, name, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	return r.query(ctx, q, args...)
}

func (r *VehicleRepo) query(ctx context.Context, q string, args ...any) ([]*model.VehicleRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.VehicleRecord{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert inserts the vehicle or replaces every column of an existing row
// with the same id.  Timestamps are managed by the database.
func (r *VehicleRepo) Upsert(ctx context.Context, v *model.VehicleRecord) error {
	var price any
	if raw := v.BasePrice.Value(); raw != nil {
		price = raw
	}
	const q = `INSERT INTO vehicles
		(id, category_id, name, base_price, cover_image, images, interior, transmission, colors, wheels, seat_types, accessories)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		category_id = VALUES(category_id), name = VALUES(name), base_price = VALUES(base_price),
		cover_image = VALUES(cover_image), images = VALUES(images), interior = VALUES(interior),
		transmission = VALUES(transmission), colors = VALUES(colors), wheels = VALUES(wheels),
		seat_types = VALUES(seat_types), accessories = VALUES(accessories)`
	_, err := r.db.ExecContext(ctx, q,
		v.ID, v.CategoryID, v.Name, price, v.CoverImage, nullJSON(v.Images), nullJSON(v.Interior), v.Transmission,
		nullJSON(v.Colors), nullJSON(v.Wheels), nullJSON(v.SeatTypes), nullJSON(v.Accessories))
	return err
}

// Delete removes a vehicle.  Leads keep their copy of the variant name, so
// they do not block deletion.  A missing row yields ErrVehicleNotFound.
func (r *VehicleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
