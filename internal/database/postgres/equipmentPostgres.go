package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"equiplend/internal/entity"
)

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

// derivedStatus reports the live projection: borrowed while an ongoing
// booking exists, regardless of what the cached column says. Listing
// endpoints read this; the availability gate reads the stored column.
const derivedStatus = `
	CASE WHEN EXISTS (
		SELECT 1 FROM bookings b WHERE b.equipment_id = e.id AND b.status = 'ongoing'
	) THEN 'borrowed' ELSE 'available' END`

const equipmentColumns = `
	e.id, e.name, e.model, e.description, e.category, e.category_id,
	` + derivedStatus + ` AS status,
	e.image_url, e.created_at, e.updated_at`

func scanEquipment(row interface {
	Scan(dest ...interface{}) error
}) (*entity.Equipment, error) {
	var equipment entity.Equipment
	var description, imageURL sql.NullString
	var categoryID sql.NullInt64
	err := row.Scan(
		&equipment.ID,
		&equipment.Name,
		&equipment.Model,
		&description,
		&equipment.Category,
		&categoryID,
		&equipment.Status,
		&imageURL,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	equipment.Description = description.String
	equipment.ImageURL = imageURL.String
	if categoryID.Valid {
		equipment.CategoryID = &categoryID.Int64
	}
	return &equipment, nil
}

func (r *equipmentRepository) Create(ctx context.Context, equipment *entity.Equipment) error {
	query := `
		INSERT INTO equipment (
			name, model, description, category, category_id, status, image_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	now := time.Now()
	if equipment.Status == "" {
		equipment.Status = entity.EquipmentStatusAvailable
	}

	err := r.db.QueryRowContext(ctx, query,
		equipment.Name,
		equipment.Model,
		equipment.Description,
		equipment.Category,
		equipment.CategoryID,
		equipment.Status,
		equipment.ImageURL,
		now,
		now,
	).Scan(&equipment.ID)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}

	equipment.CreatedAt = now
	equipment.UpdatedAt = now
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment e WHERE e.id = $1`

	equipment, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEquipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return equipment, nil
}

// GetStoredStatus returns the cached status column without the live
// projection. The availability check gates on this value.
func (r *equipmentRepository) GetStoredStatus(ctx context.Context, id int64) (entity.EquipmentStatus, error) {
	var status entity.EquipmentStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM equipment WHERE id = $1`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", entity.ErrEquipmentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get equipment status: %w", err)
	}
	return status, nil
}

func (r *equipmentRepository) GetAll(ctx context.Context, filter *entity.EquipmentFilter) ([]*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment e WHERE 1=1`
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND e.category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND %s = $%d", derivedStatus, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (e.name ILIKE $%d OR e.model ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY e.id ASC"
	args = append(args, filter.Skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment: %w", err)
	}
	defer rows.Close()

	var items []*entity.Equipment
	for rows.Next() {
		equipment, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, equipment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equipment: %w", err)
	}
	return items, nil
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *entity.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $1, model = $2, description = $3, category = $4,
		    category_id = $5, status = $6, image_url = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		equipment.Name,
		equipment.Model,
		equipment.Description,
		equipment.Category,
		equipment.CategoryID,
		equipment.Status,
		equipment.ImageURL,
		time.Now(),
		equipment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEquipmentNotFound
	}
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEquipmentNotFound
	}
	return nil
}

func (r *equipmentRepository) SetStatus(ctx context.Context, id int64, status entity.EquipmentStatus) error {
	query := `UPDATE equipment SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set equipment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEquipmentNotFound
	}
	return nil
}

func (r *equipmentRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipment`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete equipment: %w", err)
	}
	return result.RowsAffected()
}

func (r *equipmentRepository) ResetBorrowed(ctx context.Context) (int64, error) {
	query := `UPDATE equipment SET status = 'available', updated_at = $1 WHERE status = 'borrowed'`
	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to reset equipment status: %w", err)
	}
	return result.RowsAffected()
}

func (r *equipmentRepository) CountByStatus(ctx context.Context) (total, available, borrowed int64, err error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'available' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'borrowed' THEN 1 ELSE 0 END), 0)
		FROM equipment
	`
	err = r.db.QueryRowContext(ctx, query).Scan(&total, &available, &borrowed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count equipment: %w", err)
	}
	return total, available, borrowed, nil
}

func (r *equipmentRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count equipment by category: %w", err)
	}
	return count, nil
}

func (r *equipmentRepository) RenameCategory(ctx context.Context, categoryID int64, newName string) error {
	query := `UPDATE equipment SET category = $1, updated_at = $2 WHERE category_id = $3`
	if _, err := r.db.ExecContext(ctx, query, newName, time.Now(), categoryID); err != nil {
		return fmt.Errorf("failed to rename equipment category: %w", err)
	}
	return nil
}
