package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
)

// ReservationRepository defines the database operations on reservations.
type ReservationRepository interface {
	CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error)
	// GetReservationForUpdate locks the reservation row inside the caller's
	// transaction so the release path can flip status and adjust stock safely.
	GetReservationForUpdate(executor SQLExecutor, id int64) (*models.Reservation, error)
	GetReservations(status *string, componentID *int64, page, pageSize int) ([]models.Reservation, int, error)
	UpdateReservationStatus(executor SQLExecutor, id int64, status string) error
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error) {
	query := `INSERT INTO reservations
	          (component_id, quantity, reference, notes, status, expires_at, user_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		reservation.ComponentID, reservation.Quantity, reservation.Reference, reservation.Notes,
		reservation.Status, reservation.ExpiresAt, reservation.UserID,
		currentTime, currentTime,
	).Scan(&reservation.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating reservation: %v", ErrDatabaseError, err)
	}
	reservation.CreatedAt = currentTime
	reservation.UpdatedAt = currentTime
	return reservation.ID, nil
}

func (r *reservationRepository) GetReservationForUpdate(executor SQLExecutor, id int64) (*models.Reservation, error) {
	reservation := &models.Reservation{}
	query := `SELECT id, component_id, quantity, reference, notes, status, expires_at, user_id, created_at, updated_at
	          FROM reservations WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, id).Scan(
		&reservation.ID, &reservation.ComponentID, &reservation.Quantity,
		&reservation.Reference, &reservation.Notes, &reservation.Status,
		&reservation.ExpiresAt, &reservation.UserID,
		&reservation.CreatedAt, &reservation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking reservation ID %d: %v", ErrDatabaseError, id, err)
	}
	return reservation, nil
}

func (r *reservationRepository) GetReservations(status *string, componentID *int64, page, pageSize int) ([]models.Reservation, int, error) {
	reservations := []models.Reservation{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    res.id, res.component_id, res.quantity, res.reference, res.notes, res.status,
	    res.expires_at, res.user_id, res.created_at, res.updated_at,
	    c.code AS component_code, c.name AS component_name,
	    COUNT(*) OVER() AS total_count
	  FROM reservations res
	  JOIN components c ON res.component_id = c.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if status != nil && *status != "" {
		conditions = append(conditions, fmt.Sprintf("res.status = $%d", argCount))
		args = append(args, *status)
		argCount++
	}
	if componentID != nil {
		conditions = append(conditions, fmt.Sprintf("res.component_id = $%d", argCount))
		args = append(args, *componentID)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY res.created_at DESC, res.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var res models.Reservation
		var componentCode, componentName string
		if err := rows.Scan(
			&res.ID, &res.ComponentID, &res.Quantity, &res.Reference, &res.Notes, &res.Status,
			&res.ExpiresAt, &res.UserID, &res.CreatedAt, &res.UpdatedAt,
			&componentCode, &componentName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning reservation: %v", ErrDatabaseError, err)
		}
		res.Component = &models.Component{ID: res.ComponentID, Code: componentCode, Name: componentName}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating reservations: %v", ErrDatabaseError, err)
	}
	return reservations, totalCount, nil
}

func (r *reservationRepository) UpdateReservationStatus(executor SQLExecutor, id int64, status string) error {
	result, err := executor.Exec(`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating reservation ID %d status: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
