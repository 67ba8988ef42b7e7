package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
)

// MovementTypeRepository reads the movement-type catalog. The catalog is
// seeded by the schema and never written through the API.
type MovementTypeRepository interface {
	GetMovementTypeByID(id int64) (*models.MovementType, error)
	GetMovementTypes() ([]models.MovementType, error)
}

type movementTypeRepository struct {
	db *sql.DB
}

// NewMovementTypeRepository creates a new instance of MovementTypeRepository.
func NewMovementTypeRepository(db *sql.DB) MovementTypeRepository {
	return &movementTypeRepository{db: db}
}

func (r *movementTypeRepository) GetMovementTypeByID(id int64) (*models.MovementType, error) {
	mt := &models.MovementType{}
	query := `SELECT id, code, name, operation, description FROM movement_types WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&mt.ID, &mt.Code, &mt.Name, &mt.Operation, &mt.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting movement type by ID %d: %v", ErrDatabaseError, id, err)
	}
	return mt, nil
}

func (r *movementTypeRepository) GetMovementTypes() ([]models.MovementType, error) {
	types := []models.MovementType{}
	query := `SELECT id, code, name, operation, description FROM movement_types ORDER BY code`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting movement types: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var mt models.MovementType
		if err := rows.Scan(&mt.ID, &mt.Code, &mt.Name, &mt.Operation, &mt.Description); err != nil {
			return nil, fmt.Errorf("%w: scanning movement type: %v", ErrDatabaseError, err)
		}
		types = append(types, mt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating movement types: %v", ErrDatabaseError, err)
	}
	return types, nil
}
