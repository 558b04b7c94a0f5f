package scene

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for scene persistence. The
// abstraction allows different implementations (SQLite, mock) and
// enables unit testing without database dependencies.
type Repository interface {
	GetByName(ctx context.Context, name string) (*Scene, error)
	List(ctx context.Context) ([]Scene, error)
	Create(ctx context.Context, sc *Scene) error
	Delete(ctx context.Context, name string) error
}

// sceneColumns is the SELECT column list for scene queries.
const sceneColumns = `name, description, settings, created_at, updated_at`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByName retrieves a scene by its unique name.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*Scene, error) {
	query := `SELECT ` + sceneColumns + ` FROM scenes WHERE name = ?`

	sc, err := scanScene(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
		}
		return nil, fmt.Errorf("querying scene by name: %w", err)
	}
	return sc, nil
}

// List retrieves all scenes in creation order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Scene, error) {
	query := `SELECT ` + sceneColumns + ` FROM scenes ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying scenes: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only result set

	var scenes []Scene
	for rows.Next() {
		sc, scanErr := scanScene(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning scene: %w", scanErr)
		}
		scenes = append(scenes, *sc)
	}
	return scenes, rows.Err()
}

// Create inserts a new scene.
// Returns ErrSceneExists if the name is already taken.
func (r *SQLiteRepository) Create(ctx context.Context, sc *Scene) error {
	settingsJSON, err := json.Marshal(sc.Settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	now := time.Now().UTC()
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = now
	}
	sc.UpdatedAt = now

	query := `
		INSERT INTO scenes (name, description, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		sc.Name,
		sc.Description,
		string(settingsJSON),
		sc.CreatedAt.Format(time.RFC3339Nano),
		sc.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %q", ErrSceneExists, sc.Name)
		}
		return fmt.Errorf("inserting scene: %w", err)
	}
	return nil
}

// Delete removes a scene by name.
// Returns ErrSceneNotFound if the name does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM scenes WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting scene: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScene(scanner rowScanner) (*Scene, error) {
	var sc Scene
	var settingsJSON string
	var createdAt, updatedAt string

	if err := scanner.Scan(&sc.Name, &sc.Description, &settingsJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(settingsJSON), &sc.Settings); err != nil {
		return nil, fmt.Errorf("unmarshalling settings: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		sc.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		sc.UpdatedAt = t
	}
	return &sc, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
