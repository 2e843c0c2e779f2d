package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Detection represents one confirmed gesture detection.
type Detection struct {
	ID          string
	Gesture     string
	Confidence  float64
	Translation string
	ModelKind   string
	CreatedAt   time.Time
}

// DetectionRepository provides persistence for detections.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Record inserts a detection with a fresh ID and timestamp.
func (r *DetectionRepository) Record(gesture string, confidence float64, translation, model string) error {
	_, err := r.db.Exec(
		`INSERT INTO detections (id, gesture, confidence, translation, model_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), gesture, confidence, translation, model, time.Now(),
	)
	return err
}

// GetByID retrieves a detection by its ID.
func (r *DetectionRepository) GetByID(id string) (*Detection, error) {
	d := &Detection{}

	err := r.db.QueryRow(
		`SELECT id, gesture, confidence, translation, model_kind, created_at
		 FROM detections WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Gesture, &d.Confidence, &d.Translation, &d.ModelKind, &d.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return d, nil
}

// List retrieves the most recent detections, newest first. A limit of zero
// or less returns everything.
func (r *DetectionRepository) List(limit int) ([]*Detection, error) {
	query := `SELECT id, gesture, confidence, translation, model_kind, created_at
	          FROM detections ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []*Detection
	for rows.Next() {
		d := &Detection{}
		err := rows.Scan(&d.ID, &d.Gesture, &d.Confidence, &d.Translation, &d.ModelKind, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detections, nil
}

// Count returns the total number of recorded detections.
func (r *DetectionRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&n)
	return n, err
}

// Delete removes a detection by its ID.
func (r *DetectionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM detections WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteOlderThan prunes detections recorded before the cutoff and reports
// how many rows went away.
func (r *DetectionRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM detections WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
