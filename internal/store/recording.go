package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Recording is a raw sign recording stored in the database.
type Recording struct {
	ID        int64           `json:"id"`
	SignID    string          `json:"sign_id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordingRepository provides access to raw sign recordings.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

// Create stores a recording for a sign and increments the sign's
// recording count in the same transaction.
func (r *RecordingRepository) Create(signID string, data json.RawMessage) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE signs SET recordings = recordings + 1, updated_at = ? WHERE id = ?`,
		time.Now(), signID,
	)
	if err != nil {
		return 0, err
	}
	if err := expectRow(result); err != nil {
		return 0, err
	}

	result, err = tx.Exec(`INSERT INTO sign_recordings (sign_id, data) VALUES (?, ?)`, signID, string(data))
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

// GetBySignID retrieves all recordings for a sign, oldest first.
func (r *RecordingRepository) GetBySignID(signID string) ([]Recording, error) {
	rows, err := r.db.Query(
		`SELECT id, sign_id, data, created_at
		 FROM sign_recordings
		 WHERE sign_id = ?
		 ORDER BY id`,
		signID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []Recording
	for rows.Next() {
		var rec Recording
		var data string
		if err := rows.Scan(&rec.ID, &rec.SignID, &data, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Data = json.RawMessage(data)
		recordings = append(recordings, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recordings, nil
}

// DeleteBySignID removes all recordings for a sign.
func (r *RecordingRepository) DeleteBySignID(signID string) error {
	_, err := r.db.Exec(`DELETE FROM sign_recordings WHERE sign_id = ?`, signID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE signs SET recordings = 0 WHERE id = ?`, signID)
	return err
}
