package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/signmatch/internal/gesture"
)

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoFeatures is returned when a sign has no stored profile yet.
	ErrNoFeatures = errors.New("no features")
)

// Sign represents a reference sign stored in the database.
type Sign struct {
	ID         string
	Name       string
	OneHanded  bool
	FrameCount int
	Recordings int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SignRepository provides CRUD operations for signs and their features.
type SignRepository struct {
	db *sql.DB
}

// Signs returns the sign repository for this store.
func (s *Store) Signs() *SignRepository {
	return &SignRepository{db: s.db}
}

const signColumns = `id, name, one_handed, frame_count, recordings, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSign(row scanner) (*Sign, error) {
	sg := &Sign{}
	err := row.Scan(&sg.ID, &sg.Name, &sg.OneHanded, &sg.FrameCount, &sg.Recordings, &sg.CreatedAt, &sg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sg, nil
}

// Create inserts a new sign into the database.
func (r *SignRepository) Create(sg *Sign) error {
	now := time.Now()
	sg.CreatedAt = now
	sg.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO signs (`+signColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sg.ID, sg.Name, sg.OneHanded, sg.FrameCount, sg.Recordings, sg.CreatedAt, sg.UpdatedAt,
	)
	return err
}

// GetByID retrieves a sign by its ID.
func (r *SignRepository) GetByID(id string) (*Sign, error) {
	return r.getOne(`SELECT `+signColumns+` FROM signs WHERE id = ?`, id)
}

// GetByName retrieves a sign by its name.
func (r *SignRepository) GetByName(name string) (*Sign, error) {
	return r.getOne(`SELECT `+signColumns+` FROM signs WHERE name = ?`, name)
}

func (r *SignRepository) getOne(query string, arg string) (*Sign, error) {
	sg, err := scanSign(r.db.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sg, nil
}

// List retrieves all signs ordered by name.
func (r *SignRepository) List() ([]*Sign, error) {
	rows, err := r.db.Query(`SELECT ` + signColumns + ` FROM signs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signs []*Sign
	for rows.Next() {
		sg, err := scanSign(rows)
		if err != nil {
			return nil, err
		}
		signs = append(signs, sg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return signs, nil
}

// Update updates the name and handedness of an existing sign.
func (r *SignRepository) Update(sg *Sign) error {
	sg.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE signs SET name = ?, one_handed = ?, updated_at = ? WHERE id = ?`,
		sg.Name, sg.OneHanded, sg.UpdatedAt, sg.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// Delete removes a sign and, by cascade, its features and recordings.
func (r *SignRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM signs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

func expectRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeatures replaces the stored profile of sign id. The sign's
// handedness and frame count are updated to match p.
func (r *SignRepository) SetFeatures(id string, p *gesture.Profile) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE signs SET one_handed = ?, frame_count = ?, updated_at = ? WHERE id = ?`,
		p.OneHanded, len(p.Dominant), time.Now(), id,
	)
	if err != nil {
		return err
	}
	if err := expectRow(result); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM sign_channels WHERE sign_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sign_patches WHERE sign_id = ?`, id); err != nil {
		return err
	}

	for _, c := range gesture.Channels {
		t := p.Channel(c)
		if len(t) == 0 {
			continue
		}
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode channel %s: %w", c, err)
		}
		if _, err := tx.Exec(`INSERT INTO sign_channels (sign_id, channel, data) VALUES (?, ?, ?)`,
			id, string(c), string(data)); err != nil {
			return err
		}
	}

	for _, s := range gesture.Slots {
		v := p.Patch(s)
		if len(v) == 0 {
			continue
		}
		data, err := json.Marshal([]float64(v))
		if err != nil {
			return fmt.Errorf("encode patch %s: %w", s, err)
		}
		if _, err := tx.Exec(`INSERT INTO sign_patches (sign_id, slot, data) VALUES (?, ?, ?)`,
			id, string(s), string(data)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetFeatures loads the stored profile of sign id. It returns ErrNotFound
// for an unknown sign and ErrNoFeatures if none were stored.
func (r *SignRepository) GetFeatures(id string) (*gesture.Profile, error) {
	sg, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	p := &gesture.Profile{ID: sg.ID, Name: sg.Name, OneHanded: sg.OneHanded}

	rows, err := r.db.Query(`SELECT channel, data FROM sign_channels WHERE sign_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := 0
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, err
		}
		var t gesture.Trajectory
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode channel %s: %w", name, err)
		}
		p.SetChannel(gesture.Channel(name), t)
		channels++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if channels == 0 {
		return nil, ErrNoFeatures
	}

	prows, err := r.db.Query(`SELECT slot, data FROM sign_patches WHERE sign_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var slot, data string
		if err := prows.Scan(&slot, &data); err != nil {
			return nil, err
		}
		var v []float64
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("decode patch %s: %w", slot, err)
		}
		p.SetPatch(gesture.Slot(slot), v)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	return p, nil
}
