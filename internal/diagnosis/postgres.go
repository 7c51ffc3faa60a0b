package diagnosis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"leafcare.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store on PostgreSQL. The prediction list is stored
// as jsonb to keep its order exactly as the model returned it.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, d *Diagnosis) error {
	if d.ID == "" {
		d.ID = ids.New()
	}
	result, err := json.Marshal(d.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`insert into diagnoses(id, user_id, image_path, result)
		 values($1,$2,$3,$4)
		 returning created_at`,
		d.ID, d.UserID, d.ImagePath, result,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert diagnosis: %w", err)
	}
	return nil
}

func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]Diagnosis, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, image_path, result, created_at
		 from diagnoses
		 where user_id=$1
		 order by created_at desc, id desc`, userID)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	defer rows.Close()

	res := []Diagnosis{}
	for rows.Next() {
		var (
			d      Diagnosis
			result []byte
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.ImagePath, &result, &d.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(result, &d.Result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		res = append(res, d)
	}
	return res, rows.Err()
}
