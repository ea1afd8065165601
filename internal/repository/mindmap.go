package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

var (
	ErrMindMapNotFound = errors.New("mind map not found")
)

type MindMapRepository interface {
	Create(m *model.MindMap) error
	ByID(userID, mapID string) (*model.MindMap, error)
	MindMaps(userID string) ([]*model.MindMap, error)
	Delete(userID, mapID string) error
}

type mindMapRepository struct {
	db *sqlx.DB
}

func NewMindMapRepository(db *sqlx.DB) MindMapRepository {
	return &mindMapRepository{db: db}
}

func (r *mindMapRepository) Create(m *model.MindMap) error {
	query := `INSERT INTO mind_maps (id, user_id, topic, data, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, m.ID, m.UserID, m.Topic, m.Data, m.CreatedAt)
	return err
}

func (r *mindMapRepository) ByID(userID, mapID string) (*model.MindMap, error) {
	m := &model.MindMap{}
	query := `SELECT * FROM mind_maps WHERE id = $1 AND user_id = $2`

	err := r.db.Get(m, query, mapID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMindMapNotFound
	}

	return m, err
}

func (r *mindMapRepository) MindMaps(userID string) ([]*model.MindMap, error) {
	var maps []*model.MindMap
	query := `SELECT * FROM mind_maps WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&maps, query, userID)
	if err != nil {
		return nil, err
	}

	return maps, nil
}

func (r *mindMapRepository) Delete(userID, mapID string) error {
	query := `DELETE FROM mind_maps WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, mapID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMindMapNotFound
	}

	return nil
}
