package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

type NoteRepository interface {
	Create(note *model.Note) error
	ByID(userID, noteID string) (*model.Note, error)
	Notes(userID string) ([]*model.Note, error)
	Update(note *model.Note) error
	Delete(userID, noteID string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *model.Note) error {
	query := `INSERT INTO notes (id, user_id, title, content, tags, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.Tags,
		note.CreatedAt,
		note.UpdatedAt,
	)

	return err
}

func (r *noteRepository) ByID(userID, noteID string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1 AND user_id = $2`

	err := r.db.Get(note, query, noteID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}

	return note, err
}

func (r *noteRepository) Notes(userID string) ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT * FROM notes WHERE user_id = $1 ORDER BY updated_at DESC`

	err := r.db.Select(&notes, query, userID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Update(note *model.Note) error {
	query := `UPDATE notes SET title = $1, content = $2, tags = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	result, err := r.db.Exec(query, note.Title, note.Content, note.Tags, time.Now(), note.ID, note.UserID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}

func (r *noteRepository) Delete(userID, noteID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, noteID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}
