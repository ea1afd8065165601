package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fayaebeb/mirai-app-sub001/internal/markdown"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

type NoteService struct {
	repo   repository.NoteRepository
	parser *markdown.Parser
}

func NewNoteService(repo repository.NoteRepository) *NoteService {
	return &NoteService{
		repo:   repo,
		parser: markdown.NewParser(),
	}
}

func (s *NoteService) Create(userID, title, content string, tags []string) (*model.Note, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now()
	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

func (s *NoteService) ByID(userID, noteID string) (*model.Note, error) {
	return s.repo.ByID(userID, noteID)
}

func (s *NoteService) Notes(userID string) ([]*model.Note, error) {
	return s.repo.Notes(userID)
}

func (s *NoteService) Update(userID, noteID, title, content string, tags []string) (*model.Note, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	note, err := s.repo.ByID(userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = title
	note.Content = content
	note.Tags = tags
	note.UpdatedAt = time.Now()

	err = s.repo.Update(note)
	if err != nil {
		return nil, err
	}

	return note, nil
}

func (s *NoteService) Delete(userID, noteID string) error {
	_, err := s.repo.ByID(userID, noteID)
	if err != nil {
		return err
	}

	return s.repo.Delete(userID, noteID)
}

// RenderHTML converts the note's markdown content to HTML.
func (s *NoteService) RenderHTML(userID, noteID string) ([]byte, error) {
	note, err := s.repo.ByID(userID, noteID)
	if err != nil {
		return nil, err
	}

	return s.parser.Parse([]byte(note.Content))
}

// Import creates a note from a raw markdown document. A frontmatter
// block may supply title and tags; otherwise the filename stands in
// for the title.
func (s *NoteService) Import(userID, filename string, source []byte) (*model.Note, error) {
	_, meta, err := s.parser.ParseWithFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title := filename
	if t, ok := meta["title"].(string); ok && t != "" {
		title = t
	}

	var tags []string
	if raw, ok := meta["tags"].([]any); ok {
		for _, v := range raw {
			if tag, ok := v.(string); ok {
				tags = append(tags, tag)
			}
		}
	}

	return s.Create(userID, title, string(source), tags)
}
