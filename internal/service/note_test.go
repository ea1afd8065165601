package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

type fakeNoteRepo struct {
	notes map[string]*model.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: map[string]*model.Note{}}
}

func (f *fakeNoteRepo) Create(note *model.Note) error {
	f.notes[note.ID] = note
	return nil
}

func (f *fakeNoteRepo) ByID(userID, noteID string) (*model.Note, error) {
	n, ok := f.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, repository.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNoteRepo) Notes(userID string) ([]*model.Note, error) {
	var out []*model.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) Update(note *model.Note) error {
	n, ok := f.notes[note.ID]
	if !ok || n.UserID != note.UserID {
		return repository.ErrNoteNotFound
	}
	cp := *note
	f.notes[note.ID] = &cp
	return nil
}

func (f *fakeNoteRepo) Delete(userID, noteID string) error {
	n, ok := f.notes[noteID]
	if !ok || n.UserID != userID {
		return repository.ErrNoteNotFound
	}
	delete(f.notes, noteID)
	return nil
}

func TestNoteCreateRequiresTitle(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())

	_, err := svc.Create("user-1", "", "body", nil)
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestNoteRenderHTML(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())

	note, err := svc.Create("user-1", "Checklist", "# Heading\n\n- [ ] item", nil)
	require.NoError(t, err)

	html, err := svc.RenderHTML("user-1", note.ID)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1")
}

func TestNoteImportReadsFrontmatter(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())

	source := []byte(`---
title: Reading List
tags:
  - books
---

- The Go Programming Language
`)

	note, err := svc.Import("user-1", "reading-list.md", source)
	require.NoError(t, err)
	assert.Equal(t, "Reading List", note.Title)
	assert.Equal(t, model.Tags{"books"}, note.Tags)
	assert.Contains(t, note.Content, "The Go Programming Language")
}

func TestNoteImportFallsBackToFilename(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())

	note, err := svc.Import("user-1", "scratch.md", []byte("# No frontmatter"))
	require.NoError(t, err)
	assert.Equal(t, "scratch.md", note.Title)
	assert.Empty(t, note.Tags)
}
