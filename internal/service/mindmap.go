package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

var (
	ErrTopicRequired = errors.New("topic is required")
)

// MindMapGenerator produces a mind-map JSON document for a topic.
type MindMapGenerator interface {
	GenerateMindMap(ctx context.Context, topic string) (string, error)
}

type MindMapService struct {
	repo      repository.MindMapRepository
	generator MindMapGenerator
}

func NewMindMapService(repo repository.MindMapRepository, generator MindMapGenerator) *MindMapService {
	return &MindMapService{
		repo:      repo,
		generator: generator,
	}
}

func (s *MindMapService) Generate(ctx context.Context, userID, topic string) (*model.MindMap, error) {
	if topic == "" {
		return nil, ErrTopicRequired
	}

	data, err := s.generator.GenerateMindMap(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mind map: %w", err)
	}

	m := &model.MindMap{
		ID:        uuid.New().String(),
		UserID:    userID,
		Topic:     topic,
		Data:      data,
		CreatedAt: time.Now(),
	}

	err = s.repo.Create(m)
	if err != nil {
		return nil, fmt.Errorf("failed to store mind map: %w", err)
	}

	return m, nil
}

func (s *MindMapService) MindMaps(userID string) ([]*model.MindMap, error) {
	return s.repo.MindMaps(userID)
}

func (s *MindMapService) Delete(userID, mapID string) error {
	_, err := s.repo.ByID(userID, mapID)
	if err != nil {
		return err
	}

	return s.repo.Delete(userID, mapID)
}
