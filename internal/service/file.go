package service

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
	"github.com/fayaebeb/mirai-app-sub001/internal/storage"
)

const maxAvatarSize = 5 << 20 // 5 MB

var (
	ErrStorageUnavailable = errors.New("file storage is not configured")
	ErrFileTooLarge       = errors.New("file exceeds the 5 MB limit")
	ErrUnsupportedType    = errors.New("unsupported image type")
)

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type FileService struct {
	repo    repository.FileRepository
	storage storage.Storage
}

// NewFileService accepts a nil storage; uploads then fail with
// ErrStorageUnavailable instead of at startup, so the app runs without
// S3 in development.
func NewFileService(repo repository.FileRepository, store storage.Storage) *FileService {
	return &FileService{
		repo:    repo,
		storage: store,
	}
}

func (s *FileService) UploadAvatar(userID string, r io.Reader, originalName, mimeType string, size int64) (*model.File, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if size > maxAvatarSize {
		return nil, ErrFileTooLarge
	}

	ext, ok := allowedAvatarTypes[mimeType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	// Replace an existing avatar rather than accumulating versions.
	err := s.DeleteAvatar(userID)
	if err != nil {
		return nil, err
	}

	file := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         model.FileTypeAvatar,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         size,
		CreatedAt:    time.Now(),
	}
	file.Filename = file.ID + ext
	file.StoragePath = path.Join("avatars", userID, file.Filename)

	err = s.storage.Save(file.StoragePath, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	err = s.repo.Create(file)
	if err != nil {
		// Don't leave an orphan object behind.
		delErr := s.storage.Delete(file.StoragePath)
		if delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, err
	}

	return file, nil
}

// AvatarURL returns the user's avatar URL, or "" when none is set.
func (s *FileService) AvatarURL(userID string) string {
	if s.storage == nil {
		return ""
	}

	file, err := s.repo.ByUserAndType(userID, model.FileTypeAvatar)
	if err != nil {
		return ""
	}

	return s.storage.URL(file.StoragePath)
}

func (s *FileService) DeleteAvatar(userID string) error {
	file, err := s.repo.ByUserAndType(userID, model.FileTypeAvatar)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil
		}
		return err
	}

	if s.storage != nil {
		err = s.storage.Delete(file.StoragePath)
		if err != nil {
			return err
		}
	}

	return s.repo.Delete(file.ID)
}
