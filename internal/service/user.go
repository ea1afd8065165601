package service

import (
	"time"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

type UserService struct {
	repo        repository.UserRepository
	fileService *FileService
}

func NewUserService(repo repository.UserRepository, fileService *FileService) *UserService {
	return &UserService{
		repo:        repo,
		fileService: fileService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	user, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = s.fileService.AvatarURL(user.ID)
	return user, nil
}

// CompleteOnboarding stamps the user as onboarded. Idempotent.
func (s *UserService) CompleteOnboarding(userID string) (*model.User, error) {
	user, err := s.repo.ByID(userID)
	if err != nil {
		return nil, err
	}

	if user.OnboardedAt == nil {
		now := time.Now()
		user.OnboardedAt = &now
		err = s.repo.Update(user)
		if err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *UserService) Delete(userID string) error {
	err := s.fileService.DeleteAvatar(userID)
	if err != nil {
		return err
	}

	return s.repo.Delete(userID)
}
