package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Amanzhol04/esports-portal/models"
	"github.com/Amanzhol04/esports-portal/repositories"
	"github.com/Amanzhol04/esports-portal/storage"
	"github.com/google/uuid"
)

type CreateGameInput struct {
	Title string  `json:"title"`
	Img   *string `json:"img,omitempty"`
}

type UpdateGameInput struct {
	Title *string `json:"title,omitempty"`
	Img   *string `json:"img,omitempty"`
}

type GameService struct {
	repo     repositories.GameRepository
	uploader storage.FileUploader
}

func NewGameService(repo repositories.GameRepository, uploader storage.FileUploader) *GameService {
	return &GameService{repo: repo, uploader: uploader}
}

func (s *GameService) Create(ctx context.Context, input CreateGameInput) (*models.Game, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrGameTitleRequired
	}
	g := &models.Game{
		ID:    uuid.NewString(),
		Title: strings.TrimSpace(input.Title),
		Img:   input.Img,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GameService) List(ctx context.Context) ([]models.Game, error) {
	return s.repo.List(ctx)
}

func (s *GameService) Update(ctx context.Context, id string, input UpdateGameInput) (*models.Game, error) {
	if input.Title == nil && input.Img == nil {
		return nil, validationError("title", "no updatable fields provided")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, ErrGameTitleRequired
	}
	g, err := s.repo.Update(ctx, id, repositories.GameUpdate{Title: input.Title, Img: input.Img})
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *GameService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrGameNotFound) {
		return ErrGameNotFound
	}
	return err
}

func (s *GameService) UploadImage(ctx context.Context, id, contentType string, file io.Reader) (*models.Game, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("games/%s/cover-%d", g.ID, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload game image: %w", err)
	}

	url := s.uploader.GetPublicURL(result.Key)
	if err := s.repo.UpdateImg(ctx, g.ID, &url); err != nil {
		return nil, err
	}
	g.Img = &url
	return g, nil
}
