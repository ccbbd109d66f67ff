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

type CreateTournamentInput struct {
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Location     *string   `json:"location,omitempty"`
	Slots        int       `json:"slots"`
	Game         *string   `json:"game,omitempty"`
	Img          *string   `json:"img,omitempty"`
	RoomID       *string   `json:"room_id,omitempty"`
	RoomPassword *string   `json:"room_password,omitempty"`
	ShowRoom     bool      `json:"show_room"`
}

type UpdateTournamentInput struct {
	Title        *string `json:"title,omitempty"`
	Date         *string `json:"date,omitempty"`
	Location     *string `json:"location,omitempty"`
	Slots        *int    `json:"slots,omitempty"`
	Game         *string `json:"game,omitempty"`
	Img          *string `json:"img,omitempty"`
	RoomID       *string `json:"room_id,omitempty"`
	RoomPassword *string `json:"room_password,omitempty"`
	ShowRoom     *bool   `json:"show_room,omitempty"`
}

type TournamentService struct {
	repo     repositories.TournamentRepository
	uploader storage.FileUploader // nil, если загрузки не сконфигурированы
}

func NewTournamentService(repo repositories.TournamentRepository, uploader storage.FileUploader) *TournamentService {
	return &TournamentService{repo: repo, uploader: uploader}
}

func (s *TournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTournamentTitleRequired
	}
	if input.Slots <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}

	t := &models.Tournament{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(input.Title),
		Date:         input.Date,
		Location:     input.Location,
		Slots:        input.Slots,
		Game:         input.Game,
		Img:          input.Img,
		RoomID:       input.RoomID,
		RoomPassword: input.RoomPassword,
		ShowRoom:     input.ShowRoom,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

// List возвращает турниры; для публичного доступа реквизиты лобби скрываются.
func (s *TournamentService) List(ctx context.Context, includeRoomCredentials bool) ([]models.Tournament, error) {
	tournaments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if !includeRoomCredentials {
		for i := range tournaments {
			tournaments[i] = tournaments[i].Sanitized()
		}
	}
	return tournaments, nil
}

func (s *TournamentService) Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error) {
	if input.Slots != nil && *input.Slots <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, ErrTournamentTitleRequired
	}

	upd := repositories.TournamentUpdate{
		Title:        input.Title,
		Date:         input.Date,
		Location:     input.Location,
		Slots:        input.Slots,
		Game:         input.Game,
		Img:          input.Img,
		RoomID:       input.RoomID,
		RoomPassword: input.RoomPassword,
		ShowRoom:     input.ShowRoom,
	}
	t, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TournamentService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

// UploadImage загружает обложку турнира в объектное хранилище и сохраняет
// публичный URL в записи турнира.
func (s *TournamentService) UploadImage(ctx context.Context, id, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%s/cover-%d", t.ID, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament image: %w", err)
	}

	url := s.uploader.GetPublicURL(result.Key)
	if err := s.repo.UpdateImg(ctx, t.ID, &url); err != nil {
		return nil, err
	}
	t.Img = &url
	return t, nil
}
