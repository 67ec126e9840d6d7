package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"fishlog/catchstats"
	"fishlog/models"
	"fishlog/utils"

	"github.com/gosimple/unidecode"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ImageStore persists catch photos and returns their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// CatchInput is the payload of the catch form.
type CatchInput struct {
	Species     string  `json:"species" form:"species"`
	Date        string  `json:"date" form:"date"`
	Time        string  `json:"time" form:"time"`
	Length      float64 `json:"length" form:"length"`
	Weight      float64 `json:"weight" form:"weight"`
	Lure        string  `json:"lure" form:"lure"`
	BodyOfWater string  `json:"body_of_water" form:"body_of_water"`
	Spot        string  `json:"spot" form:"spot"`
	Coordinates string  `json:"coordinates" form:"coordinates"`
	Comment     string  `json:"comment" form:"comment"`

	// CaughtByName overrides the angler name. Guest catches are not linked to any user.
	CaughtByName string `json:"caught_by_name" form:"caught_by_name"`
	Guest        bool   `json:"guest" form:"guest"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatch, fmt.Sprintf(format, args...))
}

// Validate normalizes whitespace and checks the form fields.
func (in *CatchInput) Validate() error {
	in.Species = strings.TrimSpace(in.Species)
	in.BodyOfWater = strings.TrimSpace(in.BodyOfWater)
	in.Spot = strings.TrimSpace(in.Spot)
	in.Lure = strings.TrimSpace(in.Lure)
	in.Coordinates = strings.TrimSpace(in.Coordinates)
	in.Time = strings.TrimSpace(in.Time)

	if in.Species == "" {
		return invalid("species is required")
	}
	if _, err := time.Parse(catchstats.DateLayout, in.Date); err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	if in.Time != "" {
		if _, err := time.Parse(catchstats.TimeLayout, in.Time); err != nil {
			return invalid("time must be HH:MM")
		}
	}
	if in.Length < 0 || in.Weight < 0 {
		return invalid("length and weight must be positive")
	}
	if in.BodyOfWater == "" {
		return invalid("body of water is required")
	}
	if in.Coordinates != "" {
		if _, _, ok := catchstats.ParseCoordinates(in.Coordinates); !ok {
			return invalid("coordinates must be \"lat,lng\"")
		}
	}
	return nil
}

// CatchFilter narrows a catch listing. Species matches case- and accent-insensitively.
type CatchFilter struct {
	Species     string
	BodyOfWater string
	Limit       int
}

type CatchService struct {
	DB     *gorm.DB
	Images ImageStore
	log    zerolog.Logger
}

func NewCatchService(db *gorm.DB, images ImageStore, logger zerolog.Logger) *CatchService {
	return &CatchService{DB: db, Images: images, log: logger}
}

// Create stores a catch logged by userID, uploading any photos first.
func (s *CatchService) Create(ctx context.Context, userID, userName string, in CatchInput, photos []*multipart.FileHeader) (*models.Catch, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	catch := &models.Catch{
		Species: in.Species,
		Date:    in.Date,
		Time:    in.Time,
		Length:  in.Length,
		Weight:  in.Weight,
		Lure:    in.Lure,
		Location: models.CatchLocation{
			BodyOfWater: in.BodyOfWater,
			Spot:        in.Spot,
			Coordinates: in.Coordinates,
		},
		CaughtBy:    models.CaughtBy{Name: userName},
		Images:      []string{},
		Comment:     strings.TrimSpace(in.Comment),
		CreatedByID: userID,
	}
	if in.CaughtByName != "" {
		catch.CaughtBy.Name = strings.TrimSpace(in.CaughtByName)
	}
	if !in.Guest {
		id := userID
		catch.CaughtBy.UserID = &id
	}

	var uploaded []string
	for _, photo := range photos {
		key, url, err := s.uploadPhoto(ctx, userID, in.Species, photo)
		if err != nil {
			s.removePhotos(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, key)
		catch.Images = append(catch.Images, url)
	}

	if err := s.DB.WithContext(ctx).Create(catch).Error; err != nil {
		s.removePhotos(ctx, uploaded)
		return nil, fmt.Errorf("create catch: %w", err)
	}

	s.log.Info().
		Str("catch_id", catch.ID).
		Str("user_id", userID).
		Str("species", catch.Species).
		Int("images", len(catch.Images)).
		Msg("🐟 catch logged")
	return catch, nil
}

func (s *CatchService) uploadPhoto(ctx context.Context, userID, species string, photo *multipart.FileHeader) (key, url string, err error) {
	if s.Images == nil {
		return "", "", errors.New("image storage is not configured")
	}
	contentType, ok := utils.ImageContentType(photo)
	if !ok {
		return "", "", invalid("unsupported image %q", photo.Filename)
	}
	body, _, err := utils.ReadUpload(photo)
	if err != nil {
		return "", "", err
	}
	key = utils.ImageKey(userID, species, photo.Filename)
	url, err = s.Images.Upload(ctx, key, body, contentType)
	return key, url, err
}

// removePhotos deletes objects uploaded for a catch that was never stored.
func (s *CatchService) removePhotos(ctx context.Context, keys []string) {
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.Images.Delete(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("⚠️ failed to remove orphaned photo")
		}
	}
}

func foldSpecies(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}

// List returns catches caught by userID, newest first.
func (s *CatchService) List(ctx context.Context, userID string, f CatchFilter) ([]models.Catch, error) {
	q := s.DB.WithContext(ctx).Where("caught_by_user_id = ?", userID)
	if f.BodyOfWater != "" {
		q = q.Where("location_body_of_water = ?", f.BodyOfWater)
	}

	var catches []models.Catch
	if err := q.Order("date DESC, time DESC").Find(&catches).Error; err != nil {
		return nil, fmt.Errorf("list catches: %w", err)
	}

	if f.Species != "" {
		needle := foldSpecies(f.Species)
		filtered := catches[:0]
		for _, c := range catches {
			if strings.Contains(foldSpecies(c.Species), needle) {
				filtered = append(filtered, c)
			}
		}
		catches = filtered
	}
	if f.Limit > 0 && len(catches) > f.Limit {
		catches = catches[:f.Limit]
	}
	return catches, nil
}

// Get returns a catch the user either caught or logged.
func (s *CatchService) Get(ctx context.Context, userID, id string) (*models.Catch, error) {
	var catch models.Catch
	err := s.DB.WithContext(ctx).
		Where("id = ? AND (caught_by_user_id = ? OR created_by_id = ?)", id, userID, userID).
		First(&catch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get catch: %w", err)
	}
	return &catch, nil
}

// AllForUser returns every catch attributed to userID, oldest first.
func (s *CatchService) AllForUser(ctx context.Context, userID string) ([]models.Catch, error) {
	var catches []models.Catch
	if err := s.DB.WithContext(ctx).
		Where("caught_by_user_id = ?", userID).
		Order("date ASC, time ASC").
		Find(&catches).Error; err != nil {
		return nil, fmt.Errorf("load catches: %w", err)
	}
	return catches, nil
}
