package services

import (
	"context"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/pkg/logger"
)

const avatarFolder = "avatars"

// ProfileService manages avatars and followed-author listings
type ProfileService struct {
	users     repositories.UserRepository
	dishes    repositories.DishRepository
	relations repositories.RelationRepository
	images    *ImageService
}

// NewProfileService creates a new ProfileService
func NewProfileService(users repositories.UserRepository, dishes repositories.DishRepository, relations repositories.RelationRepository, images *ImageService) *ProfileService {
	return &ProfileService{users: users, dishes: dishes, relations: relations, images: images}
}

// SetAvatar stores a new avatar for the user and returns its blob key. The
// previous avatar blob is removed. Only the user's own current key may be
// resubmitted in place of an upload.
func (s *ProfileService) SetAvatar(ctx context.Context, userID uint, raw string) (string, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	key, err := s.images.Save(ctx, raw, avatarFolder, user.Avatar)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateAvatar(ctx, userID, key); err != nil {
		return "", err
	}
	if user.Avatar != "" && user.Avatar != key {
		s.dropBlob(ctx, user.Avatar)
	}
	return key, nil
}

// RemoveAvatar clears the user's avatar; removing an absent avatar is a no-op
func (s *ProfileService) RemoveAvatar(ctx context.Context, userID uint) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}
	if err := s.users.UpdateAvatar(ctx, userID, ""); err != nil {
		return err
	}
	s.dropBlob(ctx, user.Avatar)
	return nil
}

func (s *ProfileService) dropBlob(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to delete avatar")
	}
}

// Subscriptions lists the authors userID follows, each with up to dishLimit of
// their newest dishes (all when dishLimit <= 0) and their total dish count
func (s *ProfileService) Subscriptions(ctx context.Context, userID uint, dishLimit int) ([]models.Subscription, error) {
	ids, err := s.relations.GetObjectIDs(ctx, models.RelationFollow, userID)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	subs := make([]models.Subscription, 0, len(authors))
	for i := range authors {
		author := &authors[i]
		dishes, err := s.dishes.GetDishesByCreator(ctx, author.ID, dishLimit)
		if err != nil {
			return nil, err
		}
		total, err := s.dishes.CountDishesByCreator(ctx, author.ID)
		if err != nil {
			return nil, err
		}
		shorts := make([]models.DishShort, len(dishes))
		for j := range dishes {
			shorts[j] = ToDishShort(&dishes[j])
		}
		subs = append(subs, models.Subscription{
			UserCompact: author.ToCompact(true),
			Dishes:      shorts,
			TotalDishes: total,
		})
	}
	return subs, nil
}
