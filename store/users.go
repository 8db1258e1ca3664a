package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"surplus-food-api/models"

	"gorm.io/gorm"
)

// CreateUser inserts a user and, for restaurant owners registering with a
// profile, the restaurant they own, in one transaction.
func (s *Store) CreateUser(ctx context.Context, user *models.User, restaurant *models.Restaurant) error {
	user.Email = normalizeEmail(user.Email)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Omit("Restrictions").Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		if restaurant == nil {
			return nil
		}
		if user.Role != models.RoleRestaurant {
			return fmt.Errorf("%w: only restaurant accounts can own a restaurant", ErrInvalid)
		}
		restaurant.OwnerID = user.ID
		if err := tx.Omit("Foods").Create(restaurant).Error; err != nil {
			return err
		}
		user.RestaurantID = &restaurant.ID
		return tx.Model(user).Update("restaurant_id", restaurant.ID).Error
	})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// ListRestrictions returns every dietary restriction ordered by type then name
func (s *Store) ListRestrictions(ctx context.Context) ([]models.DietaryRestriction, error) {
	var out []models.DietaryRestriction
	err := s.db.WithContext(ctx).Order("type, name").Find(&out).Error
	return out, err
}

// UserRestrictions returns the restrictions a user has selected
func (s *Store) UserRestrictions(ctx context.Context, userID uint) ([]models.DietaryRestriction, error) {
	user := models.User{ID: userID}
	var out []models.DietaryRestriction
	err := s.db.WithContext(ctx).Model(&user).Order("type, name").Association("Restrictions").Find(&out)
	return out, err
}

// SetUserRestrictions replaces the user's restriction set. Unknown ids fail
// the whole call and leave the previous set in place.
func (s *Store) SetUserRestrictions(ctx context.Context, userID uint, restrictionIDs []uint) ([]models.DietaryRestriction, error) {
	ids := uniqueIDs(restrictionIDs)
	var selected []models.DietaryRestriction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		selected, err = restrictionsByID(tx, ids)
		if err != nil {
			return err
		}
		user := models.User{ID: userID}
		if len(selected) == 0 {
			return tx.Model(&user).Association("Restrictions").Clear()
		}
		return tx.Model(&user).Association("Restrictions").Replace(selected)
	})
	if err != nil {
		return nil, err
	}
	return selected, nil
}

func restrictionsByID(tx *gorm.DB, ids []uint) ([]models.DietaryRestriction, error) {
	selected := []models.DietaryRestriction{}
	if len(ids) == 0 {
		return selected, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&selected).Error; err != nil {
		return nil, err
	}
	if len(selected) != len(ids) {
		return nil, fmt.Errorf("%w: unknown dietary restriction id", ErrInvalid)
	}
	return selected, nil
}

// RestrictionsByName resolves restriction names case-insensitively
func (s *Store) RestrictionsByName(ctx context.Context, names []string) (map[string]models.DietaryRestriction, error) {
	var all []models.DietaryRestriction
	if err := s.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]models.DietaryRestriction, len(all))
	for _, r := range all {
		byName[strings.ToLower(r.Name)] = r
	}
	out := make(map[string]models.DietaryRestriction, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		r, ok := byName[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown dietary restriction %q", ErrInvalid, n)
		}
		out[key] = r
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
