package storage

import (
	"log"

	"gorm.io/gorm"

	"marketgo/backend/internal/models"
)

// CreateUser inserts a new account.
func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByID loads one user by primary key.
func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByUsername loads one user by its unique username.
func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateUser persists all fields of user.
func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// IncrementUserReportCount atomically bumps report_count and returns the new
// value. The increment runs as a single UPDATE so concurrent moderation
// consequences against the same user never lose a count.
func (s *Service) IncrementUserReportCount(userID uint) (uint, error) {
	res := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("report_count", gorm.Expr("report_count + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var count uint
	err := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("report_count", &count).Error
	return count, err
}

// SetUserDormant latches the dormant flag. Returns true when this call made
// the transition, false when the user was dormant already.
func (s *Service) SetUserDormant(userID uint) (bool, error) {
	res := s.DB.Model(&models.User{}).
		Where("id = ? AND is_dormant = ?", userID, false).
		UpdateColumn("is_dormant", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("WARNING: user %d set to dormant", userID)
	}
	return res.RowsAffected > 0, nil
}
