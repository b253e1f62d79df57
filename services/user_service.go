package services

import (
	"errors"

	"github.com/imtarget05/Health-Tracker-App/config"
	"github.com/imtarget05/Health-Tracker-App/models"
)

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("id = ? AND disabled = ?", userID, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	out := map[string]interface{}{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
	}
	if user.LastLoginAt != nil {
		out["last_login_at"] = user.LastLoginAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return out, nil
}

func UpdateUserName(userID uint, fullName string) error {
	var user models.User
	if err := config.DB.Where("id = ? AND disabled = ?", userID, false).First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}
	if fullName != "" {
		user.FullName = fullName
	}
	return config.DB.Save(&user).Error
}

func DeleteUser(userID uint) error {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return err
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}
