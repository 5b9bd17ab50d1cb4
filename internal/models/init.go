package models

import (
	"strings"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultDemoEmail    = "demo@gobox.local"
	defaultDemoPassword = "GoBox2024!"
)

// InitDemoUser 初始化演示账号；库中已有任意用户时跳过
// 返回演示账号，跳过时返回 nil
func InitDemoUser(email, password string) (*User, error) {
	var count int64
	if err := DB.Model(&User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultDemoEmail
	}
	if password == "" {
		password = defaultDemoPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Demo Parent",
		AccountType:  constants.AccountTypeStudent,
		Locale:       "en-US",
		Status:       constants.UserStatusActive,
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if password == defaultDemoPassword {
		logger.Warnw("demo_user_created_with_default_password", "email", email)
	} else {
		logger.Infow("demo_user_created", "email", email, "password_hidden", true)
	}
	return &user, nil
}
