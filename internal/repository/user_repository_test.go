package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:user_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.UserIdentity{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestUserRepositoryBumpTokenVersion(t *testing.T) {
	db := setupUserRepositoryTest(t)
	repo := NewUserRepository(db)

	user := &models.User{Email: "jane@example.com", PasswordHash: "hash", Status: constants.UserStatusActive}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	version, err := repo.BumpTokenVersion(user.ID, time.Now())
	if err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}

	if _, err := repo.BumpTokenVersion(user.ID+100, time.Now()); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestUserIdentityRepositoryLookup(t *testing.T) {
	db := setupUserRepositoryTest(t)
	repo := NewUserIdentityRepository(db)

	got, err := repo.GetByProviderSubject(constants.UserOAuthProviderGoogle, "sub-1")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) before create, got %+v %v", got, err)
	}
	if err := repo.Create(&models.UserIdentity{UserID: 1, Provider: constants.UserOAuthProviderGoogle, Subject: "sub-1"}); err != nil {
		t.Fatalf("create identity failed: %v", err)
	}
	got, err = repo.GetByProviderSubject(constants.UserOAuthProviderGoogle, "sub-1")
	if err != nil || got == nil || got.UserID != 1 {
		t.Fatalf("unexpected identity: %+v %v", got, err)
	}
	if err := repo.Create(&models.UserIdentity{UserID: 2, Provider: constants.UserOAuthProviderGoogle, Subject: "sub-1"}); err == nil {
		t.Fatalf("expected unique violation for duplicate subject")
	}
}
