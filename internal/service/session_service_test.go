package service

import (
	"context"
	"errors"
	"testing"

	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSessionServiceTest(t *testing.T) (*SessionService, *gorm.DB, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.SessionToken{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	user := &models.User{ID: "u-session-1", Name: "Sess", Email: "sess@example.com", Status: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	svc := NewSessionService(repository.NewSessionTokenRepository(db), repository.NewUserRepository(db))
	return svc, db, user
}

func TestIssueAndResolve(t *testing.T) {
	svc, _, user := setupSessionServiceTest(t)

	token, err := svc.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if token.Token == "" {
		t.Fatalf("token value should not be empty")
	}

	resolved, err := svc.Resolve(context.Background(), token.Token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("resolved wrong user: %s", resolved.ID)
	}
}

func TestResolveRejectsUnknownToken(t *testing.T) {
	svc, _, _ := setupSessionServiceTest(t)

	cases := []string{"", "   ", "no-such-token"}
	for _, token := range cases {
		if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("token %q want ErrUnauthorized, got %v", token, err)
		}
	}
}

func TestRevoke(t *testing.T) {
	svc, _, user := setupSessionServiceTest(t)

	token, err := svc.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if err := svc.Revoke(context.Background(), token.Token); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), token.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("revoked token should not resolve, got %v", err)
	}
}

func TestRevokeAll(t *testing.T) {
	svc, db, user := setupSessionServiceTest(t)

	first, err := svc.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	second, err := svc.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("each login should get a distinct token")
	}

	if err := svc.RevokeAll(context.Background(), user.ID); err != nil {
		t.Fatalf("revoke all failed: %v", err)
	}
	var count int64
	db.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("all tokens should be removed, got %d", count)
	}
}

func TestResolveRejectsOrphanToken(t *testing.T) {
	svc, db, user := setupSessionServiceTest(t)

	token, err := svc.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	// 用户被删除后残留令牌不得解析成功
	if err := db.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), token.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("orphan token want ErrUnauthorized, got %v", err)
	}
}
