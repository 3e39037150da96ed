package repository

import (
	"testing"
	"time"

	"github.com/numora-app/numora-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVerifyCodeRepoTest(t *testing.T) (*GormVerifyCodeRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.VerifyCode{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewVerifyCodeRepository(db), db
}

func TestVerifyCodeGetMissingReturnsNil(t *testing.T) {
	repo, _ := setupVerifyCodeRepoTest(t)

	record, err := repo.Get("nobody", "signup")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if record != nil {
		t.Fatalf("missing record should be nil, got %+v", record)
	}
}

func TestVerifyCodeRefreshConditionalOnSeenTimestamp(t *testing.T) {
	repo, _ := setupVerifyCodeRepoTest(t)

	seen := time.Now().Add(-2 * time.Minute).Truncate(time.Second)
	record := &models.VerifyCode{UserID: "u1", Step: "signup", Code: "1111", Attempts: 2, UpdatedAt: seen}
	if err := repo.Create(record); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get("u1", "signup")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	now := time.Now().Truncate(time.Second)
	ok, err := repo.Refresh(stored.ID, "2222", stored.UpdatedAt, now)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if !ok {
		t.Fatalf("refresh with observed timestamp should win")
	}

	// 第二次以旧时间戳刷新必须落空（乐观并发控制）
	ok, err = repo.Refresh(stored.ID, "3333", stored.UpdatedAt, time.Now())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if ok {
		t.Fatalf("refresh with stale timestamp should lose")
	}

	reload, err := repo.Get("u1", "signup")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reload.Code != "2222" {
		t.Fatalf("winner's code should persist, got %s", reload.Code)
	}
	if reload.Attempts != 0 {
		t.Fatalf("refresh should reset attempts, got %d", reload.Attempts)
	}
}

func TestVerifyCodeIncrementAttempts(t *testing.T) {
	repo, _ := setupVerifyCodeRepoTest(t)

	record := &models.VerifyCode{UserID: "u1", Step: "forgot", Code: "5555", UpdatedAt: time.Now()}
	if err := repo.Create(record); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.IncrementAttempts(record.ID); err != nil {
			t.Fatalf("increment failed: %v", err)
		}
	}
	reload, err := repo.Get("u1", "forgot")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reload.Attempts != 3 {
		t.Fatalf("attempts want 3 got %d", reload.Attempts)
	}
}

func TestVerifyCodeDeleteReportsRowsAffected(t *testing.T) {
	repo, _ := setupVerifyCodeRepoTest(t)

	record := &models.VerifyCode{UserID: "u1", Step: "deleteme", Code: "9999", UpdatedAt: time.Now()}
	if err := repo.Create(record); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := repo.Delete(record.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !deleted {
		t.Fatalf("first delete should report a removed row")
	}

	deleted, err = repo.Delete(record.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted {
		t.Fatalf("second delete should report nothing removed")
	}
}

func TestVerifyCodeUniquePerUserAndStep(t *testing.T) {
	repo, _ := setupVerifyCodeRepoTest(t)

	first := &models.VerifyCode{UserID: "u1", Step: "signup", Code: "1000", UpdatedAt: time.Now()}
	if err := repo.Create(first); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	dup := &models.VerifyCode{UserID: "u1", Step: "signup", Code: "2000", UpdatedAt: time.Now()}
	if err := repo.Create(dup); err == nil {
		t.Fatalf("duplicate (user, step) should violate the unique index")
	}
}
