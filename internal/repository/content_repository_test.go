package repository

import (
	"testing"

	"github.com/numora-app/numora-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupContentRepoTest(t *testing.T) (*GormContentRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Video{}, &models.Faq{}, &models.Number{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewContentRepository(db), db
}

func TestListVideosOrderAndPaging(t *testing.T) {
	repo, db := setupContentRepoTest(t)
	db.Create(&models.Video{TitleEN: "Third", URL: "u3", SortOrder: 3})
	db.Create(&models.Video{TitleEN: "First", URL: "u1", SortOrder: 1})
	db.Create(&models.Video{TitleEN: "Second", URL: "u2", SortOrder: 2})

	videos, total, err := repo.ListVideos(ContentListFilter{Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if len(videos) != 2 || videos[0].TitleEN != "First" || videos[1].TitleEN != "Second" {
		t.Fatalf("unexpected page: %+v", videos)
	}

	rest, _, err := repo.ListVideos(ContentListFilter{Offset: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rest) != 1 || rest[0].TitleEN != "Third" {
		t.Fatalf("unexpected second page: %+v", rest)
	}
}

func TestGetFaqMissingReturnsNil(t *testing.T) {
	repo, _ := setupContentRepoTest(t)

	faq, err := repo.GetFaq(42)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if faq != nil {
		t.Fatalf("missing faq should be nil, got %+v", faq)
	}
}

func TestGetNumberByValue(t *testing.T) {
	repo, db := setupContentRepoTest(t)
	db.Create(&models.Number{Value: 7, TitleEN: "The Seeker"})

	number, err := repo.GetNumberByValue(7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if number == nil || number.TitleEN != "The Seeker" {
		t.Fatalf("unexpected number: %+v", number)
	}

	missing, err := repo.GetNumberByValue(3)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing value should be nil, got %+v", missing)
	}
}
