package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/constants"
	"github.com/wavecast/wavecast/internal/models"
	"github.com/wavecast/wavecast/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var mp3Header = append([]byte("ID3"), 0x03, 0x00, 0x00, 0x00, 0x00, 0x00)

func setupAudioServiceTest(t *testing.T) (*AudioService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:audio_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Audio{},
		&models.AudioLike{},
		&models.UserFavorite{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	mediaSvc := NewMediaService(&config.MediaConfig{
		Dir:                    t.TempDir(),
		PublicBase:             "/uploads",
		AudioMaxSize:           10 * 1024 * 1024,
		ImageMaxSize:           1024 * 1024,
		AudioAllowedTypes:      []string{"audio/mpeg"},
		AudioAllowedExtensions: []string{".mp3"},
		ImageAllowedTypes:      []string{"image/png"},
		ImageAllowedExtensions: []string{".png"},
	})
	svc := NewAudioService(
		repository.NewAudioRepository(db),
		repository.NewUserRepository(db),
		mediaSvc,
	)
	return svc, db
}

func seedAudioOwner(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	user := models.User{
		ID:           id,
		Name:         fmt.Sprintf("owner_%d", id),
		Email:        fmt.Sprintf("owner_%d@example.com", id),
		PasswordHash: "hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create owner failed: %v", err)
	}
}

func TestAudioServiceCreate(t *testing.T) {
	svc, db := setupAudioServiceTest(t)
	seedAudioOwner(t, db, 1)

	view, err := svc.Create(1, CreateAudioInput{
		Title:    "  Morning Waves  ",
		About:    "episode one",
		Category: constants.AudioCategoryMusic,
		File:     makeFileHeader(t, "episode.mp3", mp3Header),
		Poster:   makeFileHeader(t, "cover.png", pngHeader),
	})
	if err != nil {
		t.Fatalf("create audio failed: %v", err)
	}
	if view.Title != "Morning Waves" {
		t.Fatalf("expected trimmed title, got: %q", view.Title)
	}
	if view.Category != constants.AudioCategoryMusic {
		t.Fatalf("unexpected category: %s", view.Category)
	}
	if view.File == "" || view.Poster == "" {
		t.Fatalf("expected media urls, got: %+v", view)
	}
	if view.Owner != 1 {
		t.Fatalf("expected owner=1, got: %d", view.Owner)
	}
}

func TestAudioServiceCreateValidation(t *testing.T) {
	svc, db := setupAudioServiceTest(t)
	seedAudioOwner(t, db, 1)

	if _, err := svc.Create(1, CreateAudioInput{
		Title: "", About: "about", File: makeFileHeader(t, "a.mp3", mp3Header),
	}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty title, got: %v", err)
	}

	// 简介为空白时同样拒绝
	if _, err := svc.Create(1, CreateAudioInput{
		Title: "No About", About: "   ", File: makeFileHeader(t, "a.mp3", mp3Header),
	}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty about, got: %v", err)
	}

	if _, err := svc.Create(1, CreateAudioInput{Title: "No File", About: "about"}); !errors.Is(err, ErrFileRequired) {
		t.Fatalf("expected ErrFileRequired, got: %v", err)
	}

	if _, err := svc.Create(1, CreateAudioInput{
		Title:    "Bad Category",
		About:    "about",
		Category: "Podcasting",
		File:     makeFileHeader(t, "a.mp3", mp3Header),
	}); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got: %v", err)
	}

	// 未指定分类时落到 Others
	view, err := svc.Create(1, CreateAudioInput{
		Title: "Defaulted",
		About: "about",
		File:  makeFileHeader(t, "a.mp3", mp3Header),
	})
	if err != nil {
		t.Fatalf("create audio failed: %v", err)
	}
	if view.Category != constants.AudioCategoryOthers {
		t.Fatalf("expected Others category, got: %s", view.Category)
	}
}

func TestAudioServiceListRecentPagination(t *testing.T) {
	svc, db := setupAudioServiceTest(t)
	seedAudioOwner(t, db, 1)

	for i := 0; i < 5; i++ {
		audio := models.Audio{
			Title:     fmt.Sprintf("episode %d", i),
			Category:  constants.AudioCategoryTech,
			OwnerID:   1,
			FileURL:   fmt.Sprintf("/uploads/audio/e%d.mp3", i),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(&audio).Error; err != nil {
			t.Fatalf("seed audio failed: %v", err)
		}
	}

	page, err := svc.ListRecent(2, 0)
	if err != nil {
		t.Fatalf("list recent failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 items, got: %d", len(page))
	}
	if page[0].Title != "episode 4" {
		t.Fatalf("expected newest first, got: %s", page[0].Title)
	}

	rest, err := svc.ListRecent(10, 2)
	if err != nil {
		t.Fatalf("list recent failed: %v", err)
	}
	if len(rest) != 3 {
		t.Fatalf("expected 3 items at offset 2, got: %d", len(rest))
	}
}

func TestAudioServiceToggleLikeAndFavorite(t *testing.T) {
	svc, db := setupAudioServiceTest(t)
	seedAudioOwner(t, db, 1)
	seedAudioOwner(t, db, 2)

	audio := models.Audio{
		Title:    "likeable",
		Category: constants.AudioCategoryMusic,
		OwnerID:  1,
		FileURL:  "/uploads/audio/likeable.mp3",
	}
	if err := db.Create(&audio).Error; err != nil {
		t.Fatalf("seed audio failed: %v", err)
	}

	if _, err := svc.ToggleLike(99999, 2); !errors.Is(err, ErrAudioNotFound) {
		t.Fatalf("expected ErrAudioNotFound, got: %v", err)
	}

	liked, err := svc.ToggleLike(audio.ID, 2)
	if err != nil {
		t.Fatalf("toggle like failed: %v", err)
	}
	if !liked {
		t.Fatal("expected liked=true after first toggle")
	}

	view, err := svc.Get(audio.ID)
	if err != nil {
		t.Fatalf("get audio failed: %v", err)
	}
	if view.Likes != 1 {
		t.Fatalf("expected 1 like, got: %d", view.Likes)
	}

	liked, err = svc.ToggleLike(audio.ID, 2)
	if err != nil {
		t.Fatalf("toggle like failed: %v", err)
	}
	if liked {
		t.Fatal("expected liked=false after second toggle")
	}

	favorited, err := svc.ToggleFavorite(2, audio.ID)
	if err != nil {
		t.Fatalf("toggle favorite failed: %v", err)
	}
	if !favorited {
		t.Fatal("expected favorited=true after first toggle")
	}

	favorites, err := svc.ListFavorites(2)
	if err != nil {
		t.Fatalf("list favorites failed: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != audio.ID {
		t.Fatalf("unexpected favorites: %+v", favorites)
	}

	favorited, err = svc.ToggleFavorite(2, audio.ID)
	if err != nil {
		t.Fatalf("toggle favorite failed: %v", err)
	}
	if favorited {
		t.Fatal("expected favorited=false after second toggle")
	}
}

func TestAudioServiceGetMissing(t *testing.T) {
	svc, _ := setupAudioServiceTest(t)
	if _, err := svc.Get(424242); !errors.Is(err, ErrAudioNotFound) {
		t.Fatalf("expected ErrAudioNotFound, got: %v", err)
	}
}
