package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"gorm.io/gorm"

	"feedpulse/internal/ports"
)

func setupFeedbackRepos(t *testing.T) (*ApplicationRepository, *FeedbackRepository, *gorm.DB) {
	t.Helper()
	db := setupDB(t)
	return NewApplicationRepository(db), NewFeedbackRepository(db), db
}

func seedApp(t *testing.T, repo *ApplicationRepository, slug string) ports.Application {
	t.Helper()
	app, err := repo.CreateApplication(context.Background(), testApplication(slug, "hash-"+slug))
	if err != nil {
		t.Fatalf("seed application %s: %v", slug, err)
	}
	return app
}

func feedbackCreate(appID uint64, mutate func(*ports.FeedbackCreate)) ports.FeedbackCreate {
	rating := 4
	category := "bug"
	content := "something broke"
	input := ports.FeedbackCreate{
		AppID:      appID,
		Rating:     &rating,
		Category:   &category,
		Content:    &content,
		DeviceJSON: `{"os":"ios"}`,
		MetaJSON:   "{}",
		AppVersion: "1.0.0",
		OSName:     "ios",
		Status:     "pending",
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if mutate != nil {
		mutate(&input)
	}
	return input
}

func TestCreateFeedbackRoundTrip(t *testing.T) {
	appsRepo, repo, _ := setupFeedbackRepos(t)
	ctx := context.Background()
	app := seedApp(t, appsRepo, "demo-app")

	created, err := repo.CreateFeedback(ctx, feedbackCreate(app.AppID, nil))
	if err != nil {
		t.Fatalf("CreateFeedback() error = %v", err)
	}
	if created.FeedbackID == 0 {
		t.Fatal("feedback_id = 0")
	}

	got, err := repo.GetFeedback(ctx, created.FeedbackID)
	if err != nil {
		t.Fatalf("GetFeedback() error = %v", err)
	}
	if got.AppID != app.AppID || got.Status != "pending" {
		t.Fatalf("GetFeedback() = %+v", got)
	}
	if got.Rating == nil || *got.Rating != 4 {
		t.Fatalf("rating = %v", got.Rating)
	}
	if got.Category == nil || *got.Category != "bug" {
		t.Fatalf("category = %v", got.Category)
	}
	if got.DeviceJSON != `{"os":"ios"}` || got.CreatedAt != created.CreatedAt {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Reads are idempotent.
	again, err := repo.GetFeedback(ctx, created.FeedbackID)
	if err != nil {
		t.Fatalf("second GetFeedback() error = %v", err)
	}
	if !reflect.DeepEqual(again, got) {
		t.Fatalf("repeated read differs: %+v vs %+v", again, got)
	}
}

func TestFeedbackIDsAreMonotonic(t *testing.T) {
	appsRepo, repo, _ := setupFeedbackRepos(t)
	ctx := context.Background()
	app := seedApp(t, appsRepo, "demo-app")

	var last uint64
	for i := 0; i < 3; i++ {
		created, err := repo.CreateFeedback(ctx, feedbackCreate(app.AppID, nil))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if created.FeedbackID <= last {
			t.Fatalf("feedback_id %d not greater than %d", created.FeedbackID, last)
		}
		last = created.FeedbackID
	}
}

func TestListFeedbackFilters(t *testing.T) {
	appsRepo, repo, _ := setupFeedbackRepos(t)
	ctx := context.Background()
	appOne := seedApp(t, appsRepo, "app-one")
	appTwo := seedApp(t, appsRepo, "app-two")

	mustCreate := func(appID uint64, mutate func(*ports.FeedbackCreate)) ports.FeedbackRecord {
		t.Helper()
		created, err := repo.CreateFeedback(ctx, feedbackCreate(appID, mutate))
		if err != nil {
			t.Fatalf("create feedback: %v", err)
		}
		return created
	}

	bugIOS := mustCreate(appOne.AppID, nil)
	mustCreate(appOne.AppID, func(in *ports.FeedbackCreate) {
		category := "feature"
		in.Category = &category
		in.OSName = "android"
		in.AppVersion = "2.0.0"
	})
	mustCreate(appTwo.AppID, nil)

	byApp, err := repo.ListFeedback(ctx, ports.FeedbackFilter{AppID: appOne.AppID})
	if err != nil {
		t.Fatalf("list by app: %v", err)
	}
	if len(byApp) != 2 {
		t.Fatalf("list by app len = %d", len(byApp))
	}

	rating := 4
	combined, err := repo.ListFeedback(ctx, ports.FeedbackFilter{
		AppID:      appOne.AppID,
		Status:     "pending",
		Category:   "bug",
		Rating:     &rating,
		AppVersion: "1.0.0",
		OSName:     "ios",
	})
	if err != nil {
		t.Fatalf("combined filter: %v", err)
	}
	if len(combined) != 1 || combined[0].FeedbackID != bugIOS.FeedbackID {
		t.Fatalf("combined filter = %+v", combined)
	}

	newest, err := repo.ListFeedback(ctx, ports.FeedbackFilter{NewestFirst: true, Limit: 2})
	if err != nil {
		t.Fatalf("newest first: %v", err)
	}
	if len(newest) != 2 || newest[0].FeedbackID < newest[1].FeedbackID {
		t.Fatalf("newest first ordering = %+v", newest)
	}
}

func TestUpdateFeedbackStatusConditional(t *testing.T) {
	appsRepo, repo, _ := setupFeedbackRepos(t)
	ctx := context.Background()
	app := seedApp(t, appsRepo, "demo-app")

	created, err := repo.CreateFeedback(ctx, feedbackCreate(app.AppID, nil))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateFeedbackStatus(ctx, created.FeedbackID, []string{"pending", "in_progress"}, "resolved")
	if err != nil {
		t.Fatalf("UpdateFeedbackStatus() error = %v", err)
	}
	if !updated {
		t.Fatal("UpdateFeedbackStatus() = false, want true")
	}

	// Row already terminal: no source matches, nothing changes.
	updated, err = repo.UpdateFeedbackStatus(ctx, created.FeedbackID, []string{"pending", "in_progress"}, "ignored")
	if err != nil {
		t.Fatalf("second update error = %v", err)
	}
	if updated {
		t.Fatal("terminal row updated, want conditional miss")
	}

	got, err := repo.GetFeedback(ctx, created.FeedbackID)
	if err != nil {
		t.Fatalf("get after updates: %v", err)
	}
	if got.Status != "resolved" {
		t.Fatalf("status = %q, want resolved", got.Status)
	}

	if _, err := repo.UpdateFeedbackStatus(ctx, created.FeedbackID+100, []string{"pending"}, "resolved"); err != nil {
		t.Fatalf("missing row error = %v, want nil with false", err)
	}
}

func TestDeleteFeedback(t *testing.T) {
	appsRepo, repo, _ := setupFeedbackRepos(t)
	ctx := context.Background()
	app := seedApp(t, appsRepo, "demo-app")

	created, err := repo.CreateFeedback(ctx, feedbackCreate(app.AppID, nil))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := repo.DeleteFeedback(ctx, created.FeedbackID)
	if err != nil {
		t.Fatalf("DeleteFeedback() error = %v", err)
	}
	if !deleted {
		t.Fatal("DeleteFeedback() = false")
	}

	if _, err := repo.GetFeedback(ctx, created.FeedbackID); !errors.Is(err, ports.ErrFeedbackNotFound) {
		t.Fatalf("get after delete error = %v", err)
	}

	deleted, err = repo.DeleteFeedback(ctx, created.FeedbackID)
	if err != nil {
		t.Fatalf("second delete error = %v", err)
	}
	if deleted {
		t.Fatal("second delete reported true")
	}
}
