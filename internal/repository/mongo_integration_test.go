package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/taskboard/internal/database"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/testutil"
)

func setupRepos(t *testing.T) (*MongoUserRepo, *MongoTaskRepo) {
	t.Helper()
	db := testutil.SetupMongo(t)
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		t.Fatalf("EnsureIndexes returned error: %v", err)
	}
	return NewMongoUserRepo(db), NewMongoTaskRepo(db)
}

func TestMongoUserRepo_InsertAndFind(t *testing.T) {
	users, _ := setupRepos(t)
	ctx := context.Background()

	created := time.Now().UTC().Truncate(time.Millisecond)
	res, err := users.Insert(ctx, &model.User{
		Name:      "Alice",
		Email:     "alice@example.com",
		Password:  "$2a$10$hash",
		CreatedAt: created,
		Extra:     map[string]any{"photoURL": "https://example.com/a.png"},
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if !res.Acknowledged || res.InsertedID.IsZero() {
		t.Errorf("unexpected insert result: %+v", res)
	}

	got, err := users.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected user, got nil")
	}
	if got.ID != res.InsertedID {
		t.Errorf("ID = %v, want %v", got.ID, res.InsertedID)
	}
	if got.Name != "Alice" || got.Password != "$2a$10$hash" {
		t.Errorf("unexpected user: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.Extra["photoURL"] != "https://example.com/a.png" {
		t.Errorf("Extra[photoURL] = %v", got.Extra["photoURL"])
	}
}

func TestMongoUserRepo_FindByEmail_NotFound(t *testing.T) {
	users, _ := setupRepos(t)

	got, err := users.FindByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestMongoUserRepo_Insert_DuplicateEmail(t *testing.T) {
	users, _ := setupRepos(t)
	ctx := context.Background()

	if _, err := users.Insert(ctx, &model.User{Name: "A", Email: "dup@example.com", Password: "h"}); err != nil {
		t.Fatalf("first Insert returned error: %v", err)
	}
	_, err := users.Insert(ctx, &model.User{Name: "B", Email: "dup@example.com", Password: "h"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

// 同一メールアドレスでの同時サインアップのうち成功するのは1件のみであることを検証
func TestMongoUserRepo_Insert_ConcurrentDuplicate(t *testing.T) {
	users, _ := setupRepos(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Insert(ctx, &model.User{Name: "racer", Email: "race@example.com", Password: "h"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrDuplicateEmail):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", succeeded)
	}
}

func TestMongoUserRepo_UpdateName(t *testing.T) {
	users, _ := setupRepos(t)
	ctx := context.Background()

	if _, err := users.Insert(ctx, &model.User{Name: "Old", Email: "u@example.com", Password: "h"}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	matched, err := users.UpdateName(ctx, "u@example.com", "New")
	if err != nil {
		t.Fatalf("UpdateName returned error: %v", err)
	}
	if !matched {
		t.Error("expected matched = true")
	}

	got, _ := users.FindByEmail(ctx, "u@example.com")
	if got.Name != "New" {
		t.Errorf("Name = %q, want %q", got.Name, "New")
	}
	if got.Password != "h" {
		t.Error("UpdateName must not touch other fields")
	}

	matched, err = users.UpdateName(ctx, "missing@example.com", "X")
	if err != nil {
		t.Fatalf("UpdateName returned error: %v", err)
	}
	if matched {
		t.Error("expected matched = false for unknown email")
	}
}

func TestMongoTaskRepo_InsertListUpdateDelete(t *testing.T) {
	_, tasks := setupRepos(t)
	ctx := context.Background()

	id, err := tasks.Insert(ctx, &model.Task{
		UserID: "user-1", Title: "Write", DueDate: "2026-01-01", Status: "todo",
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		t.Fatalf("Insert returned non-hex id %q", id)
	}

	list, err := tasks.ListByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUserID returned error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Write" {
		t.Fatalf("unexpected list: %+v", list)
	}

	fields := model.TaskFields{Title: "Rewrite", Description: "more", DueDate: "2026-02-02", Status: "done"}
	modified, err := tasks.Update(ctx, id, fields)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !modified {
		t.Error("expected modified = true")
	}

	// 同一内容での更新は変更なしとして扱う
	modified, err = tasks.Update(ctx, id, fields)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if modified {
		t.Error("expected modified = false for identical update")
	}

	list, _ = tasks.ListByUserID(ctx, "user-1")
	got := list[0]
	if got.Title != "Rewrite" || got.Description != "more" || got.DueDate != "2026-02-02" || got.Status != "done" {
		t.Errorf("unexpected task after update: %+v", got)
	}

	deleted, err := tasks.Delete(ctx, id)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deleted {
		t.Error("expected deleted = true")
	}
	deleted, err = tasks.Delete(ctx, id)
	if err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
	if deleted {
		t.Error("expected deleted = false on second delete")
	}
}

func TestMongoTaskRepo_ListByUserID_Empty(t *testing.T) {
	_, tasks := setupRepos(t)

	list, err := tasks.ListByUserID(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListByUserID returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", list)
	}
}

func TestMongoTaskRepo_MalformedID(t *testing.T) {
	_, tasks := setupRepos(t)
	ctx := context.Background()

	if ok, err := tasks.Update(ctx, "bad-id", model.TaskFields{Title: "t"}); ok || err != nil {
		t.Errorf("Update(bad-id) = %v, %v; want false, nil", ok, err)
	}
	if ok, err := tasks.Delete(ctx, "bad-id"); ok || err != nil {
		t.Errorf("Delete(bad-id) = %v, %v; want false, nil", ok, err)
	}
}

func TestMongoTaskRepo_ListWithCreatorName(t *testing.T) {
	users, tasks := setupRepos(t)
	ctx := context.Background()

	res, err := users.Insert(ctx, &model.User{Name: "Creator", Email: "c@example.com", Password: "h"})
	if err != nil {
		t.Fatalf("Insert user returned error: %v", err)
	}

	owned, _ := tasks.Insert(ctx, &model.Task{UserID: res.InsertedID.Hex(), Title: "owned", DueDate: "d", Status: "s"})
	orphan, _ := tasks.Insert(ctx, &model.Task{UserID: primitive.NewObjectID().Hex(), Title: "orphan", DueDate: "d", Status: "s"})
	garbage, _ := tasks.Insert(ctx, &model.Task{UserID: "not-an-object-id", Title: "garbage", DueDate: "d", Status: "s"})

	rows, err := tasks.ListWithCreatorName(ctx)
	if err != nil {
		t.Fatalf("ListWithCreatorName returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	byID := map[string]model.TaskWithCreator{}
	for _, r := range rows {
		byID[r.ID.Hex()] = r
	}
	if byID[owned].CreatorName != "Creator" {
		t.Errorf("owned CreatorName = %q, want %q", byID[owned].CreatorName, "Creator")
	}
	if byID[orphan].CreatorName != "" {
		t.Errorf("orphan CreatorName = %q, want empty", byID[orphan].CreatorName)
	}
	if byID[garbage].CreatorName != "" {
		t.Errorf("garbage CreatorName = %q, want empty", byID[garbage].CreatorName)
	}
}

func TestMongoTaskRepo_ListWithCreatorName_Empty(t *testing.T) {
	_, tasks := setupRepos(t)

	rows, err := tasks.ListWithCreatorName(context.Background())
	if err != nil {
		t.Fatalf("ListWithCreatorName returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}
