package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"careers-portal/internal/core/database"
	"careers-portal/internal/domain"
)

func newSQLiteRepo(t *testing.T) *ApplicantRepo {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + filepath.Join(t.TempDir(), "applications.db") + "?_busy_timeout=5000",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewApplicantRepo(db)
}

// 两种实现跑同一组用例
func repos(t *testing.T) map[string]domain.ApplicantRepository {
	return map[string]domain.ApplicantRepository{
		"memory": NewMemoryApplicantRepo(),
		"sqlite": newSQLiteRepo(t),
	}
}

func sample(resume string) *domain.Applicant {
	a := &domain.Applicant{
		Name:      "Asha",
		Email:     "a@x.com",
		WhatsApp:  "+62 812",
		Role:      "Engineer",
		Skills:    "Go, SQL",
		Portfolio: "https://example.com",
		Message:   "hi",
	}
	if resume != "" {
		a.ResumeFilename = &resume
	}
	a.Stamp(time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC))
	return a
}

func TestInsertGetRoundTrip(t *testing.T) {
	for name, r := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := sample("20240102030405_cv.pdf")
			id, err := r.Insert(ctx, in)
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
			if id <= 0 || in.ID != id {
				t.Fatalf("unexpected id %d (struct %d)", id, in.ID)
			}
			got, err := r.Get(ctx, id)
			if err != nil || got == nil {
				t.Fatalf("get: %v %v", got, err)
			}
			if got.Name != in.Name || got.Email != in.Email || got.WhatsApp != in.WhatsApp ||
				got.Role != in.Role || got.Skills != in.Skills || got.Portfolio != in.Portfolio ||
				got.Message != in.Message || got.Resume() != in.Resume() {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, in)
			}
			if got.SubmittedAt != "2024-01-02T03:04:05.600000" {
				t.Fatalf("unexpected submitted_at %q", got.SubmittedAt)
			}
		})
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	for name, r := range repos(t) {
		t.Run(name, func(t *testing.T) {
			got, err := r.Get(context.Background(), 12345)
			if err != nil || got != nil {
				t.Fatalf("expected (nil, nil), got (%v, %v)", got, err)
			}
		})
	}
}

func TestNoResumeStoredAsAbsent(t *testing.T) {
	for name, r := range repos(t) {
		t.Run(name, func(t *testing.T) {
			id, err := r.Insert(context.Background(), sample(""))
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
			got, _ := r.Get(context.Background(), id)
			if got == nil || got.ResumeFilename != nil {
				t.Fatalf("expected absent resume, got %+v", got)
			}
		})
	}
}

func TestListDescendingAndDelete(t *testing.T) {
	for name, r := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var ids []int64
			for i := 0; i < 4; i++ {
				id, err := r.Insert(ctx, sample(""))
				if err != nil {
					t.Fatalf("insert: %v", err)
				}
				ids = append(ids, id)
			}
			list, err := r.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 4 || list[0].ID != ids[3] {
				t.Fatalf("expected newest first, got %+v", list)
			}
			for i := 1; i < len(list); i++ {
				if list[i-1].ID <= list[i].ID {
					t.Fatalf("not strictly descending")
				}
			}

			if err := r.Delete(ctx, ids[1]); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if got, _ := r.Get(ctx, ids[1]); got != nil {
				t.Fatalf("expected deleted row to be absent")
			}
			// 重复删除为 no-op
			if err := r.Delete(ctx, ids[1]); err != nil {
				t.Fatalf("second delete: %v", err)
			}
			list, _ = r.List(ctx)
			if len(list) != 3 {
				t.Fatalf("expected 3 rows, got %d", len(list))
			}
		})
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	r := NewMemoryApplicantRepo()
	id, _ := r.Insert(context.Background(), sample("a.pdf"))
	got, _ := r.Get(context.Background(), id)
	*got.ResumeFilename = "mutated.pdf"
	again, _ := r.Get(context.Background(), id)
	if again.Resume() != "a.pdf" {
		t.Fatalf("stored row mutated through returned pointer")
	}
}
