package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	updated := time.Now().UTC()
	mock.ExpectQuery("SELECT role, level, skills, summary, updated_at").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"role", "level", "skills", "summary", "updated_at"}).
			AddRow("backend developer", "senior", "go, postgresql", "Go specialist", updated))

	repo := &PGRepo{DB: db}
	profile, err := repo.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile.Role != "backend developer" || profile.Level != "senior" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if skills := profile.SkillList(); len(skills) != 2 || skills[0] != "go" {
		t.Fatalf("unexpected skill list %v", skills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT role, level, skills, summary, updated_at").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	_, err = repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoPutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO golden_profiles").
		WithArgs(
			"job-1",
			"frontend developer",
			"mid",
			"react, typescript, node",
			"React-centric team",
			sqlmock.AnyArg(), // updated_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	err = repo.Put(context.Background(), "job-1", GoldenProfile{
		Role:    "frontend developer",
		Level:   "mid",
		Skills:  "react, typescript, node",
		Summary: "React-centric team",
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
