package demo

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/userposts/internal/repo"
)

func TestRun_RoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO "user"`).
		WithArgs("Capi", "capi@mail.de", "1234").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO post`).
		WithArgs(1, "Mein erster Post", "Hello World!").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
	mock.ExpectExec(`UPDATE "user"`).
		WithArgs("Capi", "capineu@mail.de", "1234", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE post`).
		WithArgs("Mein erster Post", "Update Inhalt!", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "user" ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password"}).
			AddRow(1, "Capi", "capineu@mail.de", "1234"))
	mock.ExpectQuery(`FROM post ORDER BY created_at DESC, id DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}).
			AddRow(1, 1, "Mein erster Post", "Update Inhalt!", now))
	mock.ExpectExec(`DELETE FROM post WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "user" WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var out bytes.Buffer
	if err := Run(context.Background(), &out, repo.NewUserRepo(db), repo.NewPostRepo(db)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "Capi | capineu@mail.de\nMein erster Post | Update Inhalt!\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	boom := errors.New("connection refused")
	mock.ExpectQuery(`INSERT INTO "user"`).WillReturnError(boom)

	var out bytes.Buffer
	err = Run(context.Background(), &out, repo.NewUserRepo(db), repo.NewPostRepo(db))
	if !errors.Is(err, boom) {
		t.Fatalf("expected driver error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "create user:") {
		t.Errorf("error should name the failed step: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed, got %q", out.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
