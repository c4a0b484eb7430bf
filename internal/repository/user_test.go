package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/greenverse/greenverse-go/internal/model"
)

func newUserRepoWithMock(t *testing.T) (*MySQLUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

var janeCreated = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func jane() *model.User {
	return &model.User{
		ID: "4b1c0c9e-0000-4000-8000-000000000001", Email: "jane@x.com", Username: "jane",
		FirstName: "Jane", LastName: "Doe", Location: "Portland, OR", CreatedAt: janeCreated,
	}
}

func TestMySQLUserCreate_Success(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	u := jane()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, "jane@x.com", "jane", "Jane", "Doe", nil, nil, "Portland, OR", nil, janeCreated).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO credentials`).
		WithArgs("jane@x.com", "$argon2id$hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), u, model.Credential{Email: "jane@x.com", SecretHash: "$argon2id$hash"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLUserCreate_DuplicateIdentity(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'jane' for key 'uq_users_username'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), jane(), model.Credential{Email: "jane@x.com", SecretHash: "h"})
	if err != ErrDuplicateIdentity {
		t.Fatalf("Create error = %v, want %v", err, ErrDuplicateIdentity)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLUserCreate_CredentialInsertFails(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO credentials`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), jane(), model.Credential{Email: "jane@x.com", SecretHash: "h"})
	if err == nil || errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("Create error = %v, want wrapped db error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLUserGetByEmail(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "email", "username", "first_name", "last_name", "avatar_url", "bio", "location", "growing_zone", "created_at"}).
		AddRow("id-2", "jane.doe@example.com", "plantlover123", "Jane", "Doe", nil, "Urban gardener", "Portland, OR", "8b", janeCreated)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WithArgs("jane.doe@example.com").
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "jane.doe@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if u.ID != "id-2" || u.Username != "plantlover123" || u.GrowingZone != "8b" || u.AvatarURL != "" {
		t.Errorf("GetByEmail = %+v", u)
	}
	if !u.CreatedAt.Equal(janeCreated) {
		t.Errorf("CreatedAt = %v, want %v", u.CreatedAt, janeCreated)
	}
}

func TestMySQLUserGetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrUserNotFound {
		t.Fatalf("GetByID error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestMySQLUserGetCredential(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`SELECT email, secret_hash FROM credentials WHERE email = \?`).
		WithArgs("jane@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "secret_hash"}).AddRow("jane@x.com", "$argon2id$h"))
	mock.ExpectQuery(`SELECT email, secret_hash FROM credentials WHERE email = \?`).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	cred, err := repo.GetCredential(context.Background(), "jane@x.com")
	if err != nil {
		t.Fatalf("GetCredential error: %v", err)
	}
	if cred.SecretHash != "$argon2id$h" {
		t.Errorf("SecretHash = %q", cred.SecretHash)
	}

	if _, err := repo.GetCredential(context.Background(), "nobody@x.com"); err != ErrCredentialNotFound {
		t.Errorf("GetCredential error = %v, want %v", err, ErrCredentialNotFound)
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrUserNotFound, want: false},
		{name: "other mysql error", err: &mysql.MySQLError{Number: 1452}, want: false},
		{name: "duplicate entry", err: &mysql.MySQLError{Number: 1062}, want: true},
		{name: "wrapped duplicate entry", err: errors.Join(errors.New("exec"), &mysql.MySQLError{Number: 1062}), want: true},
		{name: "message only", err: errors.New("Duplicate entry 'x'"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntryError(tt.err); got != tt.want {
				t.Errorf("isDuplicateEntryError() = %v, want %v", got, tt.want)
			}
		})
	}
}
