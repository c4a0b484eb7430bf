package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/greenverse/greenverse-go/internal/model"
)

const mysqlErrDuplicateEntry = 1062

const userColumns = `id, email, username, first_name, last_name, avatar_url, bio, location, growing_zone, created_at`

// MySQLUserRepository handles user persistence in MySQL. Uniqueness of email and
// username is enforced by the table's UNIQUE indexes.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a MySQL-backed user repository.
func NewUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts the user and its credential in one transaction.
func (r *MySQLUserRepository) Create(ctx context.Context, user *model.User, cred model.Credential) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin user insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Username, user.FirstName, user.LastName,
		nullString(user.AvatarURL), nullString(user.Bio), nullString(user.Location), nullString(user.GrowingZone),
		user.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credentials (email, secret_hash) VALUES (?, ?)`,
		cred.Email, cred.SecretHash,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("insert credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user insert: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *MySQLUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by lowercase email.
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetCredential retrieves the stored hash for a lowercase email.
func (r *MySQLUserRepository) GetCredential(ctx context.Context, email string) (model.Credential, error) {
	cred := model.Credential{}
	err := r.db.QueryRowContext(ctx,
		`SELECT email, secret_hash FROM credentials WHERE email = ?`, email,
	).Scan(&cred.Email, &cred.SecretHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Credential{}, ErrCredentialNotFound
		}
		return model.Credential{}, fmt.Errorf("select credential: %w", err)
	}
	return cred, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user                                  model.User
		avatarURL, bio, location, growingZone sql.NullString
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&avatarURL, &bio, &location, &growingZone, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	user.AvatarURL = avatarURL.String
	user.Bio = bio.String
	user.Location = location.String
	user.GrowingZone = growingZone.String
	return &user, nil
}

// isDuplicateEntryError reports whether err is a MySQL duplicate key error (1062).
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
