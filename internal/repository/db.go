package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
)

// Stores bundles the repositories of one storage backend.
type Stores struct {
	Users    UserRepository
	Analyses AnalysisRepository
	Posts    PostRepository

	closer io.Closer
}

// Close releases the backend's resources, if any.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewMemoryStores returns empty in-memory repositories.
func NewMemoryStores() *Stores {
	return &Stores{
		Users:    NewMemoryUserRepository(),
		Analyses: NewMemoryAnalysisRepository(),
		Posts:    NewMemoryPostRepository(),
	}
}

// NewMySQLStores returns repositories backed by db. Closing the Stores closes db.
func NewMySQLStores(db *sql.DB) *Stores {
	return &Stores{
		Users:    NewUserRepository(db),
		Analyses: NewAnalysisRepository(db),
		Posts:    NewPostRepository(db),
		closer:   db,
	}
}

// Open selects the storage backend. For MySQL it connects, verifies the
// connection and, when migrate is set, applies pending schema migrations.
func Open(ctx context.Context, backend, dsn string, migrate bool) (*Stores, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStores(), nil
	case BackendMySQL:
		db, dsn, err := NewDB(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := RunMigrations(dsn); err != nil {
				db.Close()
				return nil, err
			}
			slog.Info("database migrations applied")
		}
		return NewMySQLStores(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// NewDB creates a MySQL connection pool for dsn and pings it. Time columns
// are always parsed as UTC. The normalized DSN is returned alongside the pool.
func NewDB(ctx context.Context, dsn string) (*sql.DB, string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, "", fmt.Errorf("parsing database dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	dsn = cfg.FormatDSN()

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("pinging database: %w", err)
	}

	return db, dsn, nil
}
