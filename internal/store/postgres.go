package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dvdshelf/dvdshelf/internal/adapter"
	"github.com/dvdshelf/dvdshelf/internal/domain"
	_ "github.com/lib/pq"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS dvd (
		id           BIGSERIAL PRIMARY KEY,
		title        TEXT NOT NULL,
		director     TEXT,
		release_year INTEGER,
		genre        TEXT,
		rating       DOUBLE PRECISION
	)`

const selectColumns = `SELECT id, title, director, release_year, genre, rating FROM dvd`

// PostgresStore implements domain.Store on a single Postgres table.
// Every operation takes one connection from the pool, runs one statement
// and hands the connection back before returning.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres creates a connection pool from cfg and verifies it with a ping
func OpenPostgres(ctx context.Context, cfg adapter.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if cfg.MaxIdleTime != "" {
		idle, err := time.ParseDuration(cfg.MaxIdleTime)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid max idle time: %w", err)
		}
		db.SetConnMaxIdleTime(idle)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// NewPostgresStore wraps db and creates the dvd table if it is missing
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, createTableSQL)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create dvd table: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// withConn scopes a single connection to fn and always releases it
func (s *PostgresStore) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

func (s *PostgresStore) Add(ctx context.Context, dvd domain.DVD) (int64, error) {
	query := `
		INSERT INTO dvd (title, director, release_year, genre, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query,
			dvd.Title, dvd.Director, dvd.ReleaseYear, dvd.Genre, dvd.Rating,
		).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("add dvd: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.DVD, error) {
	dvds := []domain.DVD{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, selectColumns+` ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanDVD(rows)
			if err != nil {
				return err
			}
			dvds = append(dvds, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list dvds: %w", err)
	}
	return dvds, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (domain.DVD, error) {
	var d domain.DVD
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		d, err = scanDVD(conn.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DVD{}, domain.ErrDVDNotFound
		}
		return domain.DVD{}, fmt.Errorf("get dvd %d: %w", id, err)
	}
	return d, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `DELETE FROM dvd WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("remove dvd %d: %w", id, err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, dvd domain.DVD) (bool, error) {
	query := `
		UPDATE dvd
		SET title = $1, director = $2, release_year = $3, genre = $4, rating = $5
		WHERE id = $6`

	var affected int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, query,
			dvd.Title, dvd.Director, dvd.ReleaseYear, dvd.Genre, dvd.Rating, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update dvd %d: %w", id, err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) AverageRating(ctx context.Context, genre string) (float64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)
		FROM dvd
		WHERE lower(genre) = lower($1) AND rating >= 0`

	var avg float64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query, genre).Scan(&avg)
	})
	if err != nil {
		return 0, fmt.Errorf("average rating for %q: %w", genre, err)
	}
	return avg, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDVD(row rowScanner) (domain.DVD, error) {
	var d domain.DVD
	var director, genre sql.NullString
	var year sql.NullInt64
	var rating sql.NullFloat64

	if err := row.Scan(&d.ID, &d.Title, &director, &year, &genre, &rating); err != nil {
		return domain.DVD{}, err
	}

	d.Director = director.String
	d.ReleaseYear = int(year.Int64)
	d.Genre = genre.String
	d.Rating = domain.UnknownRating
	if rating.Valid {
		d.Rating = rating.Float64
	}
	return d, nil
}
