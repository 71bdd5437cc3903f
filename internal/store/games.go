package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vgdb-cli/internal/model"
)

// GameRecord is a videogames row. Size is an integer column; the JSON form matches what the
// catalog service has always emitted.
type GameRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Genre     string `json:"genre"`
	Size      int64  `json:"size"`
	Date      string `json:"date"`
	Publisher string `json:"publisher"`
}

// GameInput is a validated create/update payload.
type GameInput struct {
	Name      string
	Genre     string
	Size      int64
	Date      string
	Publisher string
}

// ParseGameFields converts form text into a GameInput. Size must be an integer.
func ParseGameFields(f model.GameFields) (GameInput, error) {
	raw := strings.TrimSpace(f.Size)
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return GameInput{}, fmt.Errorf("size %q: must be an integer", raw)
	}
	return GameInput{
		Name:      f.Name,
		Genre:     f.Genre,
		Size:      size,
		Date:      f.Date,
		Publisher: f.Publisher,
	}, nil
}

// ParseID parses a path id. Anything that is not a positive integer cannot name a row.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Store) ListGames(ctx context.Context) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, genre, size, date, publisher FROM videogames ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.ID, &g.Name, &g.Genre, &g.Size, &g.Date, &g.Publisher); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) GetGame(ctx context.Context, id int64) (GameRecord, error) {
	var g GameRecord
	err := s.db.QueryRowContext(ctx, `SELECT id, name, genre, size, date, publisher FROM videogames WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.Genre, &g.Size, &g.Date, &g.Publisher)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, ErrNotFound
	}
	return g, err
}

func (s *Store) CreateGame(ctx context.Context, in GameInput) (GameRecord, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO videogames(name, genre, size, date, publisher) VALUES(?, ?, ?, ?, ?)`,
		in.Name, in.Genre, in.Size, in.Date, in.Publisher)
	if err != nil {
		return GameRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return GameRecord{}, err
	}
	return GameRecord{ID: id, Name: in.Name, Genre: in.Genre, Size: in.Size, Date: in.Date, Publisher: in.Publisher}, nil
}

func (s *Store) UpdateGame(ctx context.Context, id int64, in GameInput) error {
	res, err := s.db.ExecContext(ctx, `UPDATE videogames SET name = ?, genre = ?, size = ?, date = ?, publisher = ? WHERE id = ?`,
		in.Name, in.Genre, in.Size, in.Date, in.Publisher, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videogames WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
