package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vgdb-cli/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "vgdb.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_ReopenKeepsRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "vgdb.sqlite")
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.CreateGame(ctx, GameInput{Name: "Chess", Size: 1}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected db file: %v", err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 1 || games[0].Name != "Chess" {
		t.Fatalf("unexpected games after reopen: %#v", games)
	}
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGames_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	empty, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list; got %#v", empty)
	}

	a, err := s.CreateGame(ctx, GameInput{Name: "Chess", Genre: "Board", Size: 5, Date: "600", Publisher: "-"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	b, err := s.CreateGame(ctx, GameInput{Name: "Chess", Genre: "Variant", Size: 6})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("ids must be distinct")
	}

	if err := s.UpdateGame(ctx, b.ID, GameInput{Name: "Chess960", Genre: "Variant", Size: 7}); err != nil {
		t.Fatalf("UpdateGame: %v", err)
	}
	got, err := s.GetGame(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got.Name != "Chess960" || got.Size != 7 {
		t.Fatalf("unexpected updated row: %#v", got)
	}
	if first, _ := s.GetGame(ctx, a.ID); first.Name != "Chess" || first.Genre != "Board" {
		t.Fatalf("update touched another row: %#v", first)
	}

	if err := s.DeleteGame(ctx, a.ID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := s.GetGame(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound; got %v", err)
	}
	if err := s.DeleteGame(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete; got %v", err)
	}
	if err := s.UpdateGame(ctx, 999, GameInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on missing update; got %v", err)
	}

	games, _ := s.ListGames(ctx)
	if len(games) != 1 || games[0].ID != b.ID {
		t.Fatalf("expected only the second game; got %#v", games)
	}
}

func TestParseGameFields(t *testing.T) {
	t.Parallel()

	in, err := ParseGameFields(model.GameFields{Name: "Go", Size: " 19 "})
	if err != nil {
		t.Fatalf("ParseGameFields: %v", err)
	}
	if in.Size != 19 || in.Name != "Go" {
		t.Fatalf("unexpected input %#v", in)
	}
	for _, bad := range []string{"", "big", "1.5"} {
		if _, err := ParseGameFields(model.GameFields{Size: bad}); err == nil {
			t.Fatalf("expected error for size %q", bad)
		}
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"1", 1, true},
		{" 42 ", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseID(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseID(%q) = %d, %v; want %d, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestUsers_RegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	u, err := s.CreateUser(ctx, "nate", " N@Example.com ", "hunter2")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "n@example.com" || u.PasswordHash == "hunter2" {
		t.Fatalf("expected normalized email and hashed password; got %#v", u)
	}
	if _, err := s.CreateUser(ctx, "other", "n@example.com", "x"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken; got %v", err)
	}

	got, err := s.Authenticate(ctx, "n@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID || got.Username != "nate" {
		t.Fatalf("unexpected user %#v", got)
	}
	if _, err := s.Authenticate(ctx, "n@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password; got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email; got %v", err)
	}

	byID, err := s.GetUser(ctx, u.ID)
	if err != nil || byID.Username != "nate" {
		t.Fatalf("GetUser: %#v, %v", byID, err)
	}
	if _, err := s.GetUser(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound; got %v", err)
	}
}

func TestSessionStores(t *testing.T) {
	t.Parallel()

	stores := map[string]SessionStore{
		"memory": NewMemorySessions(),
		"sqlite": openTestStore(t),
		"redis":  newTestRedisSessions(t, miniredis.RunT(t), 0),
	}
	for name, ss := range stores {
		ss := ss
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

			if _, err := ss.GetSession(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound; got %v", err)
			}
			if err := ss.CreateSession(ctx, Session{ID: "abc", UserID: 7, CreatedAt: created}); err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
			got, err := ss.GetSession(ctx, "abc")
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if got.UserID != 7 || !got.CreatedAt.Equal(created) {
				t.Fatalf("unexpected session %#v", got)
			}
			if err := ss.DeleteSession(ctx, "abc"); err != nil {
				t.Fatalf("DeleteSession: %v", err)
			}
			if _, err := ss.GetSession(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("expected session gone; got %v", err)
			}
		})
	}
}

func newTestRedisSessions(t *testing.T, mr *miniredis.Miniredis, ttl time.Duration) *RedisSessions {
	t.Helper()
	rs, err := NewRedisSessions(context.Background(), &redis.Options{Addr: mr.Addr()}, ttl)
	if err != nil {
		t.Fatalf("NewRedisSessions: %v", err)
	}
	t.Cleanup(func() { _ = rs.Close() })
	return rs
}

func TestRedisSessions_TTLAndEncoding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)
	rs := newTestRedisSessions(t, mr, time.Hour)

	if err := rs.CreateSession(ctx, Session{ID: "abc", UserID: 7}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !mr.Exists("session:abc") {
		t.Fatalf("expected session:abc key; keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("session:abc"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl; got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := rs.GetSession(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session; got %v", err)
	}

	if err := mr.Set("session:bad", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := rs.GetSession(ctx, "bad"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected decode error; got %v", err)
	}
}

func TestRedisOptionsFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	opts, err := RedisOptionsFromEnv()
	if err != nil {
		t.Fatalf("RedisOptionsFromEnv: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected options %#v", opts)
	}

	t.Setenv("REDIS_DB", "two")
	if _, err := RedisOptionsFromEnv(); err == nil {
		t.Fatalf("expected error for non-numeric REDIS_DB")
	}
}

func TestNewRedisSessions_UnreachableServer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Port 1 on loopback is reserved and refuses connections.
	_, err := NewRedisSessions(ctx, &redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}, time.Hour)
	if err == nil {
		t.Fatalf("expected connection error")
	}
}
