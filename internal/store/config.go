package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GlobalConfig is the client-side config at ~/.vgdb/config.json.
type GlobalConfig struct {
	// Server is the default catalog base URL when neither --server nor VGDB_SERVER is set.
	Server string `json:"server,omitempty"`

	// Sessions maps a server base URL to the cookies saved after `vgdb login`.
	Sessions map[string][]SavedCookie `json:"sessions,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Profile is the appearance profile id ("default", "mono", "dracula").
	Profile string `json:"profile,omitempty"`
}

type SavedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.vgdb).
	if v := strings.TrimSpace(os.Getenv("VGDB_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vgdb"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// SaveConfig writes cfg atomically. The file holds session cookies, so it is private to the user.
func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func sessionKey(server string) string {
	return strings.TrimRight(strings.TrimSpace(server), "/")
}

// CookiesFor returns the saved, unexpired cookies for server.
func (c *GlobalConfig) CookiesFor(server string, now time.Time) []*http.Cookie {
	if c == nil {
		return nil
	}
	var out []*http.Cookie
	for _, sc := range c.Sessions[sessionKey(server)] {
		if !sc.Expires.IsZero() && now.After(sc.Expires) {
			continue
		}
		out = append(out, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: sc.Path, Expires: sc.Expires})
	}
	return out
}

// SetCookies replaces the saved cookies for server. An empty slice forgets the server.
func (c *GlobalConfig) SetCookies(server string, cookies []*http.Cookie) {
	key := sessionKey(server)
	if len(cookies) == 0 {
		delete(c.Sessions, key)
		return
	}
	if c.Sessions == nil {
		c.Sessions = map[string][]SavedCookie{}
	}
	saved := make([]SavedCookie, 0, len(cookies))
	for _, ck := range cookies {
		if ck == nil || ck.Name == "" {
			continue
		}
		saved = append(saved, SavedCookie{Name: ck.Name, Value: ck.Value, Path: ck.Path, Expires: ck.Expires})
	}
	c.Sessions[key] = saved
}
