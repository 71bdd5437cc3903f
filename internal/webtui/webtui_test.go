package webtui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestTerminalPageAndAssets(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Server: "http://catalog.test"})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/terminal" {
		t.Fatalf("expected redirect to /terminal; got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	cases := []struct {
		path, contentType, want string
	}{
		{"/terminal", "text/html", "http://catalog.test"},
		{"/static/app.js", "text/javascript", "/ws"},
		{"/static/app.css", "text/css", "#terminal"},
	}
	for _, tc := range cases {
		resp, err := http.Get(ts.URL + tc.path)
		if err != nil {
			t.Fatalf("GET %s: %v", tc.path, err)
		}
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", tc.path, resp.StatusCode)
		}
		if !strings.HasPrefix(resp.Header.Get("Content-Type"), tc.contentType) {
			t.Fatalf("GET %s: content type %q", tc.path, resp.Header.Get("Content-Type"))
		}
		if !strings.Contains(string(b), tc.want) {
			t.Fatalf("GET %s: expected %q in body", tc.path, tc.want)
		}
	}
}

func TestNewServerRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}

func TestParseControl(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		ok   bool
		cols int
	}{
		{`{"type":"resize","cols":100,"rows":30}`, true, 100},
		{`{"type":" Resize ","cols":80,"rows":24}`, true, 80},
		{`{`, false, 0},
		{`{"cols":1}`, false, 0},
		{`q`, false, 0},
	}
	for _, tc := range cases {
		ctl, ok := parseControl([]byte(tc.in))
		if ok != tc.ok || ctl.Cols != tc.cols {
			t.Fatalf("parseControl(%q) = %+v, %v", tc.in, ctl, ok)
		}
		if ok && ctl.Type != "resize" {
			t.Fatalf("expected normalized type; got %q", ctl.Type)
		}
	}
}

func TestSameOrigin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		origin, host string
		want         bool
	}{
		{"", "localhost:3334", true},
		{"http://localhost:3334", "localhost:3334", true},
		{"http://evil.test", "localhost:3334", false},
		{"http://localhost:3334.evil.test", "localhost:3334", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Host = tc.host
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		if got := sameOrigin(r); got != tc.want {
			t.Fatalf("sameOrigin(%q, %q) = %v", tc.origin, tc.host, got)
		}
	}
}

func TestTUICommandPassesServer(t *testing.T) {
	t.Parallel()

	s := &Server{cfg: ServerConfig{Addr: ":0", Server: "http://catalog.test", Exe: "/bin/vgdb"}}
	cmd, err := s.tuiCommand()
	if err != nil {
		t.Fatalf("tuiCommand: %v", err)
	}
	if got := strings.Join(cmd.Args, " "); got != "/bin/vgdb --server http://catalog.test" {
		t.Fatalf("unexpected args %q", got)
	}
	var term bool
	for _, kv := range cmd.Env {
		if kv == "TERM=xterm-256color" {
			term = true
		}
	}
	if !term {
		t.Fatalf("expected TERM override in env")
	}
}

func TestXtermAssetsPreferVendoredCopies(t *testing.T) {
	t.Parallel()

	page, err := assetsFS.ReadFile("templates/terminal.html")
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	fsys := fstest.MapFS{
		"templates/terminal.html":         {Data: page},
		"static/xterm/xterm.css":          {Data: []byte(".xterm{}")},
		"static/xterm/xterm.js":           {Data: []byte("var Terminal;")},
		"static/xterm/xterm-addon-fit.js": {Data: []byte("var FitAddon;")},
	}

	srv, err := newServer(ServerConfig{Addr: "127.0.0.1:0"}, fsys)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/terminal")
	if err != nil {
		t.Fatalf("GET /terminal: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(string(b), "cdn.jsdelivr.net") || !strings.Contains(string(b), `src="/static/xterm/xterm.js"`) {
		t.Fatalf("expected vendored xterm on page:\n%s", b)
	}

	resp, err = http.Get(ts.URL + "/static/xterm/xterm-addon-fit.js")
	if err != nil {
		t.Fatalf("GET fit addon: %v", err)
	}
	b, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(b) != "var FitAddon;" {
		t.Fatalf("unexpected fit addon response %d %q", resp.StatusCode, b)
	}
}

func TestXtermAssetsFallBackToCDN(t *testing.T) {
	t.Parallel()

	got := xtermAssetsFor(fstest.MapFS{
		"static/xterm/xterm.js": {Data: []byte("var Terminal;")},
	})
	if !strings.HasPrefix(got.JS, "https://cdn.jsdelivr.net/") || !strings.HasPrefix(got.Fit, "https://cdn.jsdelivr.net/") {
		t.Fatalf("expected cdn fallback when vendored copies are incomplete; got %#v", got)
	}
}
