package webtui

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:generate sh -c "curl -fsSL -o static/xterm/xterm.js https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0/lib/xterm.js && curl -fsSL -o static/xterm/xterm.css https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0/css/xterm.css && curl -fsSL -o static/xterm/xterm-addon-fit.js https://cdn.jsdelivr.net/npm/@xterm/addon-fit@0.10.0/lib/addon-fit.js"

//go:embed templates/*.html static/*.css static/*.js static/xterm
var assetsFS embed.FS

const xtermCDN = "https://cdn.jsdelivr.net/npm/@xterm"

// xtermAssets are the URLs the terminal page loads xterm from.
type xtermAssets struct {
	CSS string
	JS  string
	Fit string
}

// xtermAssetsFor prefers the vendored copies under static/xterm and falls back to the CDN
// when any of them is missing.
func xtermAssetsFor(fsys fs.FS) xtermAssets {
	local := xtermAssets{
		CSS: "/static/xterm/xterm.css",
		JS:  "/static/xterm/xterm.js",
		Fit: "/static/xterm/xterm-addon-fit.js",
	}
	for _, p := range []string{local.CSS, local.JS, local.Fit} {
		if _, err := fs.Stat(fsys, strings.TrimPrefix(p, "/")); err != nil {
			return xtermAssets{
				CSS: xtermCDN + "/xterm@5.5.0/css/xterm.css",
				JS:  xtermCDN + "/xterm@5.5.0/lib/xterm.js",
				Fit: xtermCDN + "/addon-fit@0.10.0/lib/addon-fit.js",
			}
		}
	}
	return local
}

type ServerConfig struct {
	Addr string
	// Server is the catalog base URL handed to each TUI session.
	Server string
	// Exe is the binary started per browser tab. Empty means the running executable.
	Exe string
}

type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	assets fs.FS
	xterm  xtermAssets
}

func NewServer(cfg ServerConfig) (*Server, error) {
	return newServer(cfg, assetsFS)
}

func newServer(cfg ServerConfig, assets fs.FS) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	tmpl, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, assets: assets, xterm: xtermAssetsFor(assets)}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))
	mux.HandleFunc("GET /static/xterm/xterm.css", s.handleStatic("static/xterm/xterm.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/xterm/xterm.js", s.handleStatic("static/xterm/xterm.js", "text/javascript; charset=utf-8"))
	mux.HandleFunc("GET /static/xterm/xterm-addon-fit.js", s.handleStatic("static/xterm/xterm-addon-fit.js", "text/javascript; charset=utf-8"))

	return mux
}

func (s *Server) handleStatic(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fs.ReadFile(s.assets, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type terminalVM struct {
	Server string
	Xterm  xtermAssets
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "terminal.html", terminalVM{Server: strings.TrimSpace(s.cfg.Server), Xterm: s.xterm}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
