package cli

import (
	"time"

	"vgdb-cli/internal/catalog"
	"vgdb-cli/internal/logging"
	"vgdb-cli/internal/store"

	"github.com/sirupsen/logrus"
)

const userAgent = "vgdb-cli"

// session is a catalog client whose cookies round-trip through the config file.
type session struct {
	server string
	client *catalog.Client
}

func openSession(app *App, log logrus.FieldLogger) (*session, error) {
	server := resolveServer(app)
	c, err := catalog.New(catalog.Options{
		BaseURL:   server,
		Timeout:   app.Timeout,
		UserAgent: userAgent,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	c.SetCookies(cfg.CookiesFor(server, time.Now()))
	return &session{server: server, client: c}, nil
}

// save persists the client's current cookies; an empty jar forgets the server.
func (s *session) save() error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	cfg.SetCookies(s.server, s.client.Cookies())
	return store.SaveConfig(cfg)
}

func (s *session) forget() error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	cfg.SetCookies(s.server, nil)
	return store.SaveConfig(cfg)
}

// cliLogger is the logger for one-shot commands: the debug log file when requested,
// otherwise nothing.
func cliLogger(app *App) (logrus.FieldLogger, func() error, error) {
	l, closeLog, err := logging.OpenFile(app.DebugLog)
	if err != nil {
		return nil, nil, err
	}
	return l, closeLog, nil
}
