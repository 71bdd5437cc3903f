package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"vgdb-cli/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the deployed catalog service.
const DefaultBaseURL = "https://nate-bens-vgdb.herokuapp.com"

const (
	pathGames    = "/videogames"
	pathGame     = "/videogames/{id}"
	pathUsers    = "/users"
	pathSessions = "/sessions"
)

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// Jar holds the session cookie. Nil means a fresh in-memory jar.
	Jar http.CookieJar
	// Transport overrides the HTTP transport (tests, proxies).
	Transport http.RoundTripper
	Logger    logrus.FieldLogger
}

// Client talks to the catalog service. Every request carries the session cookie from the jar.
type Client struct {
	base *url.URL
	jar  http.CookieJar
	http *resty.Client
	log  logrus.FieldLogger
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
	}

	jar := opts.Jar
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	rc := resty.New().
		SetBaseURL(raw).
		SetCookieJar(jar).
		SetTimeout(opts.Timeout).
		SetLogger(log)
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		rc.SetHeader("User-Agent", ua)
	}
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}

	return &Client{base: base, jar: jar, http: rc, log: log}, nil
}

func (c *Client) BaseURL() string { return c.base.String() }

// Cookies returns the session cookies currently held for the service.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

// SetCookies restores previously saved session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	c.jar.SetCookies(c.base, cookies)
}

func (c *Client) ListGames(ctx context.Context) ([]model.Game, error) {
	const op = "list games"
	resp, err := c.http.R().SetContext(ctx).Get(pathGames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if !resp.IsSuccess() {
		return nil, statusErr(op, resp.StatusCode())
	}
	var games []model.Game
	if err := json.Unmarshal(resp.Body(), &games); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return games, nil
}

func (c *Client) GetGame(ctx context.Context, id model.ID) (model.Game, error) {
	const op = "get game"
	if id.IsZero() {
		return model.Game{}, errors.New("get game: missing id")
	}
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id.String()).Get(pathGame)
	if err != nil {
		return model.Game{}, fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if !resp.IsSuccess() {
		return model.Game{}, statusErr(op, resp.StatusCode())
	}
	var g model.Game
	if err := json.Unmarshal(resp.Body(), &g); err != nil {
		return model.Game{}, fmt.Errorf("%s: decode: %w", op, err)
	}
	return g, nil
}

// CreateGame posts f and returns the created record. Services that answer 2xx without a
// decodable record yield the submitted fields with a zero ID.
func (c *Client) CreateGame(ctx context.Context, f model.GameFields) (model.Game, error) {
	const op = "create game"
	resp, err := c.http.R().SetContext(ctx).SetFormData(f.Form()).Post(pathGames)
	if err != nil {
		return model.Game{}, fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if !resp.IsSuccess() {
		return model.Game{}, statusErr(op, resp.StatusCode())
	}
	var g model.Game
	if err := json.Unmarshal(resp.Body(), &g); err != nil || g.ID.IsZero() {
		return f.Game(""), nil
	}
	return g, nil
}

func (c *Client) UpdateGame(ctx context.Context, id model.ID, f model.GameFields) error {
	const op = "update game"
	if id.IsZero() {
		return errors.New("update game: missing id")
	}
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id.String()).SetFormData(f.Form()).Put(pathGame)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if !resp.IsSuccess() {
		return statusErr(op, resp.StatusCode())
	}
	return nil
}

func (c *Client) DeleteGame(ctx context.Context, id model.ID) error {
	const op = "delete game"
	if id.IsZero() {
		return errors.New("delete game: missing id")
	}
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id.String()).Delete(pathGame)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if !resp.IsSuccess() {
		return statusErr(op, resp.StatusCode())
	}
	return nil
}

// CurrentUser returns the profile bound to the session.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	const op = "current user"
	resp, err := c.http.R().SetContext(ctx).Get(pathUsers)
	if err != nil {
		return model.User{}, fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if !resp.IsSuccess() {
		return model.User{}, statusErr(op, resp.StatusCode())
	}
	var u model.User
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return model.User{}, fmt.Errorf("%s: decode: %w", op, err)
	}
	return u, nil
}

// Register creates an account. Only 201 Created counts as success.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	const op = "register"
	resp, err := c.http.R().SetContext(ctx).SetFormData(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}).Post(pathUsers)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if resp.StatusCode() != http.StatusCreated {
		return statusErr(op, resp.StatusCode())
	}
	return nil
}

// Login opens a session. The service signals bad credentials with 401; every other
// status is treated as success.
func (c *Client) Login(ctx context.Context, email, password string) error {
	const op = "login"
	resp, err := c.http.R().SetContext(ctx).SetFormData(map[string]string{
		"email":    email,
		"password": password,
	}).Post(pathSessions)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	if resp.StatusCode() == http.StatusUnauthorized {
		return statusErr(op, resp.StatusCode())
	}
	return nil
}

// Logout ends the session. Any response counts; only transport failures are returned.
func (c *Client) Logout(ctx context.Context) error {
	const op = "logout"
	resp, err := c.http.R().SetContext(ctx).Delete(pathSessions)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.trace(op, resp)
	return nil
}

func (c *Client) trace(op string, resp *resty.Response) {
	c.log.WithFields(logrus.Fields{
		"op":     op,
		"method": resp.Request.Method,
		"url":    resp.Request.URL,
		"status": resp.StatusCode(),
		"took":   resp.Time(),
	}).Debug("catalog request")
}
