package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ID is a server-assigned identifier. The catalog service emits numeric ids, but clients
// treat them as opaque text so either JSON form decodes.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

func (id *ID) UnmarshalJSON(b []byte) error {
	s, err := decodeLoose(b)
	if err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// Text is a free-text attribute that tolerates JSON numbers (e.g. size is an INTEGER column
// server-side) and null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	s, err := decodeLoose(b)
	if err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

func decodeLoose(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return "", nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", errors.New("expected string or number")
	}
}

// Game is one catalog record.
type Game struct {
	ID        ID   `json:"id"`
	Name      Text `json:"name"`
	Genre     Text `json:"genre"`
	Size      Text `json:"size"`
	Date      Text `json:"date"`
	Publisher Text `json:"publisher"`
}

func (g Game) Fields() GameFields {
	return GameFields{
		Name:      string(g.Name),
		Genre:     string(g.Genre),
		Size:      string(g.Size),
		Date:      string(g.Date),
		Publisher: string(g.Publisher),
	}
}

// GameFields holds the user-editable attributes of a Game.
type GameFields struct {
	Name      string `json:"name"`
	Genre     string `json:"genre"`
	Size      string `json:"size"`
	Date      string `json:"date"`
	Publisher string `json:"publisher"`
}

// Game builds a record carrying these fields under id.
func (f GameFields) Game(id ID) Game {
	return Game{
		ID:        id,
		Name:      Text(f.Name),
		Genre:     Text(f.Genre),
		Size:      Text(f.Size),
		Date:      Text(f.Date),
		Publisher: Text(f.Publisher),
	}
}

// Form maps the fields to the form body keys the catalog service reads.
func (f GameFields) Form() map[string]string {
	return map[string]string{
		"name":      f.Name,
		"genre":     f.Genre,
		"size":      f.Size,
		"date":      f.Date,
		"publisher": f.Publisher,
	}
}

func (f GameFields) IsEmpty() bool {
	return strings.TrimSpace(f.Name+f.Genre+f.Size+f.Date+f.Publisher) == ""
}

// FindGame returns the first game with the given id in list order.
func FindGame(games []Game, id ID) (Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
