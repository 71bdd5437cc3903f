package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteTable renders v as a bordered table. A {"data": ...} envelope is unwrapped first.
func WriteTable(w io.Writer, v any) error {
	header, rows, err := tableRows(v)
	if err != nil {
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...).
		Rows(rows...)
	_, err = fmt.Fprintln(w, t.String())
	return err
}

func tableRows(v any) ([]string, [][]string, error) {
	if tv, ok := v.(Tabular); ok {
		return tv.Header(), tv.Rows(), nil
	}
	x, err := toGeneric(v)
	if err != nil {
		return nil, nil, err
	}
	if m, ok := x.(map[string]any); ok && len(m) == 1 {
		if inner, ok := m["data"]; ok {
			x = inner
		}
	}

	switch t := x.(type) {
	case []any:
		return objectRows(t)
	case map[string]any:
		keys := sortedKeys(t)
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, cell(t[k])})
		}
		return []string{"field", "value"}, rows, nil
	default:
		return []string{"value"}, [][]string{{cell(t)}}, nil
	}
}

// objectRows turns a list of objects into rows over the union of their keys, "id" first.
func objectRows(xs []any) ([]string, [][]string, error) {
	seen := map[string]bool{}
	for _, it := range xs {
		if m, ok := it.(map[string]any); ok {
			for k := range m {
				seen[k] = true
			}
		}
	}
	keys := sortedKeys(seen)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i] == "id" && keys[j] != "id" })
	if len(keys) == 0 {
		keys = []string{"value"}
	}

	rows := make([][]string, 0, len(xs))
	for _, it := range xs {
		m, ok := it.(map[string]any)
		if !ok {
			rows = append(rows, []string{cell(it)})
			continue
		}
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = cell(m[k])
		}
		rows = append(rows, row)
	}
	return keys, rows, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return strings.TrimSpace(string(b))
	}
}
