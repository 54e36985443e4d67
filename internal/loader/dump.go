package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Record - одна запись дампа: {"model": "core.visit", "pk": 1, "fields": {...}}
type Record struct {
	Model  string          `json:"model"`
	PK     uint            `json:"pk"`
	Fields json.RawMessage `json:"fields"`
}

// ReadDump читает весь дамп (JSON-массив записей)
func ReadDump(r io.Reader) ([]Record, error) {
	var records []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode dump: %w", err)
	}
	return records, nil
}

// decimal принимает и строку "1500.00", и число
type decimal float64

func (d *decimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q", s)
	}
	*d = decimal(v)
	return nil
}

// timestamp - ISO 8601 с зоной или без (без зоны считается UTC)
type timestamp struct {
	time.Time
	Valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*t = timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	if raw == "" {
		*t = timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = timestamp{Time: parsed.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

func (t timestamp) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// decodeFields разбирает fields; лишние поля дампа (groups, user_permissions) игнорируются
func decodeFields(rec Record, dst interface{}) error {
	if len(rec.Fields) == 0 {
		return fmt.Errorf("%s pk=%d: empty fields", rec.Model, rec.PK)
	}
	if err := json.Unmarshal(rec.Fields, dst); err != nil {
		return fmt.Errorf("%s pk=%d: %w", rec.Model, rec.PK, err)
	}
	return nil
}
