package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ingredients is a string list that tolerates whatever the recipe store sends.
// A JSON array decodes as-is, a JSON string is treated as the comma separated
// form value, anything else decodes to nil. nil means "absent or malformed".
type Ingredients []string

// UnmarshalJSON implements json.Unmarshaler
func (in *Ingredients) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*in = nil
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			*in = nil
			return nil
		}
		out := make(Ingredients, 0, len(raw))
		for _, item := range raw {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				// a single non-string element makes the whole list unusable
				*in = nil
				return nil
			}
			out = append(out, s)
		}
		*in = out
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*in = nil
			return nil
		}
		*in = ParseIngredientList(s)
	default:
		*in = nil
	}
	return nil
}

// Value implements the driver.Valuer interface
func (in Ingredients) Value() (driver.Value, error) {
	if in == nil {
		return "null", nil
	}
	b, err := json.Marshal([]string(in))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (in *Ingredients) Scan(value interface{}) error {
	if value == nil {
		*in = nil
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported ingredients column type %T", value)
	}

	return in.UnmarshalJSON(b)
}

// Valid reports whether the list was present and well formed.
func (in Ingredients) Valid() bool {
	return in != nil
}

// ParseIngredientList splits a "farine, sucre, oeufs" form value.
func ParseIngredientList(s string) Ingredients {
	out := Ingredients{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Recipe is a record as served by the recipe store.
type Recipe struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Time        string      `json:"time"`
	Ingredients Ingredients `json:"ingredients"`
	Description string      `json:"description"`
	Image       string      `json:"image,omitempty"`
	Favorite    bool        `json:"favorite"`
	CreatedAt   time.Time   `json:"createdAt"`

	// Dietary flags. nil means the store did not send one.
	Gluten  *bool `json:"gluten,omitempty"`
	Vege    *bool `json:"vege,omitempty"`
	Grogros *bool `json:"grogros,omitempty"`
}

// UnmarshalJSON accepts both "id" and the mongo style "_id", and treats an
// unparseable createdAt as absent.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type plain Recipe
	var aux struct {
		plain
		MongoID   string          `json:"_id"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Recipe(aux.plain)
	if r.ID == "" {
		r.ID = aux.MongoID
	}
	r.CreatedAt = parseTimestamp(aux.CreatedAt)
	return nil
}

func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// RecipeInput is the create/update body collected by the recipe form.
type RecipeInput struct {
	Title       string      `json:"title" binding:"required"`
	Category    string      `json:"category"`
	Time        string      `json:"time"`
	Ingredients Ingredients `json:"ingredients"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Favorite    bool        `json:"favorite"`
	Gluten      *bool       `json:"gluten,omitempty"`
	Vege        *bool       `json:"vege,omitempty"`
	Grogros     *bool       `json:"grogros,omitempty"`
}

// MarshalJSON always sends ingredients as an array.
func (in RecipeInput) MarshalJSON() ([]byte, error) {
	type plain RecipeInput
	p := plain(in)
	if p.Ingredients == nil {
		p.Ingredients = Ingredients{}
	}
	return json.Marshal(p)
}
