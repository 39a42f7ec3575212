package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Select-option ids of the "Status" field in the media table.
const (
	StatusInPlace uint64 = 3028
	StatusActive  uint64 = 3029
	StatusOnLoan  uint64 = 3030
)

// Column aliases tried in order when reading a category row.
var (
	CategoryNameAliases        = []string{"Name", "name", "Category", "category"}
	CategoryDescriptionAliases = []string{"Description", "description"}
)

// Field is a single column of a datastore row.
type Field struct {
	Key   string
	Value any
}

// Category is one row of the categories table. Fields keeps the columns in
// the order the datastore returned them.
type Category struct {
	ID     uint64  `json:"id"`
	Fields []Field `json:"-"`
}

// Get returns the value of the named column.
func (c Category) Get(key string) (any, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (c Category) firstString(aliases []string) (string, bool) {
	for _, alias := range aliases {
		v, ok := c.Get(alias)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// Name resolves the category name through CategoryNameAliases.
func (c Category) Name() (string, bool) {
	return c.firstString(CategoryNameAliases)
}

// Description resolves the category description through CategoryDescriptionAliases.
func (c Category) Description() (string, bool) {
	return c.firstString(CategoryDescriptionAliases)
}

// DisplayName is the name, or "Category <id>" when the row has none.
func (c Category) DisplayName() string {
	if name, ok := c.Name(); ok {
		return name
	}
	return fmt.Sprintf("Category %d", c.ID)
}

// UnmarshalJSON decodes a row while keeping its column order.
func (c *Category) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category row is not an object")
	}

	c.Fields = c.Fields[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode column %q: %w", key, err)
		}

		if key == "id" {
			num, ok := value.(json.Number)
			if !ok {
				return fmt.Errorf("category id is not a number")
			}
			id, err := strconv.ParseUint(num.String(), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q: %w", num, err)
			}
			c.ID = id
			continue
		}
		c.Fields = append(c.Fields, Field{Key: key, Value: value})
	}

	_, err = dec.Token()
	return err
}

// CategoryNames returns the resolvable names of categories, in order.
func CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if name, ok := c.Name(); ok {
			names = append(names, name)
		}
	}
	return names
}

// ResolveCategoryIDs maps names to category ids by case-insensitive equality.
// Names with no matching category are returned in unmatched.
func ResolveCategoryIDs(names []string, categories []Category) (ids []uint64, unmatched []string) {
	for _, name := range names {
		found := false
		for _, c := range categories {
			catName, ok := c.Name()
			if ok && strings.EqualFold(catName, name) {
				ids = append(ids, c.ID)
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, name)
		}
	}
	return ids, unmatched
}

// CoverImageRef points at a file already uploaded to the datastore.
type CoverImageRef struct {
	Name string `json:"name"`
}

// CatalogEntry is the media-table row submitted for a book.
type CatalogEntry struct {
	Title     string          `json:"Title"`
	Author    string          `json:"Author"`
	ISBN      string          `json:"ISBN,omitempty"`
	Synopsis  string          `json:"Synopsis"`
	Category  []uint64        `json:"Category"`
	Read      bool            `json:"Read"`
	Rating    int             `json:"Rating"`
	MediaType uint64          `json:"Media Type,omitempty"`
	Location  []uint64        `json:"Location,omitempty"`
	Cover     []CoverImageRef `json:"Cover,omitempty"`
	Status    uint64          `json:"Status,omitempty"`
}

// Validate checks the entry is fit for submission.
func (e CatalogEntry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: entry has no title", ErrInvalidEntry)
	}
	if len(e.Category) == 0 {
		return fmt.Errorf("%w: entry has no category ids", ErrNoValidCategories)
	}
	return nil
}
