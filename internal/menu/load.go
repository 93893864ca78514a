package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrEmptyMenu is returned when the menu source holds no records.
var ErrEmptyMenu = errors.New("menu has no items")

var validate = validator.New()

// Load reads menu items from path. A path containing glob meta characters
// ("menus/**/*.json") is expanded and every matching file is read in sorted
// order; records are concatenated.
func Load(path string) ([]Item, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("menu path is empty")
	}
	files := []string{path}
	if hasMeta(path) {
		matches, err := doublestar.FilepathGlob(path)
		if err != nil {
			return nil, fmt.Errorf("expand menu pattern %s: %w", path, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no menu files match %s", path)
		}
		sort.Strings(matches)
		files = matches
	}

	var items []Item
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("menu file %s: %w", f, err)
		}
		if info.IsDir() {
			continue
		}
		got, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		items = append(items, got...)
	}
	if len(items) == 0 {
		return nil, ErrEmptyMenu
	}
	return items, nil
}

// LoadFile reads one JSON or YAML file holding an array of records.
// The format is chosen by extension; anything not .yaml/.yml is parsed as JSON.
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", path, err)
	}
	var items []Item
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &items)
	default:
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("parse menu %s: %w", path, err)
	}
	for i := range items {
		if err := validateItem(items[i]); err != nil {
			return nil, fmt.Errorf("menu %s record %d: %w", path, i, err)
		}
	}
	return items, nil
}

func validateItem(it Item) error {
	err := validate.Struct(it)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe)))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", fieldName(fe), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fieldName(fe), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
