package menu

import (
	"strconv"
	"strings"
)

// Item is one menu entry. Its position in the loaded slice is its identifier.
type Item struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Sizes    []string `json:"sizes,omitempty" yaml:"sizes,omitempty" validate:"omitempty,dive,required"`
	Calories *float64 `json:"calories,omitempty" yaml:"calories,omitempty" validate:"omitempty,gte=0"`
}

// Display renders the item the way it is shown to the generator:
// "Burger (Small, Large), 500 calories".
func (it Item) Display() string {
	var b strings.Builder
	b.WriteString(it.Name)
	if len(it.Sizes) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(it.Sizes, ", "))
		b.WriteString(")")
	}
	if it.Calories != nil {
		b.WriteString(", ")
		b.WriteString(strconv.FormatFloat(*it.Calories, 'f', -1, 64))
		b.WriteString(" calories")
	}
	return b.String()
}

// EmbeddingText is the text embedded for the item. Only the name is used.
func (it Item) EmbeddingText() string {
	return it.Name
}

// Calories is a helper for building items with a calorie count.
func Calories(n float64) *float64 {
	return &n
}
