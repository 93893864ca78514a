package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ba0f3/menurag/internal/menu"
	"github.com/ba0f3/menurag/internal/retriever"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMatches = []retriever.Match{
	{ID: 0, Item: menu.Item{Name: "Burger", Sizes: []string{"Small", "Large"}, Calories: menu.Calories(500)}, Score: 0.98765},
	{ID: 3, Item: menu.Item{Name: "Iced Tea"}, Score: 0.25},
}

func TestSearchRows(t *testing.T) {
	rows := searchRows(testMatches)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 0.99, rows[0].Score)
	assert.Equal(t, "Burger (Small, Large), 500 calories", rows[0].Display)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 3, rows[1].ID)
}

func TestWriteSearchOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchOutput(&buf, searchRows(testMatches), "json"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Burger", got[0]["name"])
	assert.Equal(t, 500.0, got[0]["calories"])
	assert.NotContains(t, got[1], "calories")
	assert.NotContains(t, got[1], "sizes")

	buf.Reset()
	require.NoError(t, WriteSearchOutput(&buf, nil, "json"))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteSearchOutputCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchOutput(&buf, searchRows(testMatches), "csv"))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"rank", "id", "name", "sizes", "calories", "score"}, records[0])
	assert.Equal(t, []string{"1", "0", "Burger", "Small|Large", "500", "0.9900"}, records[1])
	assert.Equal(t, []string{"2", "3", "Iced Tea", "", "", "0.2500"}, records[2])
}

func TestWriteSearchOutputMarkdownAndCLI(t *testing.T) {
	var buf bytes.Buffer
	rows := searchRows([]retriever.Match{{Item: menu.Item{Name: "Soup | Salad"}, Score: 0.5}})
	require.NoError(t, WriteSearchOutput(&buf, rows, "md"))
	assert.Contains(t, buf.String(), `| 1 | Soup \| Salad | 0.50 |`)

	buf.Reset()
	require.NoError(t, WriteSearchOutput(&buf, searchRows(testMatches), "cli"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1. Burger (Small, Large), 500 calories", lines[0])
	assert.Equal(t, "   Score: 99%", lines[1])

	buf.Reset()
	require.NoError(t, WriteSearchOutput(&buf, nil, "cli"))
	assert.Equal(t, "No matching menu items.\n", buf.String())
}

func TestWriteSearchOutputUnknownFormat(t *testing.T) {
	assert.Error(t, WriteSearchOutput(&bytes.Buffer{}, nil, "xml"))
}
