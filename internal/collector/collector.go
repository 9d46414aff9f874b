// Package collector accumulates (text key, numeric value) result rows into a
// table keyed by the text value.
package collector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
)

// Sentinel is the value stored when a row's numeric cell is NULL or cannot be
// parsed. Entry.Parsed tells it apart from a real -1.
const Sentinel = -1.0

// Entry is one collected row.
type Entry struct {
	Key    string
	Value  float64
	Parsed bool
}

// ShapeError describes a result row whose columns are not the ones the
// collector was built for.
type ShapeError struct {
	Want []string
	Got  []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf(
		"unexpected result columns: want [%s], got [%s]",
		strings.Join(e.Want, ", "), strings.Join(e.Got, ", "),
	)
}

// Collector is a sqlitec.RowVisitor for two column results. It is owned by
// the caller and is not safe for concurrent use.
type Collector struct {
	keyColumn   string
	valueColumn string
	entries     map[string]Entry
}

var _ sqlitec.RowVisitor = (*Collector)(nil)

// New returns an empty collector expecting rows with exactly the columns
// keyColumn and valueColumn, in that order.
func New(keyColumn string, valueColumn string) *Collector {
	return &Collector{
		keyColumn:   keyColumn,
		valueColumn: valueColumn,
		entries:     make(map[string]Entry),
	}
}

// Receive stores one row, replacing any entry with the same key.
//
// A row with other columns is a programming error and Receive panics with a
// *ShapeError. A NULL key is stored as the empty string.
func (c *Collector) Receive(row sqlitec.Row) error {
	if len(row) != 2 || row[0].Name != c.keyColumn || row[1].Name != c.valueColumn {
		panic(&ShapeError{
			Want: []string{c.keyColumn, c.valueColumn},
			Got:  row.Names(),
		})
	}

	entry := Entry{Key: row[0].Text, Value: Sentinel}
	if row[1].Valid {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[1].Text), 64); err == nil {
			entry.Value = v
			entry.Parsed = true
		}
	}

	c.entries[entry.Key] = entry
	return nil
}

// Lookup returns the entry stored under key.
func (c *Collector) Lookup(key string) (Entry, bool) {
	entry, ok := c.entries[key]
	return entry, ok
}

// Len returns the number of distinct keys collected.
func (c *Collector) Len() int {
	return len(c.entries)
}

// Table returns all entries ordered by key.
func (c *Collector) Table() []Entry {
	table := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		table = append(table, entry)
	}
	sort.Slice(table, func(i, j int) bool {
		return table[i].Key < table[j].Key
	})
	return table
}

// Reset drops every collected entry.
func (c *Collector) Reset() {
	clear(c.entries)
}
