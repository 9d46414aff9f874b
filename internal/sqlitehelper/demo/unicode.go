package demo

import (
	"bytes"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/styled"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// unicodeSamples are stored as UTF-16LE, the way wide strings arrive from
// Windows APIs, and converted to UTF-8 before they reach SQLite.
var unicodeSamples = []string{
	"Zürich",
	"東京都",
	"Ελληνικά",
	"Cafe\u0301 (decomposed)",
	"O'Brien 🙂",
}

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeUTF16 converts UTF-8 text to UTF-16LE bytes.
func encodeUTF16(s string) ([]byte, error) {
	return utf16LE.NewEncoder().Bytes([]byte(s))
}

// decodeUTF16 converts UTF-16LE bytes to UTF-8 text.
func decodeUTF16(b []byte) (string, error) {
	decoded, err := utf16LE.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// unicodeResult is the outcome of round-tripping one sample.
type unicodeResult struct {
	Sample    string
	WideBytes int
	IsNFC     bool
	Identical bool
}

func (r *Runner) unicodeRoundTrip() error {
	r.ensureOpen()

	if r.exec("create table unicode_names",
		"create table if not exists unicode_names(id integer primary key, name text)", nil) != sqlitec.CodeOK {
		return nil
	}
	r.exec("clear unicode_names", "delete from unicode_names", nil)

	wide := make([][]byte, len(unicodeSamples))
	for i, sample := range unicodeSamples {
		encoded, err := encodeUTF16(sample)
		if err != nil {
			return fmt.Errorf("failed to encode sample %d: %w", i, err)
		}
		wide[i] = encoded

		text, err := decodeUTF16(encoded)
		if err != nil {
			return fmt.Errorf("failed to decode sample %d: %w", i, err)
		}

		r.exec(fmt.Sprintf("insert sample %d", i),
			fmt.Sprintf("insert into unicode_names(id, name) values (%d, %s)", i, sqlitec.QuoteLiteral(text)), nil)
	}

	var stored []string
	code := r.exec("select unicode_names", "select name from unicode_names order by id",
		sqlitec.RowVisitorFunc(func(row sqlitec.Row) error {
			stored = append(stored, row[0].Text)
			return nil
		}))
	if code != sqlitec.CodeOK {
		return nil
	}

	results := make([]unicodeResult, len(unicodeSamples))
	for i, sample := range unicodeSamples {
		results[i] = unicodeResult{
			Sample:    sample,
			WideBytes: len(wide[i]),
			IsNFC:     norm.NFC.IsNormalString(sample),
		}
		if i >= len(stored) {
			continue
		}
		roundTrip, err := encodeUTF16(stored[i])
		if err != nil {
			return fmt.Errorf("failed to encode stored value %d: %w", i, err)
		}
		results[i].Identical = bytes.Equal(wide[i], roundTrip)
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Sample", "UTF-16 bytes", "NFC", "Round trip"})
	for _, res := range results {
		roundTrip := "identical"
		if !res.Identical {
			roundTrip = "different"
		}
		tw.AppendRow(table.Row{res.Sample, res.WideBytes, res.IsNFC, roundTrip})
	}
	r.printf("%s\n", tw.Render())

	return nil
}
