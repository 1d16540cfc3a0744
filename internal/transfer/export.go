// Package transfer moves the transaction list in and out of files: JSON and
// CSV export, JSON import.
package transfer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Name", "Type", "Date", "Time", "Category", "Amount", "Card", "Description"}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Filename returns transactions-<YYYY-MM-DD>.<ext>.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("transactions-%s.%s", now.Format(core.DateLayout), f)
}

// Write exports txs in format f.
func Write(w io.Writer, f Format, txs []core.Transaction) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, txs)
	case FormatJSON:
		return WriteJSON(w, txs)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteJSON writes txs as a JSON array indented with two spaces.
func WriteJSON(w io.Writer, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	b, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// WriteCSV writes a header row and one row per transaction. Every field is
// quoted and embedded quotes are doubled.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, CSVHeader)
	for _, tx := range txs {
		writeRow(bw, []string{
			tx.Name,
			tx.Type.String(),
			tx.Date.String(),
			tx.Time,
			tx.Category,
			tx.Amount.String(),
			tx.Card,
			tx.Description,
		})
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(neutralize(f), `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

// neutralize stops spreadsheets from evaluating a cell as a formula. A sign
// followed by a digit or a space is data ("-5 refund") and is left alone.
func neutralize(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '@', '\t', '\r':
		return "'" + s
	case '+', '-':
		if len(s) == 1 || (s[1] >= '0' && s[1] <= '9') || s[1] == ' ' || s[1] == '.' {
			return s
		}
		return "'" + s
	}
	return s
}
