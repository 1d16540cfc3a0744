package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"fintrack/internal/core"
)

// ReadJSON parses an import payload. The top-level value must be an array and
// every record must be a valid transaction; any failure is a *core.ParseError
// and nothing is returned. IDs may be absent.
func ReadJSON(r io.Reader) ([]core.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &core.ParseError{Index: -1, Err: fmt.Errorf("read payload: %w", err)}
	}
	return DecodeJSON(data)
}

// DecodeJSON is ReadJSON over a byte slice.
func DecodeJSON(data []byte) ([]core.Transaction, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, &core.ParseError{Index: -1, Err: fmt.Errorf("malformed JSON")}
		}
		return nil, &core.ParseError{Index: -1, Err: core.ErrNotAnArray}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, &core.ParseError{Index: -1, Err: err}
	}

	txs := make([]core.Transaction, 0, len(records))
	for i, rec := range records {
		var tx core.Transaction
		if err := json.Unmarshal(rec, &tx); err != nil {
			return nil, &core.ParseError{Index: i, Err: err}
		}
		if err := tx.Validate(); err != nil {
			return nil, &core.ParseError{Index: i, Err: err}
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
