// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for reading request bodies that may be JSON,
// url-encoded or multipart form data.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

const (
	maxFormBytes   = 64 << 10
	maxImportBytes = 5 << 20
)

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads at most limit bytes of the request body once.
func NewRequestBodyParser(r *http.Request, limit int64) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, limit+1))
	if p.err == nil && int64(len(p.body)) > limit {
		p.err = fmt.Errorf("request body exceeds %d bytes", limit)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.IsJSON() || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(p.formData.Get(key))
	}
	return ""
}

// IsJSON reports whether the declared content type is JSON.
func (p *RequestBodyParser) IsJSON() bool {
	mt, _, _ := mime.ParseMediaType(p.contentType)
	return mt == "application/json"
}

// TransactionForm maps the parsed body onto the add-transaction form.
func (p *RequestBodyParser) TransactionForm() core.TransactionForm {
	return core.TransactionForm{
		Name:        p.Get("name"),
		Type:        p.Get("type"),
		Date:        p.Get("date"),
		Time:        p.Get("time"),
		Category:    p.Get("category"),
		Amount:      p.Get("amount"),
		Card:        p.Get("card"),
		Description: p.Get("description"),
	}
}

// stringValue converts a decoded JSON value to its form string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// readImportPayload returns the uploaded file of a multipart request, or the
// raw body otherwise.
func readImportPayload(r *http.Request) ([]byte, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
		if err != nil {
			return nil, err
		}
		if len(data) > maxImportBytes {
			return nil, errors.New("import file is too large")
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxImportBytes))
}
