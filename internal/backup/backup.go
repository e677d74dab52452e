// Package backup exports and imports the whole record set as a JSON file.
package backup

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"arha/internal/core"
)

const schemaURL = "backup.schema.json"

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidBackup wraps every reason an import is refused.
var ErrInvalidBackup = errors.New("invalid backup")

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// FileName is the download name for a backup taken at now.
func FileName(now time.Time) string {
	return "backup-jasa-arha-" + now.Format(core.DateLayout) + ".json"
}

// Export writes every record, in storage order, as indented JSON.
func Export(w io.Writer, records []core.Transaction) error {
	if records == nil {
		records = []core.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Import reads a backup produced by Export. The document is checked against
// the backup schema before any record is decoded.
func Import(r io.Reader) ([]core.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	sch, err := schema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	var records []core.Transaction
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	return records, nil
}
