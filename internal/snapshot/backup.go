package snapshot

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidBackup is returned when an import file is not a snapshot.
var ErrInvalidBackup = errors.New("invalid backup")

//go:embed backup.schema.json
var backupSchemaJSON []byte

const backupSchemaURL = "schema://habitcheck-backup.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func backupSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(backupSchemaJSON, &doc); err != nil {
			schemaErr = fmt.Errorf("parse backup schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(backupSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(backupSchemaURL)
	})
	return compiledSchema, schemaErr
}

// ParseBackup validates and migrates an exported file. Anything that is not
// recognisably a snapshot fails with ErrInvalidBackup; the caller's state is
// not touched either way.
func ParseBackup(b []byte) (Data, error) {
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	schema, err := backupSchema()
	if err != nil {
		return Data{}, fmt.Errorf("compile backup schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	return Migrate(parsed), nil
}
