// Package schema validates canvas state documents before they are imported.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed canvas.schema.json
var canvasSchema []byte

// ErrInvalidDocument is returned when a document does not match the schema.
var ErrInvalidDocument = errors.New("document does not match canvas schema")

var loader = gojsonschema.NewBytesLoader(canvasSchema)

// Schema returns the raw JSON Schema.
func Schema() []byte {
	return canvasSchema
}

// Validate checks a canvas state document. The returned error lists every
// violation and wraps ErrInvalidDocument.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(loader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w:\n  %s", ErrInvalidDocument, strings.Join(msgs, "\n  "))
}
