// Package schema validates JSON documents against JSON Schema documents and
// reports the first violation with its location.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"intake-go/internal/common"
	"intake-go/internal/intake"
)

// resourceURL names the in-memory schema resource; nothing is ever fetched.
const resourceURL = "https://schemas.intake.local/document.json"

// SchemaError reports a schema document that is not itself a valid schema.
// It wraps common.ErrMalformedDocument.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema document: %v", e.Err)
}

func (e *SchemaError) Unwrap() []error {
	return []error{common.ErrMalformedDocument, e.Err}
}

// Validator implements intake.SchemaValidator.
type Validator struct {
	printer *message.Printer
}

var _ intake.SchemaValidator = (*Validator)(nil)

// NewValidator creates a validator that renders messages in English.
func NewValidator() *Validator {
	return &Validator{printer: message.NewPrinter(language.English)}
}

// Validate checks document against schemaDoc.
func (v *Validator) Validate(document, schemaDoc []byte) (*intake.Violation, error) {
	sch, err := compile(schemaDoc)
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: document is not JSON: %v", common.ErrMalformedDocument, err)
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validating document: %w", err)
	}
	return v.violation(firstLeaf(verr)), nil
}

func compile(schemaDoc []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		return nil, &SchemaError{Err: err}
	}
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft7)
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, &SchemaError{Err: err}
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, &SchemaError{Err: err}
	}
	return sch, nil
}

func (v *Validator) violation(leaf *jsonschema.ValidationError) *intake.Violation {
	path := make([]any, 0, len(leaf.InstanceLocation)+1)
	for _, tok := range leaf.InstanceLocation {
		path = append(path, pathElem(tok))
	}
	if req, ok := leaf.ErrorKind.(*kind.Required); ok && len(req.Missing) > 0 {
		missing := append([]string(nil), req.Missing...)
		sort.Strings(missing)
		path = append(path, missing[0])
	}
	return &intake.Violation{
		Message: leaf.ErrorKind.LocalizedString(v.printer),
		Path:    path,
	}
}

// firstLeaf returns the leaf failure with the smallest instance location.
// Sibling order in the error tree is not stable, so the pick is by location.
func firstLeaf(root *jsonschema.ValidationError) *jsonschema.ValidationError {
	var leaves []*jsonschema.ValidationError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(root)

	best := leaves[0]
	for _, l := range leaves[1:] {
		if lessLocation(l.InstanceLocation, best.InstanceLocation) {
			best = l
		}
	}
	return best
}

func lessLocation(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		ai, aerr := strconv.Atoi(a[i])
		bi, berr := strconv.Atoi(b[i])
		if aerr == nil && berr == nil {
			return ai < bi
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}

func pathElem(tok string) any {
	if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
		return n
	}
	return tok
}
