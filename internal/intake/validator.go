package intake

// SchemaValidator checks a document against a schema document.
// It makes no assumption about who produced either document.
type SchemaValidator interface {
	// Validate returns (nil, nil) for a conforming document and a Violation for
	// the first offending location otherwise. A schema that is itself invalid is
	// reported as an error, never as a Violation.
	Validate(document, schema []byte) (*Violation, error)
}
