package catalog

import "intake-go/internal/schema"

// timestampPattern matches intake.TimestampLayout.
const timestampPattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2}$`

// FileInfoSchema returns the schema describing documents produced by Encode.
// Extra keys are allowed.
func FileInfoSchema() *schema.Document {
	var zero int64
	one := 1
	return &schema.Document{
		Schema:      schema.Draft07,
		Title:       "File Info",
		Description: "Metadata of the files in a scanned directory",
		Type:        "array",
		Items: &schema.Document{
			Type: "object",
			Properties: map[string]*schema.Document{
				KeyFilename:     {Type: "string", MinLength: &one},
				KeyFullPath:     {Type: "string"},
				KeyFileSize:     {Type: "integer", Minimum: &zero},
				KeyCreationDate: {Type: "string", Pattern: timestampPattern},
				KeyLastModified: {Type: "string", Pattern: timestampPattern},
			},
			Required: append([]string(nil), requiredKeys...),
		},
	}
}
