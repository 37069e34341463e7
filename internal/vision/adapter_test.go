package vision

import (
	"testing"

	"google.golang.org/genai"

	"gridwatch/internal/schema"
)

func TestTranslateSchemaObjectWithNestedArray(t *testing.T) {
	src := &schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Schema{
			"label": {Type: schema.TypeString},
			"tags": {
				Type:  schema.TypeArray,
				Items: &schema.Schema{Type: schema.TypeString},
			},
		},
		Required: []string{"label"},
	}

	out := translateSchema(src)
	if out.Type != genai.TypeObject {
		t.Fatalf("expected object type, got %v", out.Type)
	}
	if len(out.Required) != 1 || out.Required[0] != "label" {
		t.Fatalf("unexpected required: %v", out.Required)
	}
	tags, ok := out.Properties["tags"]
	if !ok {
		t.Fatal("expected tags property")
	}
	if tags.Type != genai.TypeArray || tags.Items.Type != genai.TypeString {
		t.Fatalf("unexpected tags schema: %+v", tags)
	}
}

func TestTranslateSchemaNil(t *testing.T) {
	if translateSchema(nil) != nil {
		t.Fatal("expected nil translation for nil schema")
	}
}

func TestMimeTypeForSupportedAndUnsupported(t *testing.T) {
	if _, err := mimeTypeFor("frame.jpg"); err != nil {
		t.Fatalf("unexpected error for .jpg: %v", err)
	}
	if _, err := mimeTypeFor("frame.tiff"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestIsDeprecationError(t *testing.T) {
	if !isDeprecationError(fakeErr("model v1 is deprecated")) {
		t.Fatal("expected deprecation error to be detected")
	}
	if isDeprecationError(fakeErr("connection reset by peer")) {
		t.Fatal("expected non-deprecation error to pass through")
	}
}

type fakeErr string

func (f fakeErr) Error() string { return string(f) }
