package schema

import "testing"

func TestParseValidObjectSchema(t *testing.T) {
	raw := []byte(`{
		"type": "object",
		"properties": {
			"label": {"type": "string"},
			"count": {"type": "number"}
		},
		"required": ["label"]
	}`)

	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Type != TypeObject {
		t.Fatalf("expected object type, got %s", s.Type)
	}
	if _, ok := s.Properties["label"]; !ok {
		t.Fatalf("expected 'label' property")
	}
}

func TestParseMissingType(t *testing.T) {
	_, err := Parse([]byte(`{"properties": {}}`))
	if err == nil {
		t.Fatal("expected error for missing type")
	}
}

func TestParseInvalidType(t *testing.T) {
	_, err := Parse([]byte(`{"type": "blob"}`))
	if err == nil {
		t.Fatal("expected error for invalid type")
	}
}

func TestParseObjectMissingProperties(t *testing.T) {
	_, err := Parse([]byte(`{"type": "object"}`))
	if err == nil {
		t.Fatal("expected error for object missing properties")
	}
}

func TestParseObjectRequiredNotInProperties(t *testing.T) {
	raw := []byte(`{
		"type": "object",
		"properties": {"label": {"type": "string"}},
		"required": ["missing"]
	}`)
	_, err := Parse(raw)
	if err == nil {
		t.Fatal("expected error when required field is absent from properties")
	}
}

func TestParseArrayMissingItems(t *testing.T) {
	_, err := Parse([]byte(`{"type": "array"}`))
	if err == nil {
		t.Fatal("expected error for array missing items")
	}
}

func TestParseNestedArrayOfObjects(t *testing.T) {
	raw := []byte(`{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}
	}`)
	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Items.Type != TypeObject {
		t.Fatalf("expected nested object, got %s", s.Items.Type)
	}
}
