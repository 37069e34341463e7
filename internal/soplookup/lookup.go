// Package soplookup adapts the CRUD client into a screenshot.SOPLookup so
// the pipeline can resolve an SOP's prompt and decoded schema without
// linking against the database layer.
package soplookup

import (
	"fmt"

	"gridwatch/internal/crudclient"
	"gridwatch/internal/schema"
)

// Lookup resolves SOPs over HTTP via the CRUD service.
type Lookup struct {
	client *crudclient.Client
}

// New builds a Lookup backed by client.
func New(client *crudclient.Client) *Lookup {
	return &Lookup{client: client}
}

// DecodeByID fetches the SOP and parses its structured_output column into
// the recursive schema descriptor the VisionAdapter expects.
func (l *Lookup) DecodeByID(id uint) (string, *schema.Schema, error) {
	sop, err := l.client.GetSOP(id)
	if err != nil {
		return "", nil, fmt.Errorf("soplookup: fetch sop %d: %w", id, err)
	}
	if sop.StructuredOutput == "" {
		return sop.Prompt, nil, nil
	}
	s, err := schema.Parse([]byte(sop.StructuredOutput))
	if err != nil {
		return "", nil, fmt.Errorf("soplookup: decode schema for sop %d: %w", id, err)
	}
	return sop.Prompt, s, nil
}
