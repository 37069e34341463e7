// Package vision adapts a recursive structured-output schema to the vision
// model SDK's schema type, issues a streaming generate-content call with a
// bounded deadline, and parses the accumulated response as JSON shaped by
// that schema.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"

	"gridwatch/internal/pipeline/errs"
	"gridwatch/internal/schema"
)

var supportedExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
}

// Adapter analyzes a single image against an SOP's prompt and schema.
type Adapter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New builds an Adapter bound to modelName (e.g. "gemini-1.5-pro") and the
// per-call deadline from the component design (default 30s).
func New(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*Adapter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("vision: new client: %w", err)
	}
	return &Adapter{client: client, model: modelName, timeout: timeout}, nil
}

// Analyze validates imagePath, builds a request carrying the image bytes
// plus the prompt, translates sop's schema into the SDK's schema type,
// issues a streaming generate call bounded by the adapter's timeout, and
// parses the accumulated text as JSON.
func (a *Adapter) Analyze(ctx context.Context, imagePath, prompt string, sopSchema *schema.Schema) (json.RawMessage, error) {
	mimeType, err := mimeTypeFor(imagePath)
	if err != nil {
		return nil, errs.New(errs.ExtractionFailed, "vision.Analyze", err)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, errs.New(errs.ExtractionFailed, "vision.Analyze", fmt.Errorf("read image: %w", err))
	}

	var respSchema *genai.Schema
	if sopSchema != nil {
		if err := sopSchema.Validate(); err != nil {
			return nil, errs.New(errs.SchemaInvalid, "vision.Analyze", err)
		}
		respSchema = translateSchema(sopSchema)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(data, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   respSchema,
	}

	stream := a.client.Models.GenerateContentStream(callCtx, a.model, contents, config)
	var accumulated strings.Builder
	for chunk, err := range stream {
		if err != nil {
			if callCtx.Err() != nil {
				return nil, errs.New(errs.AnalysisTimeout, "vision.Analyze", callCtx.Err())
			}
			if isDeprecationError(err) {
				return nil, errs.New(errs.ConfigError, "vision.Analyze", err)
			}
			return nil, errs.New(errs.TransientNetwork, "vision.Analyze", err)
		}
		accumulated.WriteString(chunk.Text())
	}

	raw := json.RawMessage(accumulated.String())
	if !json.Valid(raw) {
		return nil, errs.New(errs.AnalysisParse, "vision.Analyze", fmt.Errorf("model response was not valid JSON: %q", accumulated.String()))
	}
	return raw, nil
}

func mimeTypeFor(imagePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(imagePath))
	mimeType, ok := supportedExts[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}
	if detected := mime.TypeByExtension(ext); detected != "" {
		return mimeType, nil
	}
	return mimeType, nil
}

// translateSchema converts the pipeline's recursive schema descriptor into
// the vision SDK's Schema type: object -> {properties, required}, array ->
// {items}, scalars pass through, unknown names default to string.
func translateSchema(s *schema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Type: translateType(s.Type)}
	switch s.Type {
	case schema.TypeObject:
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = translateSchema(prop)
		}
		out.Required = s.Required
	case schema.TypeArray:
		out.Items = translateSchema(s.Items)
	}
	return out
}

func translateType(t schema.Type) genai.Type {
	switch t {
	case schema.TypeString:
		return genai.TypeString
	case schema.TypeNumber:
		return genai.TypeNumber
	case schema.TypeBoolean:
		return genai.TypeBoolean
	case schema.TypeArray:
		return genai.TypeArray
	case schema.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func isDeprecationError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deprecated") || strings.Contains(msg, "no longer supported")
}
