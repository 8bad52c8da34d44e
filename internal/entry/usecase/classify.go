package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"station-ops-bot/internal/entry"
)

// replySchema accepts any object whose "type" names a known entry type.
var replySchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {"type": "string", "pattern": "^(?i)\\s*(expense|fuel|task|issue)\\s*$"},
		"date": {"type": ["string", "null"]},
		"deadline": {"type": ["string", "null"]}
	}
}`)

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// classifySegment asks the completion backend for the segment's type and fields.
func (uc *implUseCase) classifySegment(ctx context.Context, segment string, today time.Time) (entry.Type, entry.Fields, error) {
	req, err := uc.buildRequest(segment, today)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", entry.ErrCompletion, err)
	}

	if uc.cfg.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.CompletionTimeout)
		defer cancel()
	}

	resp, err := uc.llm.GenerateContent(ctx, req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", entry.ErrCompletion, err)
	}

	raw := resp.Content.Text()
	uc.l.Debugf(ctx, "entry.usecase.classifySegment: provider=%s reply=%q", resp.ProviderName, raw)

	typ, fields, err := parseReply(raw)
	if err != nil {
		return "", nil, err
	}

	if !fields.Has("date") {
		fields["date"] = today.Format(entry.DateLayout)
	}
	return typ, fields, nil
}

// parseReply decodes a completion reply into a type and field map.
func parseReply(raw string) (entry.Type, entry.Fields, error) {
	cleaned := sanitizeJSONResponse(raw)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: empty reply", entry.ErrMalformedReply)
	}

	result, err := gojsonschema.Validate(replySchema, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", entry.ErrMalformedReply, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return "", nil, fmt.Errorf("%w: %s", entry.ErrMalformedReply, strings.Join(msgs, "; "))
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var fields entry.Fields
	if err := dec.Decode(&fields); err != nil {
		return "", nil, fmt.Errorf("%w: %v", entry.ErrMalformedReply, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("%w: trailing data after the JSON object", entry.ErrMalformedReply)
	}

	typ, ok := entry.ParseType(fields.String("type"))
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown type %q", entry.ErrMalformedReply, fields.String("type"))
	}
	fields["type"] = string(typ)
	return typ, fields, nil
}

// sanitizeJSONResponse removes markdown code fences and leading/trailing prose
// that models often add around JSON output.
func sanitizeJSONResponse(text string) string {
	if m := codeFence.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return strings.TrimSpace(text)
	}
	// An array or other value wrapping the object is left intact so it fails validation.
	if bracket := strings.Index(text, "["); bracket != -1 && bracket < start {
		return strings.TrimSpace(text)
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[start : end+1])
}
