package http

import (
	"errors"
	"strings"

	"station-ops-bot/internal/entry"
)

// --- Request DTOs ---

type processReq struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text" binding:"required,max=4096"`
}

func (r processReq) validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text must not be blank")
	}
	return nil
}

func (r processReq) toInput() entry.ProcessInput {
	return entry.ProcessInput{
		ChatID:  r.ChatID,
		RawText: r.Text,
	}
}

// --- Response DTOs ---

type entryResp struct {
	Position int            `json:"position"`
	Type     string         `json:"type"`
	Table    string         `json:"table"`
	RecordID string         `json:"record_id"`
	Rule     string         `json:"rule,omitempty"`
	Fields   map[string]any `json:"fields"`
}

type skippedResp struct {
	Position int    `json:"position"`
	Segment  string `json:"segment"`
	Stage    string `json:"stage"`
	Error    string `json:"error"`
}

type processResp struct {
	Reply   string        `json:"reply"`
	Entries []entryResp   `json:"entries"`
	Skipped []skippedResp `json:"skipped"`
}

func (h *handler) newProcessResp(out entry.ProcessOutput) processResp {
	resp := processResp{
		Reply:   out.Reply,
		Entries: make([]entryResp, len(out.Results)),
		Skipped: make([]skippedResp, len(out.Skipped)),
	}

	for i, r := range out.Results {
		table, fields := r.Entry.Record()
		resp.Entries[i] = entryResp{
			Position: r.Position,
			Type:     string(r.Entry.Type),
			Table:    table,
			RecordID: r.RecordID,
			Rule:     r.Rule,
			Fields:   fields,
		}
	}

	for i, s := range out.Skipped {
		resp.Skipped[i] = skippedResp{
			Position: s.Position,
			Segment:  s.Segment,
			Stage:    s.Stage,
			Error:    s.Err.Error(),
		}
	}

	return resp
}
