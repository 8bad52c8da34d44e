package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"station-ops-bot/internal/entry"
	"station-ops-bot/internal/entry/reclassify"
	"station-ops-bot/internal/metrics"
	"station-ops-bot/internal/model"
	"station-ops-bot/pkg/gcalendar"
)

// Segment outcomes reported to metrics.
const (
	outcomeStored           = "stored"
	outcomeCompletionFailed = "completion_failed"
	outcomeMalformed        = "malformed_reply"
	outcomeInvalid          = "invalid"
	outcomeStorageFailed    = "storage_failed"
)

// Process runs every segment of the message through the pipeline in order.
func (uc *implUseCase) Process(ctx context.Context, sc model.Scope, input entry.ProcessInput) (entry.ProcessOutput, error) {
	segments := Segment(input.RawText)
	if len(segments) == 0 {
		uc.metrics.MessageProcessed(metrics.ResultEmpty)
		return entry.ProcessOutput{Reply: ReplyNothingToProcess}, entry.ErrEmptyInput
	}

	today := uc.dates.Today(uc.cfg.Now())
	uc.l.Infof(ctx, "entry.usecase.Process: chat=%d source=%s segments=%d today=%s",
		sc.ChatID, sc.Source, len(segments), today.Format(entry.DateLayout))

	var out entry.ProcessOutput
	for i, segment := range segments {
		position := i + 1

		stored, stage, err := uc.processSegment(ctx, position, segment, today)
		if err != nil {
			uc.l.Warnf(ctx, "entry.usecase.Process: skipped segment %d/%d stage=%s: %v", position, len(segments), stage, err)
			out.Skipped = append(out.Skipped, entry.SkippedSegment{
				Position: position,
				Segment:  segment,
				Stage:    stage,
				Err:      err,
			})
			continue
		}

		uc.l.Infof(ctx, "entry.usecase.Process: stored segment %d/%d type=%s record=%s", position, len(segments), stored.Entry.Type, stored.RecordID)
		out.Results = append(out.Results, stored)
	}

	out.Reply = FormatConfirmation(out.Results)
	uc.metrics.MessageProcessed(messageResult(len(out.Results), len(out.Skipped)))
	return out, nil
}

// processSegment classifies, corrects, validates and stores one segment.
// On failure it returns the stage that failed.
func (uc *implUseCase) processSegment(ctx context.Context, position int, segment string, today time.Time) (entry.StoredEntry, string, error) {
	typ, fields, err := uc.classifySegment(ctx, segment, today)
	if err != nil {
		outcome := outcomeCompletionFailed
		if errors.Is(err, entry.ErrMalformedReply) {
			outcome = outcomeMalformed
		}
		uc.metrics.SegmentProcessed("", outcome)
		return entry.StoredEntry{}, entry.StageCompletion, err
	}

	res := reclassify.Apply(reclassify.Input{Type: typ, Fields: fields, Text: segment, Today: today})
	if res.Rule != "" {
		uc.l.Infof(ctx, "entry.usecase.processSegment: rule %s retyped %s -> %s", res.Rule, typ, res.Type)
		uc.metrics.Reclassified(res.Rule)
	}

	e := uc.normalize(res.Type, res.Fields, segment, today, res.Rule != "")
	if err := validate(e); err != nil {
		uc.metrics.SegmentProcessed(string(e.Type), outcomeInvalid)
		return entry.StoredEntry{}, entry.StageValidation, err
	}

	recordID, err := uc.store(ctx, e)
	if err != nil {
		uc.metrics.SegmentProcessed(string(e.Type), outcomeStorageFailed)
		return entry.StoredEntry{}, entry.StageStorage, err
	}
	uc.metrics.SegmentProcessed(string(e.Type), outcomeStored)

	uc.tryScheduleTask(ctx, e, recordID)

	return entry.StoredEntry{
		Position: position,
		Entry:    e,
		RecordID: recordID,
		Rule:     res.Rule,
	}, "", nil
}

func (uc *implUseCase) store(ctx context.Context, e entry.ParsedEntry) (string, error) {
	if uc.cfg.StorageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.StorageTimeout)
		defer cancel()
	}

	table, fields := e.Record()
	id, err := uc.repo.CreateRecord(ctx, table, fields)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", entry.ErrStorage, table, err)
	}
	return id, nil
}

// tryScheduleTask adds an all-day calendar event for a task deadline.
// Failures are logged only.
func (uc *implUseCase) tryScheduleTask(ctx context.Context, e entry.ParsedEntry, recordID string) {
	if uc.calendar == nil || e.Type != entry.TypeTask || e.Deadline == "" {
		return
	}

	date, err := time.ParseInLocation(entry.DateLayout, e.Deadline, uc.dates.Location())
	if err != nil {
		uc.l.Warnf(ctx, "entry.usecase.tryScheduleTask: bad deadline %q: %v", e.Deadline, err)
		return
	}

	description := strings.TrimSpace(fmt.Sprintf("%s\n\nAssigned to: %s\nRecord ID: %s", e.Details, e.AssignedTo, recordID))
	event, err := uc.calendar.CreateAllDayEvent(ctx, gcalendar.AllDayEventRequest{
		CalendarID:  uc.cfg.CalendarID,
		Summary:     "📋 " + e.TaskTitle,
		Description: description,
		Date:        date,
	})
	if err != nil {
		uc.l.Warnf(ctx, "entry.usecase.tryScheduleTask: calendar event for %q failed (non-fatal): %v", e.TaskTitle, err)
		return
	}
	uc.l.Infof(ctx, "entry.usecase.tryScheduleTask: scheduled %q on %s event=%s", e.TaskTitle, e.Deadline, event.ID)
}

func messageResult(stored, skipped int) string {
	switch {
	case stored == 0:
		return metrics.ResultFailed
	case skipped > 0:
		return metrics.ResultPartial
	default:
		return metrics.ResultLogged
	}
}
