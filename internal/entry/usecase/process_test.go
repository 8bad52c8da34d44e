package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"station-ops-bot/internal/entry"
	"station-ops-bot/internal/entry/usecase"
	"station-ops-bot/internal/metrics"
	"station-ops-bot/internal/model"
	"station-ops-bot/pkg/datemath"
	"station-ops-bot/pkg/gcalendar"
	"station-ops-bot/pkg/llmprovider"
	pkgLog "station-ops-bot/pkg/log"
)

// scriptedCompleter answers by the last user message.
type scriptedCompleter struct {
	mu       sync.Mutex
	replies  map[string]string
	failures map[string]error
	requests []*llmprovider.Request
}

func (c *scriptedCompleter) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)

	segment := req.Messages[len(req.Messages)-1].Text()
	if err, ok := c.failures[segment]; ok {
		return nil, err
	}
	reply, ok := c.replies[segment]
	if !ok {
		return nil, fmt.Errorf("no scripted reply for %q", segment)
	}
	return &llmprovider.Response{
		Content:      llmprovider.TextMessage(llmprovider.RoleAssistant, reply),
		ProviderName: "scripted",
	}, nil
}

type createdRecord struct {
	table  string
	fields map[string]any
}

// memoryRepo hands out sequential IDs starting at 1.
type memoryRepo struct {
	mu        sync.Mutex
	records   []createdRecord
	failTable string
}

func (r *memoryRepo) CreateRecord(ctx context.Context, table string, fields map[string]any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if table == r.failTable {
		return "", errors.New("table unavailable")
	}
	r.records = append(r.records, createdRecord{table: table, fields: fields})
	return fmt.Sprint(len(r.records)), nil
}

type fakeCalendar struct {
	requests []gcalendar.AllDayEventRequest
	err      error
}

func (f *fakeCalendar) CreateAllDayEvent(ctx context.Context, req gcalendar.AllDayEventRequest) (*gcalendar.Event, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &gcalendar.Event{ID: "evt-1", Date: req.Date.Format("2006-01-02")}, nil
}

type fixture struct {
	uc       entry.UseCase
	llm      *scriptedCompleter
	repo     *memoryRepo
	calendar *fakeCalendar
	registry *prometheus.Registry
}

func newFixture(t *testing.T, replies map[string]string) *fixture {
	t.Helper()

	dates, err := datemath.NewParser("Africa/Blantyre")
	require.NoError(t, err)
	reference := time.Date(2025, 8, 4, 10, 0, 0, 0, dates.Location())

	f := &fixture{
		llm:      &scriptedCompleter{replies: replies, failures: map[string]error{}},
		repo:     &memoryRepo{},
		calendar: &fakeCalendar{},
		registry: prometheus.NewRegistry(),
	}
	f.uc = usecase.New(
		pkgLog.NewWithZap(zaptest.NewLogger(t)),
		f.llm,
		f.repo,
		dates,
		metrics.New(f.registry),
		f.calendar,
		usecase.Config{
			Temperature:       0.1,
			MaxTokens:         512,
			CompletionTimeout: time.Second,
			StorageTimeout:    time.Second,
			Now:               func() time.Time { return reference },
		},
	)
	return f
}

func process(t *testing.T, f *fixture, text string) entry.ProcessOutput {
	t.Helper()
	out, err := f.uc.Process(context.Background(), model.Scope{ChatID: 42, Source: model.SourceTelegram}, entry.ProcessInput{ChatID: 42, RawText: text})
	require.NoError(t, err)
	return out
}

func TestProcess_TwoSegmentsInOrder(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Spent 5000 on lunch":  `{"type":"expense","amount":5000,"description":"Lunch","person":"Me"}`,
		"Hilux used 40 liters": "```json\n{\"type\":\"fuel\",\"vehicle\":\"Toyota Hilux\",\"liters\":40}\n```",
	})

	out := process(t, f, "Spent 5000 on lunch; Hilux used 40 liters")

	require.Len(t, out.Results, 2)
	assert.Empty(t, out.Skipped)
	assert.Equal(t, "1", out.Results[0].RecordID)
	assert.Equal(t, "2", out.Results[1].RecordID)
	assert.Equal(t, entry.TypeExpense, out.Results[0].Entry.Type)
	assert.Equal(t, entry.TypeFuel, out.Results[1].Entry.Type)
	assert.Equal(t,
		"✅ Successfully logged 2 entries:\n1. 💰 5,000 MWK - Lunch (ID: 1)\n2. ⛽ 40L - Toyota Hilux (ID: 2)",
		out.Reply)

	require.Len(t, f.repo.records, 2)
	assert.Equal(t, entry.TablePettyCash, f.repo.records[0].table)
	assert.Equal(t, "2025-08-04", f.repo.records[0].fields["date"])
	assert.Equal(t, "Me", f.repo.records[0].fields["person"])
	assert.Equal(t, entry.TableFuelLogs, f.repo.records[1].table)
	assert.Equal(t, "Me", f.repo.records[1].fields["logged_by"])
}

func TestProcess_SingleExpenseReply(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Paid 15,000 MWK for filter replacement": `{"type":"expense","date":"2025-08-04","amount":15000,"description":"Filter replacement","person":"Me"}`,
	})

	out := process(t, f, "Paid 15,000 MWK for filter replacement")

	require.Len(t, out.Results, 1)
	assert.Equal(t, "✅ Logged expense: 15,000 MWK for Filter replacement. (Record ID: 1)", out.Reply)
	assert.Empty(t, out.Results[0].Rule)
}

func TestProcess_EmptyInput(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.uc.Process(context.Background(), model.Scope{}, entry.ProcessInput{RawText: " ;  ; "})
	require.ErrorIs(t, err, entry.ErrEmptyInput)
	assert.Equal(t, usecase.ReplyNothingToProcess, out.Reply)
	assert.Empty(t, f.llm.requests)
}

func TestProcess_FuelSupplyRunningLowStoredAsIssue(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Fuel supply running low": `{"type":"fuel","vehicle":"Other"}`,
	})

	out := process(t, f, "Fuel supply running low")

	require.Len(t, out.Results, 1)
	got := out.Results[0]
	assert.Equal(t, "fuel_to_issue", got.Rule)
	assert.Equal(t, entry.TypeIssue, got.Entry.Type)
	assert.Equal(t, entry.CategorySupply, got.Entry.Category)
	assert.Equal(t, entry.SeverityLow, got.Entry.Severity)
	assert.Equal(t, entry.StatusOpen, got.Entry.Status)
	assert.Equal(t, "Nthambi", got.Entry.ReportedBy)
	assert.Equal(t, "✅ Logged issue: Fuel supply running low (Severity: Low). (Record ID: 1)", out.Reply)

	assert.Equal(t, entry.TableIssues, f.repo.records[0].table)
	_, hasVehicle := f.repo.records[0].fields["vehicle"]
	assert.False(t, hasVehicle)
}

func TestProcess_UrgentCompressorIssue(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Urgent: Air compressor malfunctioning": `{"type":"issue","description":"Air compressor malfunctioning"}`,
	})

	out := process(t, f, "Urgent: Air compressor malfunctioning")

	require.Len(t, out.Results, 1)
	e := out.Results[0].Entry
	assert.Equal(t, entry.TypeIssue, e.Type)
	assert.Equal(t, entry.SeverityHigh, e.Severity)
	assert.Equal(t, entry.CategoryEquipment, e.Category)
}

func TestProcess_SegmentKeywordsOverrideModelSeverity(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Urgent: Air compressor malfunctioning": `{"type":"issue","description":"Air compressor malfunctioning","severity":"Low","category":"Other"}`,
		"Customer says the toilets are dirty":   `{"type":"issue","description":"Dirty toilets","severity":"Medium","category":"Equipment"}`,
	})

	out := process(t, f, "Urgent: Air compressor malfunctioning; Customer says the toilets are dirty")

	require.Len(t, out.Results, 2)
	urgent := out.Results[0].Entry
	assert.Equal(t, entry.SeverityHigh, urgent.Severity)
	assert.Equal(t, entry.CategoryEquipment, urgent.Category)

	// No severity keyword, so the model's value stands; "customer" decides the category.
	complaint := out.Results[1].Entry
	assert.Equal(t, entry.SeverityMedium, complaint.Severity)
	assert.Equal(t, entry.CategoryComplaint, complaint.Category)
}

func TestProcess_TaskAssigneeAndFridayDeadline(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assign John to safety inspection by Friday": `{"type":"task","task_title":"Safety inspection","details":"Assign John to safety inspection"}`,
	})

	out := process(t, f, "Assign John to safety inspection by Friday")

	require.Len(t, out.Results, 1)
	e := out.Results[0].Entry
	assert.Equal(t, "John", e.AssignedTo)
	assert.Equal(t, "2025-08-08", e.Deadline)
	assert.Equal(t, entry.StatusToDo, e.Status)
	assert.Equal(t, "✅ Logged task: Safety inspection (Status: To Do). (Record ID: 1)", out.Reply)

	require.Len(t, f.calendar.requests, 1)
	assert.Equal(t, "2025-08-08", f.calendar.requests[0].Date.Format("2006-01-02"))
	assert.Contains(t, f.calendar.requests[0].Description, "Record ID: 1")
}

func TestProcess_CalendarFailureDoesNotAffectReply(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Prepare client presentation next week": `{"type":"task","task_title":"Prepare client presentation","deadline":"next week"}`,
	})
	f.calendar.err = errors.New("calendar down")

	out := process(t, f, "Prepare client presentation next week")

	require.Len(t, out.Results, 1)
	assert.Equal(t, "2025-08-11", out.Results[0].Entry.Deadline)
	assert.Equal(t, "Nthambi", out.Results[0].Entry.AssignedTo)
}

func TestProcess_IssueWithoutDescriptionSkipped(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Spent 5000 on lunch": `{"type":"expense","amount":5000,"description":"Lunch"}`,
		"Something happened":  `{"type":"issue","severity":"Low"}`,
	})

	out := process(t, f, "Spent 5000 on lunch; Something happened")

	require.Len(t, out.Results, 1)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, 2, out.Skipped[0].Position)
	assert.Equal(t, entry.StageValidation, out.Skipped[0].Stage)
	assert.ErrorIs(t, out.Skipped[0].Err, entry.ErrMissingFields)
	assert.Equal(t, "✅ Logged expense: 5,000 MWK for Lunch. (Record ID: 1)", out.Reply)
}

func TestProcess_CompletionFailureSkipsSegment(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Hilux used 40 liters": `{"type":"fuel","vehicle":"hilux","liters":"40 L","driver":"John"}`,
	})
	f.llm.failures["Spent 5000 on lunch"] = llmprovider.ErrAllProvidersFailed

	out := process(t, f, "Spent 5000 on lunch; Hilux used 40 liters")

	require.Len(t, out.Results, 1)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, entry.StageCompletion, out.Skipped[0].Stage)
	assert.ErrorIs(t, out.Skipped[0].Err, entry.ErrCompletion)
	assert.ErrorIs(t, out.Skipped[0].Err, llmprovider.ErrAllProvidersFailed)
	assert.Equal(t, "✅ Logged fuel: 40L for Toyota Hilux (John). (Record ID: 1)", out.Reply)
}

func TestProcess_MalformedReply(t *testing.T) {
	f := newFixture(t, map[string]string{
		"hello there": "Sorry, I can only log station entries.",
	})

	out := process(t, f, "hello there")

	assert.Empty(t, out.Results)
	require.Len(t, out.Skipped, 1)
	assert.ErrorIs(t, out.Skipped[0].Err, entry.ErrMalformedReply)
	assert.Equal(t, usecase.ReplyNoEntries, out.Reply)
}

func TestProcess_StorageFailure(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Spent 5000 on lunch": `{"type":"expense","amount":5000,"description":"Lunch"}`,
	})
	f.repo.failTable = entry.TablePettyCash

	out := process(t, f, "Spent 5000 on lunch")

	assert.Empty(t, out.Results)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, entry.StageStorage, out.Skipped[0].Stage)
	assert.ErrorIs(t, out.Skipped[0].Err, entry.ErrStorage)
	assert.Equal(t, usecase.ReplyNoEntries, out.Reply)
}

func TestProcess_DateHandling(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Spent 100 yesterday on water": `{"type":"expense","amount":100,"description":"Water","date":"yesterday"}`,
		"Spent 200 on soap":            `{"type":"expense","amount":200,"description":"Soap","date":"not a date"}`,
		"Spent 300 on tea":             `{"type":"expense","amount":300,"description":"Tea","date":"2025-08-02T09:00:00+02:00"}`,
	})

	out := process(t, f, "Spent 100 yesterday on water; Spent 200 on soap; Spent 300 on tea")

	require.Len(t, out.Results, 3)
	assert.Equal(t, "2025-08-03", out.Results[0].Entry.Date)
	assert.Equal(t, "2025-08-04", out.Results[1].Entry.Date)
	assert.Equal(t, "2025-08-02", out.Results[2].Entry.Date)
}

func TestProcess_OdometerEndBeforeStartDropped(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Prado refueled 35L odometer 15800 to 15600": `{"type":"fuel","vehicle":"Toyota Prado","liters":35,"odometer_start":15800,"odometer_end":15600}`,
	})

	out := process(t, f, "Prado refueled 35L odometer 15800 to 15600")

	require.Len(t, out.Results, 1)
	e := out.Results[0].Entry
	require.NotNil(t, e.OdometerStart)
	assert.Equal(t, int64(15800), *e.OdometerStart)
	assert.Nil(t, e.OdometerEnd)
}

func TestProcess_RequestShape(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Spent 5000 on lunch": `{"type":"expense","amount":5000,"description":"Lunch"}`,
	})

	process(t, f, "Spent 5000 on lunch")

	require.Len(t, f.llm.requests, 1)
	req := f.llm.requests[0]
	assert.True(t, req.JSONMode)
	assert.Equal(t, 0.1, req.Temperature)
	assert.Equal(t, 512, req.MaxTokens)
	require.NotNil(t, req.SystemInstruction)

	system := req.SystemInstruction.Text()
	assert.Contains(t, system, "Today is 2025-08-04")
	assert.Contains(t, system, `"Friday" is 2025-08-08`)
	assert.Contains(t, system, `"next week" is 2025-08-11`)

	require.Len(t, req.Messages, 17)
	assert.Equal(t, llmprovider.RoleUser, req.Messages[0].Role)
	assert.Equal(t, llmprovider.RoleAssistant, req.Messages[1].Role)
	assert.Contains(t, req.Messages[1].Text(), `"date":"2025-08-04"`)

	var sawFriday bool
	for _, m := range req.Messages {
		if strings.Contains(m.Text(), `"deadline":"2025-08-08"`) {
			sawFriday = true
		}
	}
	assert.True(t, sawFriday)
	assert.Equal(t, "Spent 5000 on lunch", req.Messages[16].Text())
}

func TestProcess_Metrics(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Fuel supply running low": `{"type":"fuel"}`,
	})

	process(t, f, "Fuel supply running low")

	families, err := f.registry.Gather()
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, fam := range families {
		seen[fam.GetName()] = true
	}
	assert.True(t, seen["station_ops_messages_total"])
	assert.True(t, seen["station_ops_segments_total"])
	assert.True(t, seen["station_ops_reclassifications_total"])
}
