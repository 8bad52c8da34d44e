package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-ops-bot/internal/entry"
	"station-ops-bot/internal/middleware"
	"station-ops-bot/internal/model"
	"station-ops-bot/pkg/log"
	"station-ops-bot/pkg/response"
)

type fakeUseCase struct {
	out   entry.ProcessOutput
	err   error
	input entry.ProcessInput
	scope model.Scope
}

func (u *fakeUseCase) Process(ctx context.Context, sc model.Scope, input entry.ProcessInput) (entry.ProcessOutput, error) {
	u.input, u.scope = input, sc
	return u.out, u.err
}

func serve(uc entry.UseCase, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	RegisterRoutes(engine.Group("/api/v1"), New(log.NewNop(), uc), middleware.New(log.NewNop(), 0))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp response.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data should be an object: %s", w.Body.String())
	return data
}

func TestProcess_Success(t *testing.T) {
	uc := &fakeUseCase{out: entry.ProcessOutput{
		Reply: "✅ Logged expense: 5,000 MWK for Lunch. (Record ID: 1)",
		Results: []entry.StoredEntry{{
			Position: 1,
			RecordID: "1",
			Entry: entry.ParsedEntry{
				Type:        entry.TypeExpense,
				Date:        "2025-08-04",
				Amount:      decimal.NewNullDecimal(decimal.NewFromInt(5000)),
				Description: "Lunch",
				Person:      "Me",
			},
		}},
		Skipped: []entry.SkippedSegment{{
			Position: 2,
			Segment:  "hello there",
			Stage:    entry.StageCompletion,
			Err:      entry.ErrMalformedReply,
		}},
	}}

	w := serve(uc, `{"chat_id": 9, "text": "Spent 5000 on lunch; hello there"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Spent 5000 on lunch; hello there", uc.input.RawText)
	assert.Equal(t, int64(9), uc.scope.ChatID)
	assert.Equal(t, model.SourceHTTP, uc.scope.Source)

	data := decodeData(t, w)
	assert.Equal(t, uc.out.Reply, data["reply"])

	entries := data["entries"].([]any)
	require.Len(t, entries, 1)
	first := entries[0].(map[string]any)
	assert.Equal(t, "Expense", first["type"])
	assert.Equal(t, entry.TablePettyCash, first["table"])
	assert.Equal(t, "1", first["record_id"])
	assert.Equal(t, "Lunch", first["fields"].(map[string]any)["description"])

	skipped := data["skipped"].([]any)
	require.Len(t, skipped, 1)
	assert.Equal(t, "completion", skipped[0].(map[string]any)["stage"])
}

func TestProcess_BadRequest(t *testing.T) {
	uc := &fakeUseCase{}

	assert.Equal(t, http.StatusBadRequest, serve(uc, `{"chat_id": 1}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(uc, `{"text": "   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(uc, `not json`).Code)
}

func TestProcess_NothingToProcess(t *testing.T) {
	uc := &fakeUseCase{
		out: entry.ProcessOutput{Reply: "❌ Nothing to process."},
		err: entry.ErrEmptyInput,
	}

	w := serve(uc, `{"text": ";;"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "nothing to process")
}

func TestProcess_UnexpectedError(t *testing.T) {
	uc := &fakeUseCase{err: errors.New("boom")}

	w := serve(uc, `{"text": "Spent 5000 on lunch"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
