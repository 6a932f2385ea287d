package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ytbrief/errors"
	"ytbrief/models"
	"ytbrief/validation"
)

type fakeBatchService struct {
	result *models.BatchResult
	err    error
}

func (f *fakeBatchService) Run(ctx context.Context, userID string, refs []string, force bool) (*models.BatchResult, error) {
	return f.result, f.err
}

func (f *fakeBatchService) RunPlaylist(ctx context.Context, userID, playlistURL string) (*models.BatchResult, error) {
	return f.result, f.err
}

type fakeSummaryRepo struct {
	record *models.SummaryRecord
}

func (f *fakeSummaryRepo) Find(ctx context.Context, videoID string) (*models.SummaryRecord, error) {
	if f.record == nil {
		return nil, errors.NotFound("fakeSummaryRepo.Find", nil, "No summary for video")
	}
	return f.record, nil
}

func (f *fakeSummaryRepo) Save(ctx context.Context, record *models.SummaryRecord) error {
	return nil
}

func newTestHandler(svc *fakeBatchService, repo *fakeSummaryRepo) *BatchHandler {
	return NewBatchHandler(svc, repo, validation.NewValidator())
}

func TestHandleCreateBatch(t *testing.T) {
	record := &models.SummaryRecord{VideoID: "dQw4w9WgXcQ", Title: "A Video", Body: "summary"}
	svc := &fakeBatchService{result: &models.BatchResult{
		Items: []models.ItemResult{
			{Ref: models.VideoRef{ID: record.VideoID, Raw: "https://youtu.be/dQw4w9WgXcQ"}, Record: record},
		},
	}}
	handler := newTestHandler(svc, &fakeSummaryRepo{})

	body, _ := json.Marshal(models.BatchRequest{
		UserID: "user-1",
		Refs:   []string{"https://youtu.be/dQw4w9WgXcQ"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleCreateBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Success bool                 `json:"success"`
		Data    models.BatchResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Data.Succeeded != 1 || len(resp.Data.Items) != 1 {
		t.Errorf("data = %+v, want one succeeded item", resp.Data)
	}
}

func TestHandleCreateBatchInvalidInput(t *testing.T) {
	svc := &fakeBatchService{err: errors.InvalidInput("BatchService.Run", nil, "A user id is required")}
	handler := newTestHandler(svc, &fakeSummaryRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch",
		bytes.NewReader([]byte(`{"refs":["https://youtu.be/dQw4w9WgXcQ"]}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleCreateBatch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCreateBatchRejectsBadJSON(t *testing.T) {
	handler := newTestHandler(&fakeBatchService{}, &fakeSummaryRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleCreateBatch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleGetSummary(t *testing.T) {
	record := &models.SummaryRecord{VideoID: "dQw4w9WgXcQ", Title: "A Video", Body: "summary", ReadingMinutes: 2}
	handler := newTestHandler(&fakeBatchService{}, &fakeSummaryRepo{record: record})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/summaries?url=https://youtu.be/dQw4w9WgXcQ", nil)
	rec := httptest.NewRecorder()

	handler.HandleGetSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data models.SummaryResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ReadingTime != "~2 mins read" {
		t.Errorf("reading_time = %q, want %q", resp.Data.ReadingTime, "~2 mins read")
	}
}

func TestHandleGetSummaryNotFound(t *testing.T) {
	handler := newTestHandler(&fakeBatchService{}, &fakeSummaryRepo{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/summaries?url=https://youtu.be/dQw4w9WgXcQ", nil)
	rec := httptest.NewRecorder()

	handler.HandleGetSummary(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleGetSummaryMissingURL(t *testing.T) {
	handler := newTestHandler(&fakeBatchService{}, &fakeSummaryRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summaries", nil)
	rec := httptest.NewRecorder()

	handler.HandleGetSummary(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
