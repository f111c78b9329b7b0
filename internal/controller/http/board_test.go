package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
	"github.com/vadim/neo-outreach/internal/domain/board/policy"
)

type stubCampaigns struct {
	mu       sync.Mutex
	overview entity.Store
	fetchErr error
	fail     error
	ops      []string
}

func (s *stubCampaigns) GetOverview(context.Context) (entity.Store, error) {
	if s.fetchErr != nil {
		return entity.Store{}, s.fetchErr
	}
	return s.overview.Clone(), nil
}

func (s *stubCampaigns) do(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
	return s.fail
}

func (s *stubCampaigns) Assign(_ context.Context, accountID, campaignID string) error {
	return s.do("assign " + accountID + " -> " + campaignID)
}

func (s *stubCampaigns) BulkAssign(_ context.Context, _ []string, campaignID string) error {
	return s.do("bulk_assign -> " + campaignID)
}

func (s *stubCampaigns) StartAccount(_ context.Context, campaignID, accountID, _ string) error {
	return s.do("start " + campaignID + "/" + accountID)
}

func (s *stubCampaigns) PauseAccount(_ context.Context, campaignID, accountID string) error {
	return s.do("pause " + campaignID + "/" + accountID)
}

func (s *stubCampaigns) StartAllAccounts(_ context.Context, campaignID string) error {
	return s.do("start_all " + campaignID)
}

func (s *stubCampaigns) PauseAllAccounts(_ context.Context, campaignID string) error {
	return s.do("pause_all " + campaignID)
}

func testStore() entity.Store {
	ig, x := entity.PlatformInstagram, entity.PlatformX
	return entity.NewStore([]entity.Column{
		{ID: entity.UnassignedColumnID, Accounts: []entity.Account{
			{ID: "a2", DisplayName: "@a2", Platform: ig, Status: entity.AccountStatusReady},
			{ID: "x1", DisplayName: "@x1", Platform: x, Status: entity.AccountStatusReady},
		}},
		{ID: "C1", Name: "Spring", Platform: ig, Accounts: []entity.Account{
			{ID: "a1", DisplayName: "@a1", Platform: ig, Status: entity.AccountStatusActive, PendingLeadsCount: 4},
			{ID: "a3", DisplayName: "@a3", Platform: ig, Status: entity.AccountStatusPaused},
		}},
		{ID: "C2", Name: "Summer", Platform: ig},
	})
}

type testServer struct {
	campaigns *stubCampaigns
	router    chi.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	campaigns := &stubCampaigns{overview: testStore()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := policy.NewSessions(campaigns, logger, policy.SessionsConfig{Concurrency: 1})

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewBoardHandler(sessions).RegisterRoutes(r)
	})
	return &testServer{campaigns: campaigns, router: r}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBoard(t *testing.T, rec *httptest.ResponseRecorder) BoardResponse {
	t.Helper()
	var out BoardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testServer) open(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/boards", OpenRequest{Platform: "instagram"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	board := decodeBoard(t, rec)
	require.NotEmpty(t, board.ID)
	return board.ID
}

func TestBoardOpenAndGet(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	rec := s.do(t, http.MethodGet, "/api/v1/boards/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	board := decodeBoard(t, rec)
	assert.Equal(t, entity.PlatformInstagram, board.Platform)
	require.Len(t, board.Columns, 3)
	assert.Equal(t, "_unassigned_instagram", board.Columns[0].ID)
	require.Len(t, board.Columns[0].Accounts, 1)
	assert.Equal(t, "a2", board.Columns[0].Accounts[0].ID)
	assert.Equal(t, entity.ColumnStatusActive, board.Columns[1].Status)
	assert.False(t, board.Columns[1].Accounts[0].Draggable)
}

func TestBoardMoveSingleAccount(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	rec := s.do(t, http.MethodPost, "/api/v1/boards/"+id+"/moves", MoveRequest{
		DraggedID: "a2", Source: "_unassigned", SourceIndex: 0, Dest: "C1", DestIndex: 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	board := decodeBoard(t, rec)
	assert.Empty(t, board.Columns[0].Accounts)
	require.Len(t, board.Columns[1].Accounts, 3)
	assert.Equal(t, "a2", board.Columns[1].Accounts[1].ID)
	assert.Equal(t, []string{"assign a2 -> C1"}, s.campaigns.ops)
}

func TestBoardMoveRollbackReturnsUserMessage(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)
	s.campaigns.fail = errors.New("upstream 500")

	rec := s.do(t, http.MethodPost, "/api/v1/boards/"+id+"/moves", MoveRequest{
		DraggedID: "a3", Source: "C1", SourceIndex: 1, Dest: "C2",
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"`+policy.MoveFailedMessage+`"}`, rec.Body.String())

	board := decodeBoard(t, s.do(t, http.MethodGet, "/api/v1/boards/"+id, nil))
	require.Len(t, board.Columns[1].Accounts, 2)
	assert.Equal(t, "a3", board.Columns[1].Accounts[1].ID)
	assert.Empty(t, board.Columns[2].Accounts)
}

func TestBoardSelectionAndBulkMove(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	rec := s.do(t, http.MethodPost, "/api/v1/boards/"+id+"/selection/a3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/boards/"+id+"/columns/_unassigned/select-all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	board := decodeBoard(t, rec)
	assert.Equal(t, []string{"a2", "a3"}, board.Selection)
	assert.Equal(t, "Unselect All (1)", board.Columns[0].SelectAllLabel)
	assert.Equal(t, "Select All (1/2)", board.Columns[1].SelectAllLabel)

	rec = s.do(t, http.MethodPost, "/api/v1/boards/"+id+"/moves", MoveRequest{
		DraggedID: "a3", Source: "C1", SourceIndex: 1, Dest: "C2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	board = decodeBoard(t, rec)
	assert.Empty(t, board.Selection)
	require.Len(t, board.Columns[2].Accounts, 2)
	assert.Equal(t, []string{"bulk_assign -> C2"}, s.campaigns.ops)
}

func TestBoardToggles(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	rec := s.do(t, http.MethodPost, "/api/v1/boards/"+id+"/columns/C1/accounts/a1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	board := decodeBoard(t, rec)
	assert.Equal(t, entity.AccountStatusPaused, board.Columns[1].Accounts[0].Status)
	assert.Zero(t, board.Columns[1].Accounts[0].PendingLeadsCount)
	assert.Equal(t, entity.ColumnStatusPaused, board.Columns[1].Status)

	rec = s.do(t, http.MethodPost, "/api/v1/boards/"+id+"/columns/C1/start-all", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	board = decodeBoard(t, rec)
	assert.Equal(t, entity.ColumnStatusActive, board.Columns[1].Status)

	assert.Equal(t, []string{"pause C1/a1", "start_all C1"}, s.campaigns.ops)
}

func TestBoardErrors(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"unknown session", http.MethodGet, "/api/v1/boards/nope", nil, http.StatusNotFound},
		{"invalid platform", http.MethodPut, "/api/v1/boards/" + id + "/platform", PlatformRequest{Platform: "tiktok"}, http.StatusBadRequest},
		{"invalid action", http.MethodPost, "/api/v1/boards/" + id + "/columns/C1/resume-all", nil, http.StatusBadRequest},
		{"unknown column", http.MethodPost, "/api/v1/boards/" + id + "/columns/C9/start-all", nil, http.StatusNotFound},
		{"unassigned toggle", http.MethodPost, "/api/v1/boards/" + id + "/columns/_unassigned/accounts/a2/toggle", nil, http.StatusConflict},
		{"active account drag", http.MethodPost, "/api/v1/boards/" + id + "/moves", MoveRequest{DraggedID: "a1", Source: "C1", Dest: "C2"}, http.StatusConflict},
		{"missing dragged id", http.MethodPost, "/api/v1/boards/" + id + "/moves", MoveRequest{Source: "C1", Dest: "C2"}, http.StatusBadRequest},
		{"dragged account not in source", http.MethodPost, "/api/v1/boards/" + id + "/moves", MoveRequest{DraggedID: "a2", Source: "C1", Dest: "C2"}, http.StatusBadRequest},
		{"hidden account selection", http.MethodPost, "/api/v1/boards/" + id + "/selection/x1", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, s.campaigns.ops)
}

func TestBoardPlatformSwitchAndClose(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	rec := s.do(t, http.MethodPut, "/api/v1/boards/"+id+"/platform", PlatformRequest{Platform: "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	board := decodeBoard(t, rec)
	assert.Equal(t, entity.PlatformX, board.Platform)
	require.Len(t, board.Columns, 1)
	assert.Equal(t, "_unassigned_x", board.Columns[0].ID)

	rec = s.do(t, http.MethodDelete, "/api/v1/boards/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/boards/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBoardOpenLoadFailure(t *testing.T) {
	s := newTestServer(t)
	s.campaigns.fetchErr = errors.New("connection refused")

	rec := s.do(t, http.MethodPost, "/api/v1/boards", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"campaign service unavailable"}`, rec.Body.String())

	s.campaigns.fetchErr = nil
	s.open(t)
}
