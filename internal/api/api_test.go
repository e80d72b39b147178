package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/superbowl-squares/internal/api"
	"github.com/mcoot/superbowl-squares/internal/api/handler"
	"github.com/mcoot/superbowl-squares/internal/api/response"
	"github.com/mcoot/superbowl-squares/internal/factory"
	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp(t)
	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		BoardController: app.BoardController,
		HubManager:      app.HubManager,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBoard(t *testing.T, rr *httptest.ResponseRecorder) response.Board {
	t.Helper()
	var b response.Board
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b), rr.Body.String())
	return b
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.APIError {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error
}

// createBoard creates a board with the given code and sets it up
func (ts *testServer) createBoard(t *testing.T, code string, maxSquares int) string {
	t.Helper()
	ts.app.MockRandom.QueueString(code)

	rr := ts.request(http.MethodPost, "/api/v1/boards", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/boards/"+code+"/setup", map[string]any{
		"display_name": "Office Pool",
		"max_squares":  maxSquares,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return code
}

// fillBoard claims every square, 25 each for four contestants
func (ts *testServer) fillBoard(t *testing.T, code string) {
	t.Helper()
	names := []string{"Ann", "Ben", "Cat", "Dan"}
	for i := 0; i < model.TotalSquares; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/boards/"+code+"/squares", map[string]any{
			"position": fmt.Sprintf("%d,%d", i/10, i%10),
			"name":     names[i/25],
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestCreateBoard(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("ABC234")

	rr := ts.request(http.MethodPost, "/api/v1/boards", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/v1/boards/ABC234", rr.Header().Get("Location"))
	assert.Equal(t, `W/"1"`, rr.Header().Get("ETag"))

	b := decodeBoard(t, rr)
	assert.Equal(t, "ABC234", b.ID)
	assert.Equal(t, "setup", b.State)
	assert.Empty(t, b.Squares)
	assert.Nil(t, b.Teams)
	assert.Equal(t, int64(1), b.Version)
}

func TestGetBoardNormalizesID(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 5)

	rr := ts.request(http.MethodGet, "/api/v1/boards/abc234", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	b := decodeBoard(t, rr)
	assert.Equal(t, "ABC234", b.ID)
	assert.Equal(t, "Office Pool", b.DisplayName)
	assert.Equal(t, 5, b.MaxSquaresPerContestant)
	assert.Equal(t, "choosing", b.State)
}

func TestGetBoardNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/boards/NOPE22", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, handler.CodeBoardNotFound, decodeError(t, rr).Code)
}

func TestSetupBoardValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("ABC234")
	rr := ts.request(http.MethodPost, "/api/v1/boards", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	tests := []struct {
		name string
		body any
	}{
		{"blank name", map[string]any{"display_name": "  ", "max_squares": 5}},
		{"zero max", map[string]any{"display_name": "Pool", "max_squares": 0}},
		{"max above grid", map[string]any{"display_name": "Pool", "max_squares": 101}},
		{"malformed json", `{"display_name":`},
		{"empty body", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/setup", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, handler.CodeInvalidRequest, decodeError(t, rr).Code)
		})
	}
}

func TestSetupBoardTwiceIsWrongState(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 5)

	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/setup", map[string]any{
		"display_name": "Again",
		"max_squares":  5,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, handler.CodeWrongState, decodeError(t, rr).Code)
}

func TestClaimAndReleaseSquare(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 5)

	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{
		"position": "3,7",
		"name":     "Ann",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	b := decodeBoard(t, rr)
	assert.Equal(t, map[string]string{"3,7": "Ann"}, b.Squares)
	assert.Equal(t, 1, b.ClaimedCount)

	// Row and col form
	rr = ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{
		"row":  0,
		"col":  0,
		"name": "Ben",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Ben", decodeBoard(t, rr).Squares["0,0"])

	rr = ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{
		"position": "3,7",
		"name":     "Ann",
		"remove":   true,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	b = decodeBoard(t, rr)
	assert.NotContains(t, b.Squares, "3,7")
	assert.Equal(t, 1, b.ClaimedCount)
}

func TestSquareErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 1)

	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{
		"position": "3,7",
		"name":     "Ann",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"taken by another", map[string]any{"position": "3,7", "name": "Ben"}, http.StatusConflict, handler.CodeSquareTaken},
		{"limit reached", map[string]any{"position": "1,1", "name": "Ann"}, http.StatusConflict, handler.CodeLimitReached},
		{"release not owned", map[string]any{"position": "3,7", "name": "Ben", "remove": true}, http.StatusForbidden, handler.CodeNotOwner},
		{"release unclaimed", map[string]any{"position": "5,5", "name": "Ben", "remove": true}, http.StatusForbidden, handler.CodeNotOwner},
		{"outside grid", map[string]any{"position": "10,0", "name": "Ben"}, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"bad position", map[string]any{"position": "a,b", "name": "Ben"}, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"missing position", map[string]any{"name": "Ben"}, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"blank name", map[string]any{"position": "2,2", "name": " "}, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"name too long", map[string]any{"position": "2,2", "name": strings.Repeat("b", model.MaxContestantLength+1)}, http.StatusBadRequest, handler.CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestLimitReachedMessageIncludesLimit(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 1)

	ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{"position": "0,0", "name": "Ann"})
	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{"position": "0,1", "name": "Ann"})

	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, decodeError(t, rr).Message, "(1)")
}

func TestSquareOnSetupBoardIsWrongState(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("ABC234")
	ts.request(http.MethodPost, "/api/v1/boards", nil)

	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{"position": "0,0", "name": "Ann"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, handler.CodeWrongState, decodeError(t, rr).Code)
}

func TestAssignTeamsRequiresFullBoard(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 100)

	ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{"position": "0,0", "name": "Ann"})

	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/assign-teams", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, handler.CodeIncompleteBoard, decodeError(t, rr).Code)
}

func TestAssignTeamsLocksBoard(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 25)
	ts.fillBoard(t, "ABC234")

	ts.app.MockRandom.QueueShuffle(1, 0)
	ts.app.MockRandom.QueueShuffle(9, 8, 7, 6, 5, 4, 3, 2, 1, 0)
	ts.app.MockRandom.QueueShuffle(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/assign-teams", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	b := decodeBoard(t, rr)
	assert.Equal(t, "locked", b.State)
	require.NotNil(t, b.Teams)
	assert.Equal(t, "Eagles", b.Teams.Axis1.Team)
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, b.Teams.Axis1.Numbers)
	assert.Equal(t, "Chiefs", b.Teams.Axis2.Team)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, b.Teams.Axis2.Numbers)

	// Locked boards reject changes
	rr = ts.request(http.MethodPost, "/api/v1/boards/ABC234/assign-teams", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, handler.CodeWrongState, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{"position": "0,0", "name": "Ann", "remove": true})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestWinnersInBoardResponse(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 25)
	ts.fillBoard(t, "ABC234")
	ts.app.QueueFullBoardShuffles()
	rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/assign-teams", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err := ts.app.WinnerService.UpdateWinners(t.Context(), []model.QuarterScore{
		{Quarter: model.Q1, Scores: model.ScorePair{7, 3}},
	})
	require.NoError(t, err)

	rr = ts.request(http.MethodGet, "/api/v1/boards/ABC234", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	b := decodeBoard(t, rr)
	require.Contains(t, b.Winners, "q1")
	assert.Equal(t, response.Winner{Position: "3,7", Row: 3, Col: 7, Owner: "Ben"}, b.Winners["q1"])
}

func TestConcurrentClaimsOnOneSquare(t *testing.T) {
	ts := newTestServer(t)
	ts.createBoard(t, "ABC234", 5)

	const contenders = 8
	codes := make([]int, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rr := ts.request(http.MethodPost, "/api/v1/boards/ABC234/squares", map[string]any{
				"position": "4,4",
				"name":     fmt.Sprintf("Player %d", i),
			})
			codes[i] = rr.Code
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, code := range codes {
		if code == http.StatusOK {
			ok++
		} else {
			assert.Equal(t, http.StatusConflict, code)
		}
	}
	assert.Equal(t, 1, ok)

	rr := ts.request(http.MethodGet, "/api/v1/boards/ABC234", nil)
	assert.Len(t, decodeBoard(t, rr).Squares, 1)
}
