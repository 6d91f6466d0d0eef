package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juku/tuition-engine/api"
	"github.com/juku/tuition-engine/engine"
	"github.com/juku/tuition-engine/scenario"
	"github.com/juku/tuition-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	session := scenario.New(store)
	handler := api.NewHandler(session, store)
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func putJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// ENROLLMENT ENDPOINT TESTS
// =============================================================================

func TestAPI_AddEnrollment(t *testing.T) {
	// GIVEN: A running server
	// WHEN: Posting a 中1 enrollment
	// THEN: 201 with the priced revenue line; the summary reflects it

	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/enrollments", api.EnrollmentRequest{
		StudentName:   "佐藤",
		Grade:         "中1",
		WeeklyLessons: 2,
		StudentCount:  1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[api.EnrollmentResponse](t, resp)
	require.Len(t, created.Revenues, 1)
	assert.Equal(t, int64(37000), created.Revenues[0].Amount)

	sumResp, err := http.Get(srv.URL + "/api/summary")
	require.NoError(t, err)
	summary := decode[api.SummaryResponse](t, sumResp)
	assert.Equal(t, int64(37000), summary.Summary.TotalRevenue)
	assert.Equal(t, 1, summary.Summary.TotalStudents)
}

func TestAPI_AddEnrollment_MissingGrade(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/enrollments", api.EnrollmentRequest{WeeklyLessons: 2})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ImportEnrollments_CSV(t *testing.T) {
	// GIVEN: A CSV body with one valid and one unknown-grade row
	// WHEN: Importing
	// THEN: added=1, skipped=1

	srv, _ := newTestServer(t)

	csv := "氏名,学年,週コマ数,プレミア\n佐藤,中1,2,あり\n誰か,浪人,2,\n"
	resp, err := http.Post(srv.URL+"/api/enrollments/import", "text/csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[api.ImportResponse](t, resp)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)
}

// =============================================================================
// LEDGER ENDPOINT TESTS
// =============================================================================

func TestAPI_RemoveItem_Cascades(t *testing.T) {
	// GIVEN: An enrollment (revenue + linked payroll in the item list)
	// WHEN: Deleting the revenue line
	// THEN: Both rows disappear

	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/enrollments", api.EnrollmentRequest{
		Grade: "中1", WeeklyLessons: 2, StudentCount: 1,
	})
	created := decode[api.EnrollmentResponse](t, resp)
	id := created.Revenues[0].ID

	req, err := http.NewRequest(http.MethodDelete,
		srv.URL+"/api/items/"+strconv.FormatInt(int64(id), 10), nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	removed := decode[api.RemoveResponse](t, delResp)
	assert.True(t, removed.Removed)

	itemsResp, err := http.Get(srv.URL + "/api/items")
	require.NoError(t, err)
	items := decode[api.ItemsResponse](t, itemsResp)
	assert.Empty(t, items.Items)
}

func TestAPI_RemoveItem_MissingID(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/items/999", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	removed := decode[api.RemoveResponse](t, resp)
	assert.False(t, removed.Removed)
}

// =============================================================================
// EXPENSE ENDPOINT TESTS
// =============================================================================

func TestAPI_SetFixedExpense_UnknownLabel_404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := putJSON(t, srv.URL+"/api/expenses/fixed", api.FixedExpenseRequest{
		Label: "広告費", Amount: 10000,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_FixedExpense_AddThenSet(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/expenses/fixed", api.FixedExpenseRequest{
		Label: "家賃", Amount: 50000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	line := decode[engine.ExpenseLine](t, resp)
	assert.Equal(t, engine.CategoryFixed, line.Category)

	setResp := putJSON(t, srv.URL+"/api/expenses/fixed", api.FixedExpenseRequest{
		Label: "家賃", Amount: 55000,
	})
	defer setResp.Body.Close()
	assert.Equal(t, http.StatusOK, setResp.StatusCode)
}

func TestAPI_TransportAndGroup(t *testing.T) {
	srv, _ := newTestServer(t)

	transport := putJSON(t, srv.URL+"/api/expenses/transport", api.TransportRequest{TeacherCount: 3})
	require.Equal(t, http.StatusOK, transport.StatusCode)
	line := decode[engine.ExpenseLine](t, transport)
	assert.Equal(t, int64(6000), line.Amount)

	group := putJSON(t, srv.URL+"/api/expenses/group", api.GroupPayrollRequest{WeeklyOpenDays: 3})
	require.Equal(t, http.StatusOK, group.StatusCode)
	groupLine := decode[engine.ExpenseLine](t, group)
	assert.Equal(t, int64(90000), groupLine.Amount)
}

// =============================================================================
// CONFIGURATION ENDPOINT TESTS
// =============================================================================

func TestAPI_SetConfig_InvalidRate_400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := putJSON(t, srv.URL+"/api/config", map[string]any{
		"royalty_rate_percent": 150,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_SetConfig_Recalculates(t *testing.T) {
	// GIVEN: An enrollment priced at the default monthly fee
	// WHEN: Raising the monthly fee through the config endpoint
	// THEN: The snapshot returned already carries the repriced line

	srv, _ := newTestServer(t)
	postJSON(t, srv.URL+"/api/enrollments", api.EnrollmentRequest{
		Grade: "中1", WeeklyLessons: 2, StudentCount: 1,
	}).Body.Close()

	resp := putJSON(t, srv.URL+"/api/config", map[string]any{"monthly_fee": 4000})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decode[scenario.Document](t, resp)
	require.Len(t, doc.Revenues, 1)
	assert.Equal(t, int64(33400+4000), doc.Revenues[0].Amount)
}

func TestAPI_SetTarget_Validates(t *testing.T) {
	srv, _ := newTestServer(t)

	bad := putJSON(t, srv.URL+"/api/target", api.TargetRequest{Year: 2026, Month: 13})
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	ok := putJSON(t, srv.URL+"/api/target", api.TargetRequest{Year: 2026, Month: 4})
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
}

// =============================================================================
// SCENARIO ENDPOINT TESTS
// =============================================================================

func TestAPI_ScenarioSaveLoadReset(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/api/enrollments", api.EnrollmentRequest{
		Grade: "中1", WeeklyLessons: 2, StudentCount: 1,
	}).Body.Close()

	save, err := http.Post(srv.URL+"/api/scenario/save", "application/json", nil)
	require.NoError(t, err)
	save.Body.Close()
	require.Equal(t, http.StatusOK, save.StatusCode)

	slotsResp, err := http.Get(srv.URL + "/api/scenario/slots")
	require.NoError(t, err)
	slots := decode[api.SlotsResponse](t, slotsResp)
	require.Len(t, slots.Slots, 1)
	assert.Equal(t, scenario.DefaultSlot, slots.Slots[0].Slot)

	reset, err := http.Post(srv.URL+"/api/scenario/reset", "application/json", nil)
	require.NoError(t, err)
	reset.Body.Close()
	require.Equal(t, http.StatusOK, reset.StatusCode)

	load := postJSON(t, srv.URL+"/api/scenario/load", api.SlotRequest{Slot: scenario.DefaultSlot})
	defer load.Body.Close()
	assert.Equal(t, http.StatusNotFound, load.StatusCode)
}

// =============================================================================
// EXPORT ENDPOINT TESTS
// =============================================================================

func TestAPI_ExportCSV(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSON(t, srv.URL+"/api/enrollments", api.EnrollmentRequest{
		StudentName: "佐藤", Grade: "中1", WeeklyLessons: 2, StudentCount: 1,
	}).Body.Close()

	resp, err := http.Get(srv.URL + "/api/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "佐藤")
}
