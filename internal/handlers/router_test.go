package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"govportal/internal/chat"
	"govportal/internal/common/config"
	"govportal/internal/common/logger"
	"govportal/internal/middleware"
	"govportal/internal/realtime"
	"govportal/internal/refnum"
	"govportal/internal/repository"
	"govportal/internal/uploads"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type testEnv struct {
	api       *API
	mock      sqlmock.Sqlmock
	directory *realtime.Directory
	server    *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNoOpLogger()
	directory := realtime.NewDirectory()
	hub := realtime.NewHub(directory, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	store, err := uploads.New(t.TempDir(), 5)
	require.NoError(t, err)

	services := repository.NewServiceRepository(db, nil, nil, log)
	cfg := &config.Config{}
	cfg.Uploads.MaxSizeBytes = 10 << 20

	api := New(Deps{
		Config:       cfg,
		Logger:       log,
		Auth:         middleware.NewAuth("test-secret", 60, log),
		Users:        repository.NewUserRepository(db, log),
		Services:     services,
		Applications: repository.NewApplicationRepository(db, services, refnum.New(), hub, log),
		Complaints:   repository.NewComplaintRepository(db, hub, log),
		Offices:      repository.NewOfficeRepository(db, log),
		Sessions:     chat.NewSessionStore(db, log),
		Documents:    store,
		Hub:          hub,
	})

	server := httptest.NewServer(api.Router(nil))
	t.Cleanup(server.Close)

	return &testEnv{api: api, mock: mock, directory: directory, server: server}
}

func (e *testEnv) dialWS(t *testing.T, userID int64) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	prev := len(e.directory.Connections(userID))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": realtime.MessageTypeBindUser,
		"data": map[string]interface{}{"user_id": userID},
	}))

	require.Eventually(t, func() bool {
		return len(e.directory.Connections(userID)) == prev+1
	}, 2*time.Second, 10*time.Millisecond, "binding was not registered")

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) realtime.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev realtime.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func expectServiceLookup(mock sqlmock.Sqlmock, id int64) {
	rows := sqlmock.NewRows([]string{
		"id", "category", "name", "description", "requirements", "fees",
		"processing_time", "department", "department_contact", "department_email",
		"form_fields", "created_at",
	}).AddRow(id, "Documents & Certificates", "NIC Renewal", "Renewal of National Identity Card",
		"Old NIC", 500.0, "7-10 working days", "Department of Registration of Persons",
		"", "", []byte(`{"personal_info": ["full_name", "nic_number"]}`), time.Now())
	mock.ExpectQuery(`SELECT .+ FROM services WHERE id = \$1`).WithArgs(id).WillReturnRows(rows)
}

var referencePattern = regexp.MustCompile(`^GB\d+[A-Z0-9]{5}$`)

// ==========================
// End-to-End Submission Tests
// ==========================

func TestSubmitApplication_EndToEndWithFanOut(t *testing.T) {
	env := newTestEnv(t)

	// User 7 is connected on two devices; user 8 on one.
	dev1 := env.dialWS(t, 7)
	dev2 := env.dialWS(t, 7)
	other := env.dialWS(t, 8)

	expectServiceLookup(env.mock, 1)
	env.mock.ExpectQuery(`INSERT INTO applications .+ RETURNING id, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, time.Now()))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("user_id", "7"))
	require.NoError(t, mw.WriteField("service_id", "1"))
	require.NoError(t, mw.WriteField("appointment_date", "2030-06-15 10:30"))
	require.NoError(t, mw.WriteField("form_data", `{"full_name": "Nimal Perera", "nic_number": "123456789V"}`))
	part, err := mw.CreateFormFile("documents", "nic-scan.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("scan bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(env.server.URL+"/api/applications", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		ApplicationID   int64  `json:"application_id"`
		ReferenceNumber string `json:"reference_number"`
		Status          string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(42), result.ApplicationID)
	assert.Regexp(t, referencePattern, result.ReferenceNumber)
	assert.Equal(t, "pending", result.Status)

	// Both of user 7's connections get exactly one application_created event.
	for _, conn := range []*websocket.Conn{dev1, dev2} {
		ev := readEvent(t, conn)
		assert.Equal(t, realtime.EventApplicationCreated, ev.Type)

		snapshot, ok := ev.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, result.ReferenceNumber, snapshot["reference_number"])
		assert.Equal(t, "pending", snapshot["status"])
	}

	// The third user's connection receives nothing.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var stray realtime.Event
	assert.Error(t, other.ReadJSON(&stray))
}

func TestSubmitApplication_ValidationErrorNamesField(t *testing.T) {
	env := newTestEnv(t)
	expectServiceLookup(env.mock, 1)

	payload := `{"user_id": 7, "service_id": 1, "form_data": "{\"full_name\": \"Nimal\"}"}`
	resp, err := http.Post(env.server.URL+"/api/applications", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "MISSING_REQUIRED_FIELD", errBody.Code)
	assert.Equal(t, "nic_number", errBody.Field)
}

func TestSubmitApplication_UnknownServiceIs404(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT .+ FROM services WHERE id = \$1`).
		WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	payload := `{"user_id": 7, "service_id": 99, "form_data": "{}"}`
	resp, err := http.Post(env.server.URL+"/api/applications", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ==========================
// Service Endpoint Tests
// ==========================

func TestGetService_ReturnsParsedForm(t *testing.T) {
	env := newTestEnv(t)
	expectServiceLookup(env.mock, 1)

	resp, err := http.Get(env.server.URL + "/api/services/id/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Name string `json:"name"`
		Form []struct {
			ID       string `json:"id"`
			Section  string `json:"section"`
			Kind     string `json:"kind"`
			Required bool   `json:"required"`
		} `json:"form"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, "NIC Renewal", detail.Name)
	require.Len(t, detail.Form, 2)
	assert.Equal(t, "full_name", detail.Form[0].ID)
	assert.Equal(t, "personal_info", detail.Form[0].Section)
	assert.True(t, detail.Form[0].Required)
}

// ==========================
// Complaint Endpoint Tests
// ==========================

func TestSubmitComplaint_FansOutToUser(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dialWS(t, 7)

	env.mock.ExpectQuery(`INSERT INTO complaints .+ RETURNING id, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))

	payload := `{"user_id": 7, "subject": "Delayed renewal", "description": "No update in weeks"}`
	resp, err := http.Post(env.server.URL+"/api/complaints", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ev := readEvent(t, conn)
	assert.Equal(t, realtime.EventComplaintCreated, ev.Type)
	snapshot, ok := ev.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Delayed renewal", snapshot["subject"])
	assert.Equal(t, "open", snapshot["status"])
}

// ==========================
// Status and Chat Tests
// ==========================

func TestUpdateApplicationStatus_InvalidTransition(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT status FROM applications WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))

	req, err := http.NewRequest(http.MethodPatch, env.server.URL+"/api/applications/42/status",
		strings.NewReader(`{"status": "completed"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_RepliesAndRecordsSession(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`INSERT INTO chat_sessions .+ RETURNING id, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	payload := `{"message": "how do I renew my nic", "language": "english", "user_id": 7}`
	resp, err := http.Post(env.server.URL+"/api/chat", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply struct {
		SessionID string `json:"session_id"`
		Response  string `json:"response"`
		Language  string `json:"language"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Contains(t, reply.Response, "renew your NIC")
	assert.Equal(t, "english", reply.Language)
	assert.NotEmpty(t, reply.SessionID)
}

// ==========================
// Auth Endpoint Tests
// ==========================

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`INSERT INTO users .+ RETURNING id, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	payload := `{"nic": "123456789V", "name": "Nimal Perera", "language": "sinhala"}`
	resp, err := http.Post(env.server.URL+"/api/register", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env.mock.ExpectQuery(`SELECT .+ FROM users WHERE nic = \$1`).
		WithArgs("123456789V").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nic", "name", "email", "phone", "language", "created_at"}).
			AddRow(7, "123456789V", "Nimal Perera", "", "", "sinhala", time.Now()))

	resp, err = http.Post(env.server.URL+"/api/login", "application/json", strings.NewReader(`{"nic": "123456789V"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	assert.NotEmpty(t, login.Token)

	claims, err := env.api.auth.ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

// ==========================
// Office Endpoint Tests
// ==========================

func TestNearestOffices(t *testing.T) {
	env := newTestEnv(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "department", "address", "city", "district",
		"phone", "email", "latitude", "longitude", "created_at",
	}).
		AddRow(1, "Colombo District Secretariat", "General Administration", "", "Colombo", "Colombo", "", "", 6.9271, 79.8612, time.Now()).
		AddRow(2, "Jaffna District Secretariat", "General Administration", "", "Jaffna", "Jaffna", "", "", 9.6615, 80.0255, time.Now())
	env.mock.ExpectQuery(`SELECT .+ FROM offices ORDER BY name`).WillReturnRows(rows)

	resp, err := http.Get(env.server.URL + "/api/offices/nearest?latitude=6.93&longitude=79.86")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var offices []struct {
		Name       string  `json:"name"`
		DistanceKm float64 `json:"distance_km"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&offices))
	require.Len(t, offices, 2)
	assert.Equal(t, "Colombo District Secretariat", offices[0].Name)
}
