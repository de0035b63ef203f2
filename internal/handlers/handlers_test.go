package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/access"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/display"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/reader"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/routes"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/services"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/session"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/signal"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

// tokenScanner hands out a fixed reply; tests swap it between requests.
type tokenScanner struct {
	mu    sync.Mutex
	token string
	err   error
}

func (s *tokenScanner) Read(context.Context, time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.err
}

func (s *tokenScanner) set(token string, err error) {
	s.mu.Lock()
	s.token, s.err = token, err
	s.mu.Unlock()
}

type rig struct {
	app       *fiber.App
	store     *storage.MemoryStore
	channel   *signal.MemoryChannel
	enrollTag *tokenScanner
	doorTag   *tokenScanner
	rec       *display.Recorder
	enroller  *access.Enroller
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		store:     storage.NewMemoryStore(),
		channel:   signal.NewMemoryChannel(),
		enrollTag: &tokenScanner{token: "1361234510"},
		doorTag:   &tokenScanner{},
		rec:       &display.Recorder{},
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	opts := access.Options{Metrics: m}

	r.enroller = access.NewEnroller(r.store, r.enrollTag, r.rec, opts)
	t.Cleanup(r.enroller.Stop)
	verifier := access.NewVerifier(r.store, r.doorTag, r.channel, r.channel, r.rec, opts)
	sessions := session.NewManager("test-secret", time.Hour)

	r.app = fiber.New(fiber.Config{ErrorHandler: routes.ErrorHandler})
	r.app.Use(requestid.New())
	routes.Setup(r.app, sessions,
		handlers.NewHomeHandler(),
		handlers.NewAuthHandler(
			services.NewRegistrationService(r.store, r.enroller, m),
			services.NewAuthService(r.store),
			sessions, r.rec, false),
		handlers.NewVerifyHandler(verifier),
		handlers.NewEnrollmentHandler(r.enroller),
		handlers.NewHealthHandler(r.store),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
	return r
}

func (r *rig) do(t *testing.T, method, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := r.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func registration(username string) url.Values {
	return url.Values{
		"name":     {"Ana"},
		"surname":  {"Pop"},
		"cnp":      {"1900101123456"},
		"id_card":  {"RX123456"},
		"phone":    {"0712345678"},
		"email":    {"Ana.Pop@Example.com"},
		"username": {username},
		"password": {"secret"},
		"address":  {"Str. Lunga 1"},
		"city":     {"Cluj"},
		"county":   {"Cluj"},
	}
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func flash(t *testing.T, resp *http.Response) dto.Flash {
	t.Helper()
	c := cookie(resp, middleware.FlashCookie)
	require.NotNil(t, c, "expected a flash cookie")
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	require.NoError(t, err)
	var f dto.Flash
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func page(t *testing.T, resp *http.Response) dto.Page {
	t.Helper()
	var p dto.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func (r *rig) registerAndEnroll(t *testing.T, username string) {
	t.Helper()
	resp := r.do(t, http.MethodPost, "/register", registration(username))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	task, ok := r.enroller.Status(username)
	require.True(t, ok)
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("enrollment did not finish")
	}
	require.Equal(t, access.TaskSucceeded, task.Status())
}

func (r *rig) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	resp := r.do(t, http.MethodPost, "/login", url.Values{"username": {username}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/verify_rfid", resp.Header.Get("Location"))
	c := cookie(resp, session.CookieName)
	require.NotNil(t, c)
	return c
}

func TestIndexShowsPendingFlash(t *testing.T) {
	r := newRig(t)

	resp := r.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.Page{Page: "index", Messages: []dto.Flash{}}, page(t, resp))

	resp = r.do(t, http.MethodPost, "/register", registration("anapop"))
	f := cookie(resp, middleware.FlashCookie)

	resp = r.do(t, http.MethodGet, "/", nil, f)
	p := page(t, resp)
	require.Len(t, p.Messages, 1)
	assert.Equal(t, "Participant registered successfully! Please assign an RFID UID.", p.Messages[0].Message)
}

func TestRegisterStartsEnrollment(t *testing.T) {
	r := newRig(t)

	resp := r.do(t, http.MethodPost, "/register", registration("anapop"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, dto.Flash{Level: "success", Message: "Participant registered successfully! Please assign an RFID UID."}, flash(t, resp))

	task, ok := r.enroller.Status("anapop")
	require.True(t, ok)
	<-task.Done()

	resp = r.do(t, http.MethodGet, "/enrollment/anapop", nil, r.login(t, "anapop"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var status dto.EnrollmentResponse
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, "succeeded", status.Status)
	assert.NotNil(t, status.FinishedAt)
	assert.NotContains(t, string(body), "1361234510")

	p, err := r.store.FindByUsername(context.Background(), "anapop")
	require.NoError(t, err)
	assert.Equal(t, "ana.pop@example.com", p.Email)
	assert.Equal(t, "1361234510", p.TokenID)
}

func TestRegisterRejections(t *testing.T) {
	cases := map[string]struct {
		mutate  func(url.Values)
		message string
	}{
		"cnp":   {func(v url.Values) { v.Set("cnp", "12345") }, "CNP must have 13 digits."},
		"phone": {func(v url.Values) { v.Set("phone", "07123") }, "Phone number must have 10 digits."},
		"email": {func(v url.Values) { v.Set("email", "not-an-email") }, "Invalid email address."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := newRig(t)
			form := registration("anapop")
			tc.mutate(form)

			resp := r.do(t, http.MethodPost, "/register", form)
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/register", resp.Header.Get("Location"))
			assert.Equal(t, dto.Flash{Level: "danger", Message: tc.message}, flash(t, resp))

			n, _ := r.store.Count(context.Background())
			assert.Zero(t, n)
			_, ok := r.enroller.Status("anapop")
			assert.False(t, ok)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")

	form := registration("someone-else")
	form.Set("email", "ANA.POP@example.com")
	resp := r.do(t, http.MethodPost, "/register", form)

	assert.Equal(t, "/register", resp.Header.Get("Location"))
	assert.Equal(t, "CNP, phone, email, ID card, or username already exists in the system.", flash(t, resp).Message)
}

func TestRegisterFormListsFields(t *testing.T) {
	r := newRig(t)
	p := page(t, r.do(t, http.MethodGet, "/register", nil))
	assert.Equal(t, "register", p.Page)
	assert.Contains(t, p.Fields, "cnp")
	assert.Contains(t, p.Fields, "county")
}

func TestLoginFailure(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")

	resp := r.do(t, http.MethodPost, "/login", url.Values{"username": {"anapop"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, "Invalid username or password.", flash(t, resp).Message)
	assert.Nil(t, cookie(resp, session.CookieName))
	assert.Equal(t, "Login failed", strings.TrimSpace(r.rec.Last().Line1))
}

func TestVerifyRequiresSession(t *testing.T) {
	r := newRig(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		resp := r.do(t, method, "/verify_rfid", nil)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
		assert.Equal(t, "You must be logged in to verify your RFID tag.", flash(t, resp).Message)
		assert.Equal(t, "Login req", strings.TrimSpace(r.rec.Last().Line1))
	}

	forged := &http.Cookie{Name: session.CookieName, Value: "not.a.jwt"}
	resp := r.do(t, http.MethodGet, "/verify_rfid", nil, forged)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Empty(t, r.channel.Writes())
}

func TestVerifyPromptsForScan(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")
	sess := r.login(t, "anapop")
	assert.Equal(t, "Login success", strings.TrimSpace(r.rec.Last().Line1))

	p := page(t, r.do(t, http.MethodGet, "/verify_rfid", nil, sess))
	assert.Equal(t, "verify_rfid", p.Page)
	assert.Equal(t, "anapop", p.Username)
	assert.Equal(t, string(access.AwaitingScan), p.State)
	assert.Equal(t, []dto.Flash{{Level: "info", Message: "Please scan your RFID tag."}}, p.Messages)
	assert.Equal(t, "Scan RFID", strings.TrimSpace(r.rec.Last().Line1))
}

func TestVerifyGranted(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")
	sess := r.login(t, "anapop")
	require.NoError(t, r.channel.Report(context.Background(), true))
	r.doorTag.set("1361234510", nil)

	resp := r.do(t, http.MethodPost, "/verify_rfid", nil, sess)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, "RFID verification successful! You are allowed to enter.", flash(t, resp).Message)
	assert.Equal(t, []signal.Command{signal.CommandOpen}, r.channel.Writes())
}

func TestVerifyTokenMismatch(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")
	sess := r.login(t, "anapop")
	require.NoError(t, r.channel.Report(context.Background(), true))
	r.doorTag.set("999", nil)

	resp := r.do(t, http.MethodPost, "/verify_rfid", nil, sess)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	p := page(t, resp)
	assert.Equal(t, string(access.Denied), p.State)
	assert.Contains(t, p.Messages, dto.Flash{Level: "danger", Message: "RFID UID does not match. Access denied."})
	assert.Equal(t, []signal.Command{signal.CommandClose}, r.channel.Writes())
}

func TestVerifyNoPresence(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")
	sess := r.login(t, "anapop")

	p := page(t, r.do(t, http.MethodPost, "/verify_rfid", nil, sess))
	assert.Contains(t, p.Messages, dto.Flash{Level: "danger", Message: "No presence detected. Access denied."})
	assert.Empty(t, r.channel.Writes())
	assert.Equal(t, "No presence", strings.TrimSpace(r.rec.Last().Line1))
}

func TestVerifyScanTimeout(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")
	sess := r.login(t, "anapop")
	require.NoError(t, r.channel.Report(context.Background(), true))
	r.doorTag.set("", reader.ErrTimeout)

	resp := r.do(t, http.MethodPost, "/verify_rfid", nil, sess)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/verify_rfid", resp.Header.Get("Location"))
	assert.Equal(t, "RFID scan did not complete. Please try again.", flash(t, resp).Message)
	assert.Empty(t, r.channel.Writes())
}

func TestLogoutClearsSession(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")
	r.login(t, "anapop")

	resp := r.do(t, http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	c := cookie(resp, session.CookieName)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
}

func TestEnrollmentStatusUnknown(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")

	resp := r.do(t, http.MethodGet, "/enrollment/ghost", nil, r.login(t, "anapop"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEnrollmentStatusRequiresOwnSession(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")

	resp := r.do(t, http.MethodGet, "/enrollment/anapop", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "1361234510")

	other := registration("ionpop")
	other.Set("cnp", "1900101654321")
	other.Set("id_card", "RX654321")
	other.Set("phone", "0787654321")
	other.Set("email", "ion.pop@example.com")
	r.enrollTag.set("2001002003", nil)
	resp = r.do(t, http.MethodPost, "/register", other)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	task, ok := r.enroller.Status("ionpop")
	require.True(t, ok)
	<-task.Done()

	resp = r.do(t, http.MethodGet, "/enrollment/anapop", nil, r.login(t, "ionpop"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newRig(t)
	r.registerAndEnroll(t, "anapop")

	resp := r.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, int64(1), health.Participants)

	resp = r.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `accessgate_registrations_total{result="created"} 1`)
	assert.Contains(t, string(body), `accessgate_enrollments_total{result="succeeded"} 1`)
}
