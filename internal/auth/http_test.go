// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelinkhq/onelink/internal/auth"
	"github.com/onelinkhq/onelink/internal/mail"
	"github.com/onelinkhq/onelink/internal/platform/respond"
	"github.com/onelinkhq/onelink/internal/platform/sec"
	"github.com/onelinkhq/onelink/internal/session"
)

const (
	testSessionSecret    = "test-session-secret"
	testEncryptionSecret = "test-encryption-secret"
)

// fakeRedis is an in-memory [session.Commander] backing the auth session.
// A non-nil failure makes every command error.
type fakeRedis struct {
	values  map[string]string
	failure error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failure != nil {
		return redis.NewStringResult("", f.failure)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.failure != nil {
		return redis.NewStatusResult("", f.failure)
	}
	f.values[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failure != nil {
		return redis.NewIntResult(0, f.failure)
	}
	deleted := int64(0)
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

// fakeMailer records outbound messages instead of calling Mailgun.
type fakeMailer struct {
	sent []mail.Message
}

func (f *fakeMailer) Send(_ context.Context, message mail.Message) error {
	f.sent = append(f.sent, message)
	return nil
}

// authHarness wires the auth routes against in-memory dependencies.
type authHarness struct {
	router  *chi.Mux
	repo    *fakeUserRepository
	rdb     *fakeRedis
	mailer  *fakeMailer
	cipher  *sec.Cipher
	service *auth.Service
	guard   *auth.Guard
	auths   *session.AuthStore
	joins   *session.JoinStore
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()

	repo := newFakeUserRepository()
	service := auth.NewService(repo)

	rdb := newFakeRedis()
	auths := session.NewAuthStore(rdb, testSessionSecret, false)
	joins := session.NewJoinStore(testSessionSecret, false)
	guard := auth.NewGuard(auths, service)

	cipher, err := sec.NewCipher(testEncryptionSecret)
	require.NoError(t, err)

	mailer := &fakeMailer{}
	handler := auth.NewHandler(service, guard, auths, joins, cipher, mailer, "https://onelink.test")

	router := chi.NewRouter()
	handler.Register(router)

	return &authHarness{
		router:  router,
		repo:    repo,
		rdb:     rdb,
		mailer:  mailer,
		cipher:  cipher,
		service: service,
		guard:   guard,
		auths:   auths,
		joins:   joins,
	}
}

// get performs a GET against the harness router, carrying the given cookies.
func (h *authHarness) get(target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

// postForm performs a form POST against the harness router.
func (h *authHarness) postForm(target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

// joinCookie seeds a join-info session and returns the resulting cookies.
func (h *authHarness) joinCookie(t *testing.T, seed func(*session.Join)) []*http.Cookie {
	t.Helper()
	join := h.joins.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	seed(join)
	recorder := httptest.NewRecorder()
	join.Commit(recorder)
	return recorder.Result().Cookies()
}

// loadJoin reads the join session back out of a response's cookies.
func (h *authHarness) loadJoin(recorder *httptest.ResponseRecorder) *session.Join {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}
	return h.joins.Load(request)
}

/*
TestSignupPage_TokenRestoresJoinSession verifies the email round-trip: the
loader decrypts the token, restores email and pending name into the join
session, and forwards to the registration form.
*/
func TestSignupPage_TokenRestoresJoinSession(t *testing.T) {
	h := newAuthHarness(t)

	token, err := auth.EncryptJoinToken(h.cipher, "test@example.com", "remixer")
	require.NoError(t, err)

	recorder := h.get("/signup?token="+url.QueryEscape(token), nil)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/join", recorder.Header().Get("Location"))

	restored := h.loadJoin(recorder)
	assert.Equal(t, "test@example.com", restored.Email())
	assert.Equal(t, "remixer", restored.Yourname())
}

/*
TestSignupPage_InvalidTokenRestartsFlow verifies the degraded path: a
malformed token wipes any pending join state and redirects back to the
email step instead of crashing.
*/
func TestSignupPage_InvalidTokenRestartsFlow(t *testing.T) {
	h := newAuthHarness(t)

	cookies := h.joinCookie(t, func(join *session.Join) {
		join.SetEmail("test@example.com")
		join.SetYourname("remixer")
	})

	recorder := h.get("/signup?token=not-a-real-token", cookies)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/signup", recorder.Header().Get("Location"))

	wiped := h.loadJoin(recorder)
	assert.Empty(t, wiped.Email())
	assert.Empty(t, wiped.Yourname())
}

/*
TestSignup_SendsVerificationEmail verifies POST /signup: a valid free email
produces exactly one outbound message whose link round-trips through the
token codec.
*/
func TestSignup_SendsVerificationEmail(t *testing.T) {
	h := newAuthHarness(t)

	form := url.Values{}
	form.Set("email", "test@example.com")
	recorder := h.postForm("/signup", form, nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "test@example.com", h.mailer.sent[0].To)

	// The emailed URL carries a token that decrypts back to the email
	text := h.mailer.sent[0].Text
	index := strings.Index(text, "token=")
	require.GreaterOrEqual(t, index, 0)
	token, err := url.QueryUnescape(text[index+len("token="):])
	require.NoError(t, err)

	email, _, err := auth.DecryptJoinToken(h.cipher, token)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", email)
}

/*
TestJoin_NormalizesUsername verifies that the registration form applies the
same slug normalization as the landing-page claim, so "José Q" registers
as "jose-q" and a resubmitted pending name skips the redundant taken-check.
*/
func TestJoin_NormalizesUsername(t *testing.T) {
	h := newAuthHarness(t)

	cookies := h.joinCookie(t, func(join *session.Join) {
		join.SetEmail("test@example.com")
		join.SetYourname("jose-q")
	})

	form := url.Values{}
	form.Set("username", "José Q")
	form.Set("password", "secret1")
	form.Set("confirmPassword", "secret1")
	form.Set("termsAndConditions", "on")
	recorder := h.postForm("/join", form, cookies)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))

	user, err := h.service.GetUserByUsername(context.Background(), "jose-q")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)

	// The new member is signed in: one server-side session entry for them
	require.Len(t, h.rdb.values, 1)
	for _, userID := range h.rdb.values {
		assert.Equal(t, user.ID, userID)
	}
}

/*
TestJoin_WithoutVerifiedEmailRedirects verifies the session gate: reaching
the registration form without a verified email restarts at /signup.
*/
func TestJoin_WithoutVerifiedEmailRedirects(t *testing.T) {
	h := newAuthHarness(t)

	recorder := h.get("/join", nil)
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/signup", recorder.Header().Get("Location"))
}

/*
TestGuard_RequireUser_RedirectsAnonymous verifies that an anonymous request
is bounced to login with the original path preserved.
*/
func TestGuard_RequireUser_RedirectsAnonymous(t *testing.T) {
	h := newAuthHarness(t)

	request := httptest.NewRequest(http.MethodGet, "/admin/links", nil)
	recorder := httptest.NewRecorder()

	_, _, ok := h.guard.RequireUser(recorder, request)
	assert.False(t, ok)
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login?redirectTo="+url.QueryEscape("/admin/links"), recorder.Header().Get("Location"))
}

/*
TestGuard_RequireUser_ErrorRespondsJSON verifies that a session-resolution
failure answers with the standard JSON error envelope, not plain text.
*/
func TestGuard_RequireUser_ErrorRespondsJSON(t *testing.T) {
	h := newAuthHarness(t)

	user, err := h.service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)

	sess := h.auths.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, sess.Create(context.Background(), user.ID, true))

	sessionRecorder := httptest.NewRecorder()
	sess.Commit(sessionRecorder)
	cookies := sessionRecorder.Result().Cookies()
	require.Len(t, cookies, 1)

	// The session store becomes unreachable
	h.rdb.failure = fmt.Errorf("connection refused")

	request := httptest.NewRequest(http.MethodGet, "/admin/links", nil)
	request.AddCookie(cookies[0])
	recorder := httptest.NewRecorder()

	_, _, ok := h.guard.RequireUser(recorder, request)
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "error", envelope.Status)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Code)
}

/*
TestLogin_SessionRoundTrip verifies POST /login end to end: valid
credentials produce a session cookie that RequireUser accepts afterwards.
*/
func TestLogin_SessionRoundTrip(t *testing.T) {
	h := newAuthHarness(t)

	_, err := h.service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)

	form := url.Values{}
	form.Set("yourname", "remixer")
	form.Set("password", "secret1")
	form.Set("redirectTo", "/admin/links")
	form.Set("remember", "on")
	recorder := h.postForm("/login", form, nil)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/admin/links", recorder.Header().Get("Location"))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	request := httptest.NewRequest(http.MethodGet, "/admin/links", nil)
	request.AddCookie(cookies[0])
	user, _, ok := h.guard.RequireUser(httptest.NewRecorder(), request)
	require.True(t, ok)
	assert.Equal(t, "remixer", user.Username)
}

/*
TestLogin_InvalidCredentials verifies the enumeration defense: wrong
password and unknown username answer with the same generic form error.
*/
func TestLogin_InvalidCredentials(t *testing.T) {
	h := newAuthHarness(t)

	_, err := h.service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)

	for _, tt := range []struct {
		name     string
		yourname string
		password string
	}{
		{"wrong_password", "remixer", "wrong-password"},
		{"unknown_username", "nobody-here", "secret1"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("yourname", tt.yourname)
			form.Set("password", tt.password)
			form.Set("redirectTo", "/")
			recorder := h.postForm("/login", form, nil)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, "Invalid username or password", envelope.Errors["form"])
			assert.Empty(t, recorder.Result().Cookies())
		})
	}
}
