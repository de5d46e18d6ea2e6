// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/onelinkhq/onelink/internal/mail"
	"github.com/onelinkhq/onelink/internal/platform/apperr"
	"github.com/onelinkhq/onelink/internal/platform/constants"
	"github.com/onelinkhq/onelink/internal/platform/ctxutil"
	requestutil "github.com/onelinkhq/onelink/internal/platform/request"
	"github.com/onelinkhq/onelink/internal/platform/respond"
	"github.com/onelinkhq/onelink/internal/platform/sec"
	"github.com/onelinkhq/onelink/internal/platform/validate"
	"github.com/onelinkhq/onelink/internal/session"
	"github.com/onelinkhq/onelink/pkg/slug"
)

// Handler implements the registration and authentication routes.
//
// # Scope
//
// Everything on the path from "anonymous visitor" to "signed-in member":
// the landing page's username claim, the email verification loop, the final
// join form, login, and logout.
type Handler struct {
	service      *Service
	guard        *Guard
	authSessions *session.AuthStore
	joinSessions *session.JoinStore
	cipher       *sec.Cipher
	mailer       mail.Sender

	// baseURL overrides request-derived origins in emailed links when set.
	baseURL string
}

// NewHandler constructs the auth [Handler] with its dependencies.
func NewHandler(
	service *Service,
	guard *Guard,
	authSessions *session.AuthStore,
	joinSessions *session.JoinStore,
	cipher *sec.Cipher,
	mailer mail.Sender,
	baseURL string,
) *Handler {
	return &Handler{
		service:      service,
		guard:        guard,
		authSessions: authSessions,
		joinSessions: joinSessions,
		cipher:       cipher,
		mailer:       mailer,
		baseURL:      baseURL,
	}
}

// Register mounts the auth routes on the root router.
//
// # Endpoints
//   - GET/POST /        : Landing page + username claim.
//   - GET/POST /signup  : Email step of registration (token round-trip).
//   - GET/POST /join    : Final registration form.
//   - GET/POST /login   : Credential login.
//   - POST     /logout  : Full session destruction.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/", handler.home)
	router.Post("/", handler.claimYourname)
	router.Get("/signup", handler.signupPage)
	router.Post("/signup", handler.signup)
	router.Get("/join", handler.joinPage)
	router.Post("/join", handler.join)
	router.Get("/login", handler.loginPage)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
}

// # Landing Page

// home handles GET /.
//
// Signed-in members are sent straight to their admin page; any leftover
// join-info session from an abandoned registration is destroyed on the way.
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	user, sess, err := handler.guard.CurrentUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	joinInfo := handler.joinSessions.Load(request)

	if user != nil {
		joinInfo.Destroy()
		joinInfo.Commit(writer)
		sess.Commit(writer)
		respond.Redirect(writer, request, "/admin/links")
		return
	}

	sess.Commit(writer)
	respond.OK(writer, nil)
}

// claimYourname handles POST /.
//
// The landing page lets a visitor reserve a profile name before any account
// exists. The chosen name is normalized into slug form (usernames double as
// profile URLs), stored in the join-info session, and checked for
// availability; a "taken" result becomes a flashed field error readable by
// the next page load.
func (handler *Handler) claimYourname(writer http.ResponseWriter, request *http.Request) {
	yourname, err := requestutil.RequireForm(request, "yourname")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	joinInfo := handler.joinSessions.Load(request)

	if yourname != "" {
		name := slug.From(yourname)

		// An unchanged pending name was already checked on a previous
		// round-trip; re-checking would only race against itself.
		if name != joinInfo.Yourname() {
			taken, err := handler.service.UsernameTaken(request.Context(), name)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if taken != "" {
				joinInfo.FlashError(session.ErrorKeyYourname, taken)
			}
		}

		joinInfo.SetYourname(name)
	}

	joinInfo.Commit(writer)
	respond.Redirect(writer, request, "/signup")
}

// # Signup (Email Step)

// signupPage handles GET /signup.
//
// Two jobs: render the email form for fresh visitors, and consume the
// emailed verification token. A valid token restores the pending email (and
// chosen name, if any) into the join-info session and forwards to /join. An
// invalid or malformed token restarts the flow cleanly — never a crash.
func (handler *Handler) signupPage(writer http.ResponseWriter, request *http.Request) {
	user, sess, err := handler.guard.CurrentUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if user != nil {
		sess.Commit(writer)
		respond.Redirect(writer, request, "/")
		return
	}

	joinInfo := handler.joinSessions.Load(request)

	if token := request.URL.Query().Get(constants.JoinTokenQueryParam); token != "" {
		email, yourname, err := DecryptJoinToken(handler.cipher, token)
		if err != nil {
			ctxutil.GetLogger(request.Context()).Warn("join_token_rejected",
				slog.String("reason", err.Error()),
			)
			joinInfo.Clean()
			joinInfo.Commit(writer)
			respond.Redirect(writer, request, "/signup")
			return
		}

		joinInfo.SetEmail(email)
		if yourname != "" {
			joinInfo.SetYourname(yourname)
		}
		joinInfo.Commit(writer)
		respond.Redirect(writer, request, "/join")
		return
	}

	data := handler.joinPageData(joinInfo)
	joinInfo.Commit(writer)
	respond.OK(writer, data)
}

// signup handles POST /signup: validate the email, build the encrypted
// verification token, and send the link via Mailgun.
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Extraction ─────────────────────────────────────────────────────

	email, err := requestutil.RequireForm(request, "email")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Validation ─────────────────────────────────────────────────────

	emailError := validate.Email(email)
	if emailError == "" {
		emailError, err = handler.service.EmailTaken(request.Context(), email)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	if emailError != "" {
		respond.Error(writer, request, apperr.FieldError("email", emailError))
		return
	}

	// ── 3. Token + Email ──────────────────────────────────────────────────

	joinInfo := handler.joinSessions.Load(request)

	token, err := EncryptJoinToken(handler.cipher, email, joinInfo.Yourname())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	joinURL := handler.domainURL(request) + "/signup?" +
		constants.JoinTokenQueryParam + "=" + url.QueryEscape(token)

	sendErr := handler.mailer.Send(request.Context(), mail.Message{
		To:      email,
		Subject: "Verify your email",
		Text:    "Please open this URL: " + joinURL,
	})

	// ── 4. Output ─────────────────────────────────────────────────────────

	if sendErr != nil {
		ctxutil.GetLogger(request.Context()).Error("signup_email_send_failed",
			slog.String("error", sendErr.Error()),
		)
		respond.JSON(writer, http.StatusOK, respond.ErrorEnvelope{
			Status: "error",
			Errors: map[string]string{"form": "Email is not sent successfully!"},
		})
		return
	}

	respond.OK(writer, nil)
}

// # Join (Final Registration Form)

// joinPage handles GET /join. Reaching it requires a verified email in the
// join-info session; everyone else restarts at /signup.
func (handler *Handler) joinPage(writer http.ResponseWriter, request *http.Request) {
	joinInfo := handler.joinSessions.Load(request)

	if !hasVerifiedEmail(joinInfo) {
		joinInfo.Commit(writer)
		respond.Redirect(writer, request, "/signup")
		return
	}

	data := handler.joinPageData(joinInfo)
	joinInfo.Commit(writer)
	respond.OK(writer, data)
}

// join handles POST /join: the one request that actually writes to the
// database. Until here the whole registration lived in cookies.
func (handler *Handler) join(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Session Gate ───────────────────────────────────────────────────

	joinInfo := handler.joinSessions.Load(request)
	email := joinInfo.Email()

	if !hasVerifiedEmail(joinInfo) {
		joinInfo.Commit(writer)
		respond.Redirect(writer, request, "/signup")
		return
	}

	// ── 2. Extraction ─────────────────────────────────────────────────────

	username, err := requestutil.RequireForm(request, "username")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	// Usernames double as profile URLs, so the submitted value gets the same
	// slug normalization as the landing-page claim. This also keeps an
	// unchanged pending name recognizable below.
	username = slug.From(username)

	password, err := requestutil.RequireForm(request, "password")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	confirmPassword, err := requestutil.RequireForm(request, "confirmPassword")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	terms := requestutil.Form(request, "termsAndConditions")

	// ── 3. Validation ─────────────────────────────────────────────────────

	fieldErrors := map[string]string{}

	if message := validate.Username(username); message != "" {
		fieldErrors["username"] = message
	} else if username != joinInfo.Yourname() {
		// The pending name already survived an availability check; only a
		// changed value needs a fresh one.
		taken, err := handler.service.UsernameTaken(request.Context(), username)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if taken != "" {
			fieldErrors["username"] = taken
		}
	}

	if message := validate.Password(password); message != "" {
		fieldErrors["password"] = message
	}
	if message := validate.ConfirmPassword(password, confirmPassword); message != "" {
		fieldErrors["confirmPassword"] = message
	}
	if terms != "on" {
		fieldErrors["termsAndConditions"] = "You must agree to terms and conditions"
	}

	if len(fieldErrors) > 0 {
		respond.Error(writer, request, apperr.ValidationError(fieldErrors))
		return
	}

	// ── 4. Registration ───────────────────────────────────────────────────

	user, err := handler.service.CreateUser(request.Context(), email, username, password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 5. Session Handoff ────────────────────────────────────────────────

	sess := handler.authSessions.Load(request)
	if err := sess.Create(request.Context(), user.ID, true); err != nil {
		respond.Error(writer, request, err)
		return
	}

	joinInfo.Destroy()
	joinInfo.Commit(writer)
	sess.Commit(writer)

	respond.Redirect(writer, request, "/")
}

// # Login / Logout

// loginPage handles GET /login. Signed-in members skip it.
func (handler *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	user, sess, err := handler.guard.CurrentUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if user != nil {
		sess.Commit(writer)
		respond.Redirect(writer, request, "/admin/links")
		return
	}

	sess.Commit(writer)
	respond.OK(writer, nil)
}

// login handles POST /login.
//
// # Security
//
// Wrong password and unknown username collapse into the same generic form
// error so usernames cannot be enumerated. The client-supplied return path
// is sanitized to site-relative targets only.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	yourname, err := requestutil.RequireForm(request, "yourname")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	password, err := requestutil.RequireForm(request, "password")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	redirectTo, err := requestutil.RequireForm(request, "redirectTo")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	remember := requestutil.Form(request, "remember")

	fieldErrors := map[string]string{}
	if message := validate.Username(yourname); message != "" {
		fieldErrors["yourname"] = message
	}
	if message := validate.Password(password); message != "" {
		fieldErrors["password"] = message
	}
	if len(fieldErrors) > 0 {
		respond.Error(writer, request, apperr.ValidationError(fieldErrors))
		return
	}

	user, err := handler.service.VerifyCredentials(request.Context(), yourname, password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if user == nil {
		respond.Error(writer, request, apperr.FieldError("form", "Invalid username or password"))
		return
	}

	sess := handler.authSessions.Load(request)
	if err := sess.Create(request.Context(), user.ID, remember == "on"); err != nil {
		respond.Error(writer, request, err)
		return
	}
	sess.Commit(writer)

	respond.Redirect(writer, request, requestutil.SafeRedirect(redirectTo, "/"))
}

// logout handles POST /logout: full destruction of the auth session.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	sess := handler.authSessions.Load(request)

	if err := sess.Destroy(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	sess.Commit(writer)
	respond.Redirect(writer, request, "/")
}

// # Helpers

// joinPageData collects the join-info bag plus its flashed errors for a
// loader response. Reading the flashes consumes them, so the following
// Commit drops them from the cookie.
func (handler *Handler) joinPageData(joinInfo *session.Join) map[string]interface{} {
	errors := map[string]string{}
	for _, key := range []string{session.ErrorKeyEmail, session.ErrorKeyYourname, session.ErrorKeyForm} {
		if message := joinInfo.Error(key); message != "" {
			errors[key] = message
		}
	}

	data := map[string]interface{}{
		"email":    joinInfo.Email(),
		"yourname": joinInfo.Yourname(),
	}
	if len(errors) > 0 {
		data["errors"] = errors
	}
	return data
}

// hasVerifiedEmail reports whether the join-info session carries an email
// that round-tripped through the verification token.
func hasVerifiedEmail(joinInfo *session.Join) bool {
	email := joinInfo.Email()
	return email != "" && validate.Email(email) == ""
}

// domainURL picks the origin for emailed links: the configured BASE_URL when
// present, otherwise the request's forwarded host.
func (handler *Handler) domainURL(request *http.Request) string {
	if handler.baseURL != "" {
		return handler.baseURL
	}
	return requestutil.DomainURL(request)
}
