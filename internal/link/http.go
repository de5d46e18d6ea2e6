// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package link

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onelinkhq/onelink/internal/auth"
	"github.com/onelinkhq/onelink/internal/platform/apperr"
	requestutil "github.com/onelinkhq/onelink/internal/platform/request"
	"github.com/onelinkhq/onelink/internal/platform/respond"
	"github.com/onelinkhq/onelink/internal/platform/validate"
)

// Handler implements the authenticated link admin routes and the public
// profile page.
type Handler struct {
	service *Service
	users   *auth.Service
	guard   *auth.Guard
}

// NewHandler constructs the link [Handler] with its dependencies.
func NewHandler(service *Service, users *auth.Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, users: users, guard: guard}
}

// Register mounts the link routes on the root router.
//
// # Endpoints
//   - GET  /admin/links     : Owner's full link list.
//   - POST /admin/links     : Delete / publish-toggle actions.
//   - POST /admin/links/new : Create a link.
//   - GET  /{username}      : Public profile (published links only).
//
// The profile wildcard must be registered after every static route so
// "/signup" never resolves as a username.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/admin/links", handler.adminLinks)
	router.Post("/admin/links", handler.adminLinksAction)
	router.Post("/admin/links/new", handler.createLink)
	router.Get("/{username}", handler.profile)
}

// # Admin

// adminLinks handles GET /admin/links: the owner's dashboard data, every
// link regardless of publish state.
func (handler *Handler) adminLinks(writer http.ResponseWriter, request *http.Request) {
	user, sess, ok := handler.guard.RequireUser(writer, request)
	if !ok {
		return
	}

	links, err := handler.service.ListByUser(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sess.Commit(writer)
	respond.OK(writer, map[string]interface{}{"links": links})
}

// adminLinksAction handles POST /admin/links.
//
// The dashboard submits one form per row with a hidden "action" control:
// "delete" removes the link, "toggle" sets the published flag to the state
// of the submitted checkbox. Both verify ownership against the session user.
func (handler *Handler) adminLinksAction(writer http.ResponseWriter, request *http.Request) {
	user, sess, ok := handler.guard.RequireUser(writer, request)
	if !ok {
		return
	}

	action, err := requestutil.RequireForm(request, "action")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	switch action {
	case "delete":
		linkID, err := requestutil.RequireForm(request, "linkId")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if err := handler.service.DeleteOwned(request.Context(), linkID, user.ID); err != nil {
			respond.Error(writer, request, err)
			return
		}

	case "toggle":
		linkID, err := requestutil.RequireForm(request, "linkId")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		published := requestutil.Form(request, "published") == "on"
		if err := handler.service.SetPublishedOwned(request.Context(), linkID, user.ID, published); err != nil {
			respond.Error(writer, request, err)
			return
		}

	default:
		respond.Error(writer, request, apperr.FieldError("form", "Unknown action"))
		return
	}

	sess.Commit(writer)
	respond.OK(writer, nil)
}

// createLink handles POST /admin/links/new.
func (handler *Handler) createLink(writer http.ResponseWriter, request *http.Request) {
	user, sess, ok := handler.guard.RequireUser(writer, request)
	if !ok {
		return
	}

	url, err := requestutil.RequireForm(request, "url")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	title, err := requestutil.RequireForm(request, "title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fieldErrors := map[string]string{}
	if message := validate.URL(url); message != "" {
		fieldErrors["url"] = message
	}
	if message := validate.Title(title); message != "" {
		fieldErrors["title"] = message
	}
	if len(fieldErrors) > 0 {
		respond.Error(writer, request, apperr.ValidationError(fieldErrors))
		return
	}

	created, err := handler.service.Create(request.Context(), url, title, user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sess.Commit(writer)
	respond.Created(writer, created)
}

// # Public Profile

// profile handles GET /{username}: 404 when no such user exists, otherwise
// the user's published links in insertion order.
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.users.GetUserByUsername(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	links, err := handler.service.ListPublished(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]interface{}{
		"username": user.Username,
		"links":    links,
	})
}
