// Package catalog serves the reference registry API over echo.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/logilab/onyxia-composer/internal/adapters/dto"
	"github.com/logilab/onyxia-composer/internal/adapters/in/http/middleware"
	"github.com/logilab/onyxia-composer/internal/boundaries/in"
	"github.com/logilab/onyxia-composer/internal/domain"
)

// Handler maps the six registry endpoints onto the catalog use case.
type Handler struct {
	svc in.CatalogService
	log *log.Logger
}

// NewHandler creates a handler.
func NewHandler(svc in.CatalogService, l *log.Logger) *Handler {
	return &Handler{svc: svc, log: l}
}

// Register mounts the endpoints under g.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/checkSrvName", h.checkName)
	g.POST("/checkSrvVersion", h.checkVersion)
	g.POST("/create", h.create)
	g.POST("/clone", h.clone)
	g.POST("/services", h.services)
	g.POST("/delete", h.delete)
}

func (h *Handler) checkName(c echo.Context) error {
	var name string
	if err := decodeBody(c, &name); err != nil {
		return h.sendError(c, err)
	}
	check, err := h.svc.CheckName(c.Request().Context(), name)
	if err != nil {
		return h.sendError(c, err)
	}
	return sendJSONResponse(c, http.StatusOK, dto.NameCheckResponse{
		Exists:      check.Exists,
		Version:     check.Version,
		Description: check.Description,
		Icon:        check.IconURL,
	})
}

func (h *Handler) checkVersion(c echo.Context) error {
	var req dto.VersionCheckRequest
	if err := decodeBody(c, &req); err != nil {
		return h.sendError(c, err)
	}
	check, err := h.svc.CheckVersion(c.Request().Context(), req.Name, req.Version)
	if err != nil {
		return h.sendError(c, err)
	}
	return sendJSONResponse(c, http.StatusOK, dto.MessageResponse{Message: check.Message})
}

func (h *Handler) create(c echo.Context) error {
	var req domain.CreateRequest
	if err := decodeBody(c, &req); err != nil {
		return h.sendError(c, err)
	}
	message, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.sendError(c, err)
	}
	return sendJSONResponse(c, http.StatusOK, dto.MessageResponse{Message: message})
}

func (h *Handler) clone(c echo.Context) error {
	var repoURL string
	if err := decodeBody(c, &repoURL); err != nil {
		return h.sendError(c, err)
	}
	message, err := h.svc.Clone(c.Request().Context(), repoURL)
	if err != nil {
		return h.sendError(c, err)
	}
	return sendJSONResponse(c, http.StatusOK, dto.MessageResponse{Message: message})
}

func (h *Handler) services(c echo.Context) error {
	services, err := h.svc.Services(c.Request().Context())
	if err != nil {
		return h.sendError(c, err)
	}
	if services == nil {
		services = map[string]domain.ServiceSummary{}
	}
	return sendJSONResponse(c, http.StatusOK, dto.ServicesResponse{Services: services})
}

func (h *Handler) delete(c echo.Context) error {
	var req dto.DeleteRequest
	if err := decodeBody(c, &req); err != nil {
		return h.sendError(c, err)
	}
	message, err := h.svc.Delete(c.Request().Context(), req.Service)
	if err != nil {
		return h.sendError(c, err)
	}
	return sendJSONResponse(c, http.StatusOK, dto.MessageResponse{Message: message})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(c echo.Context, v any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("%w: unreadable body: %v", domain.ErrInvalidRequest, err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

// statusFor maps use case errors onto HTTP statuses. Anything unrecognized is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidVersion),
		errors.Is(err, domain.ErrUnsupportedSourceKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProtectedService):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVersionNotNewer):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCloneFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) sendError(c echo.Context, err error) error {
	status := statusFor(err)
	l := middleware.Logger(c, h.log)

	message := err.Error()
	if status == http.StatusInternalServerError {
		l.Error("catalog request failed", "path", c.Path(), "error", err)
		message = "internal error"
	} else {
		l.Debug("catalog request rejected", "path", c.Path(), "status", status, "error", err)
	}
	return sendJSONResponse(c, status, dto.MessageResponse{Message: html.EscapeString(message)})
}

func sendJSONResponse(c echo.Context, status int, v any) error {
	return c.JSON(status, v)
}
