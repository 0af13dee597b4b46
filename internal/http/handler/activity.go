package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"admin-service/internal/domain/activity"
	"admin-service/internal/repository"
)

// ActivityHandler serves the audit trail for MANAGER and ADMIN.
type ActivityHandler struct {
	activities repository.ActivityRepository
	pageSize   int
}

func NewActivityHandler(activities repository.ActivityRepository, pageSize int) *ActivityHandler {
	return &ActivityHandler{activities: activities, pageSize: pageSize}
}

func (h *ActivityHandler) List(c echo.Context) error {
	page := parsePageRequest(c, h.pageSize)

	filter := activity.ListFilter{}
	if userParam := c.QueryParam(queryUserID); userParam != "" {
		parsed, err := uuid.Parse(userParam)
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidID)
		}
		filter.UserID = parsed
	}

	entries, total, err := h.activities.List(c.Request().Context(), filter, page.Limit, page.Offset())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return respondPaginated(c, toActivityResponses(entries), total, page)
}
