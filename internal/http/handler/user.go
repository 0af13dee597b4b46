package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"admin-service/internal/audit"
	"admin-service/internal/auth"
	"admin-service/internal/domain/activity"
	"admin-service/internal/domain/user"
	"admin-service/internal/rbac"
	"admin-service/internal/repository"
	"admin-service/internal/storage/s3"
	apperrors "admin-service/pkg/errors"
	"admin-service/pkg/password"
	"admin-service/pkg/validator"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	users    repository.UserRepository
	media    MediaStorage
	audit    *audit.Recorder
	pageSize int
}

func NewUserHandler(users repository.UserRepository, media MediaStorage, audit *audit.Recorder, pageSize int) *UserHandler {
	return &UserHandler{users: users, media: media, audit: audit, pageSize: pageSize}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

func (h *UserHandler) List(c echo.Context) error {
	page := parsePageRequest(c, h.pageSize)

	filter := user.ListFilter{
		Search: strings.TrimSpace(c.QueryParam(querySearch)),
	}

	if roleParam := c.QueryParam(queryRole); roleParam != "" {
		role, err := rbac.ParseRole(roleParam)
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidRole)
		}
		filter.Role = role
	}

	if statusParam := c.QueryParam(queryStatus); statusParam != "" {
		status := user.Status(statusParam)
		if !status.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidStatus)
		}
		filter.Status = status
	}

	users, total, err := h.users.List(c.Request().Context(), filter, page.Limit, page.Offset())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return respondPaginated(c, presentUsers(c, h.media, users), total, page)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, presentUser(c, h.media, u))
}

// Create makes an account with an explicit role. Unlike public registration
// this endpoint may grant MANAGER and ADMIN; it sits behind the ADMIN guard.
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Name(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidRole)
	}

	status := user.StatusActive
	if req.Status != "" {
		status = user.Status(req.Status)
		if !status.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidStatus)
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	created, err := h.users.Create(c.Request().Context(), user.CreateUserInput{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	h.recordUserChange(c, activity.ActionCreate, created.ID, created.Email)

	return c.JSON(http.StatusCreated, presentUser(c, h.media, created))
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	var req UpdateUserRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	input := user.UpdateUserInput{}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validator.Email(email); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		input.Email = &email
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validator.Name(name); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		input.Name = &name
	}

	if req.Password != nil {
		if err := validator.Password(*req.Password); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
		}
		input.PasswordHash = &hash
	}

	if req.Role != nil {
		role, err := rbac.ParseRole(*req.Role)
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidRole)
		}
		input.Role = &role
	}

	if req.Status != nil {
		status := user.Status(*req.Status)
		if !status.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidStatus)
		}
		input.Status = &status
	}

	if err := h.users.Update(c.Request().Context(), id, input); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	h.recordUserChange(c, activity.ActionUpdate, id, u.Email)

	return c.JSON(http.StatusOK, presentUser(c, h.media, u))
}

// Delete removes the account row first, then the stored avatar object so a
// failed cleanup can never leave a deleted user resurrectable.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	removeMediaObject(c, h.media, u.Avatar)
	h.recordUserChange(c, activity.ActionDelete, id, u.Email)

	return respondMessage(c, http.StatusOK, msgUserDeleted)
}

// AvatarUploadURL issues a presigned PUT URL for the user's avatar object
// and records the object key on the user row. The browser uploads directly
// to the bucket; the service never proxies the bytes.
func (h *UserHandler) AvatarUploadURL(c echo.Context) error {
	if h.media == nil {
		return respondError(c, http.StatusServiceUnavailable, msgMediaNotConfigured)
	}

	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	var req UploadURLRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	if req.ContentType == "" {
		return respondError(c, http.StatusBadRequest, msgContentTypeRequired)
	}

	if _, err := h.users.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	key := s3.AvatarKey(id.String())
	url, err := h.media.GeneratePresignedUploadURL(c.Request().Context(), key, req.ContentType)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	if err := h.users.Update(c.Request().Context(), id, user.UpdateUserInput{Avatar: &key}); err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, UploadURLResponse{UploadURL: url, Key: key})
}

func (h *UserHandler) recordUserChange(c echo.Context, action activity.Action, targetID uuid.UUID, details string) {
	actorID, err := auth.GetUserID(c)
	if err != nil {
		return
	}
	h.audit.Record(c, actorID, action, activity.EntityUser, &targetID, details)
}
