package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"admin-service/internal/audit"
	"admin-service/internal/auth"
	"admin-service/internal/domain/activity"
	"admin-service/internal/domain/order"
	"admin-service/internal/rbac"
	"admin-service/internal/repository"
	apperrors "admin-service/pkg/errors"
)

const msgCannotOrderForOthers = "cannot create orders for other users"

// OrderHandler serves order placement and tracking. A USER only ever sees
// and creates their own orders; MANAGER and ADMIN operate across customers.
type OrderHandler struct {
	orders   repository.OrderRepository
	audit    *audit.Recorder
	pageSize int
}

func NewOrderHandler(orders repository.OrderRepository, audit *audit.Recorder, pageSize int) *OrderHandler {
	return &OrderHandler{orders: orders, audit: audit, pageSize: pageSize}
}

type CreateOrderRequest struct {
	UserID string                   `json:"user_id"`
	Items  []CreateOrderItemRequest `json:"items"`
}

type CreateOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Create places an order. The total and per-item prices come from the
// catalog inside one transaction, never from the request body. Placing an
// order on behalf of another user takes MANAGER rank or better.
func (h *OrderHandler) Create(c echo.Context) error {
	actorID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgNotAuthenticated)
	}
	actorRole, err := auth.GetRole(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgNotAuthenticated)
	}

	var req CreateOrderRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if len(req.Items) == 0 {
		return respondError(c, http.StatusBadRequest, msgOrderItemsRequired)
	}

	targetID := actorID
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidID)
		}
		if parsed != actorID && !rbac.MeetsOrExceeds(actorRole, rbac.RoleManager) {
			return respondError(c, http.StatusForbidden, msgCannotOrderForOthers)
		}
		targetID = parsed
	}

	items := make([]order.CreateItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidID)
		}
		if item.Quantity < 1 {
			return respondError(c, http.StatusBadRequest, msgInvalidQuantity)
		}
		items = append(items, order.CreateItemInput{ProductID: productID, Quantity: item.Quantity})
	}

	created, err := h.orders.Create(c.Request().Context(), order.CreateOrderInput{
		UserID: targetID,
		Items:  items,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	h.audit.Record(c, actorID, activity.ActionCreate, activity.EntityOrder, &created.ID, created.OrderNo)

	return c.JSON(http.StatusCreated, toOrderResponse(created))
}

func (h *OrderHandler) List(c echo.Context) error {
	actorID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgNotAuthenticated)
	}
	actorRole, err := auth.GetRole(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgNotAuthenticated)
	}

	page := parsePageRequest(c, h.pageSize)

	filter := order.ListFilter{}

	if statusParam := c.QueryParam(queryStatus); statusParam != "" {
		status := order.Status(statusParam)
		if !status.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidStatus)
		}
		filter.Status = status
	}

	// Plain users are pinned to their own orders; the user_id query filter
	// only means something to MANAGER and ADMIN.
	if rbac.MeetsOrExceeds(actorRole, rbac.RoleManager) {
		if userParam := c.QueryParam(queryUserID); userParam != "" {
			parsed, err := uuid.Parse(userParam)
			if err != nil {
				return respondError(c, http.StatusBadRequest, msgInvalidID)
			}
			filter.UserID = parsed
		}
	} else {
		filter.UserID = actorID
	}

	orders, total, err := h.orders.List(c.Request().Context(), filter, page.Limit, page.Offset())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return respondPaginated(c, toOrderResponses(orders), total, page)
}

// Get returns one order. A USER asking for someone else's order gets the
// same 404 as a missing id, so order ids cannot be probed for existence.
func (h *OrderHandler) Get(c echo.Context) error {
	actorID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgNotAuthenticated)
	}
	actorRole, err := auth.GetRole(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgNotAuthenticated)
	}

	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	o, err := h.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgOrderNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	if o.UserID != actorID && !rbac.MeetsOrExceeds(actorRole, rbac.RoleManager) {
		return respondError(c, http.StatusNotFound, msgOrderNotFound)
	}

	return c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	var req UpdateOrderStatusRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	status := order.Status(req.Status)
	if !status.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidStatus)
	}

	if err := h.orders.UpdateStatus(c.Request().Context(), id, status); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgOrderNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	o, err := h.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	if actorID, err := auth.GetUserID(c); err == nil {
		h.audit.Record(c, actorID, activity.ActionUpdate, activity.EntityOrder, &id, string(status))
	}

	return c.JSON(http.StatusOK, toOrderResponse(o))
}
