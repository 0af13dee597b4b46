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
	"admin-service/internal/domain/product"
	"admin-service/internal/repository"
	"admin-service/internal/storage/s3"
	apperrors "admin-service/pkg/errors"
	"admin-service/pkg/validator"
)

const msgSKUAlreadyExists = "sku already exists"

// ProductHandler serves the product catalog endpoints. Reads are open to any
// authenticated user; writes sit behind the ADMIN/MANAGER guard.
type ProductHandler struct {
	products repository.ProductRepository
	media    MediaStorage
	audit    *audit.Recorder
	pageSize int
}

func NewProductHandler(products repository.ProductRepository, media MediaStorage, audit *audit.Recorder, pageSize int) *ProductHandler {
	return &ProductHandler{products: products, media: media, audit: audit, pageSize: pageSize}
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Quantity    *int    `json:"quantity"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
}

func (h *ProductHandler) List(c echo.Context) error {
	page := parsePageRequest(c, h.pageSize)

	filter := product.ListFilter{
		Search:   strings.TrimSpace(c.QueryParam(querySearch)),
		Category: strings.TrimSpace(c.QueryParam(queryCategory)),
	}

	products, total, err := h.products.List(c.Request().Context(), filter, page.Limit, page.Offset())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return respondPaginated(c, presentProducts(c, h.media, products), total, page)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	p, err := h.products.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgProductNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, presentProduct(c, h.media, p))
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req CreateProductRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := validator.Name(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.SKU(req.SKU); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Price(req.Price); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Quantity(req.Quantity); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Category(req.Category); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	status := product.StatusActive
	if req.Status != "" {
		status = product.Status(req.Status)
		if !status.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidStatus)
		}
	}

	created, err := h.products.Create(c.Request().Context(), product.CreateProductInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgSKUAlreadyExists)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	h.recordProductChange(c, activity.ActionCreate, created.ID, created.SKU)

	return c.JSON(http.StatusCreated, presentProduct(c, h.media, created))
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	var req UpdateProductRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	input := product.UpdateProductInput{
		Description: req.Description,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validator.Name(name); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		input.Name = &name
	}

	if req.Price != nil {
		if err := validator.Price(*req.Price); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		input.Price = req.Price
	}

	if req.Quantity != nil {
		if err := validator.Quantity(*req.Quantity); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		input.Quantity = req.Quantity
	}

	if req.Category != nil {
		if err := validator.Category(*req.Category); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		input.Category = req.Category
	}

	if req.Status != nil {
		status := product.Status(*req.Status)
		if !status.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidStatus)
		}
		input.Status = &status
	}

	if err := h.products.Update(c.Request().Context(), id, input); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgProductNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	p, err := h.products.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	h.recordProductChange(c, activity.ActionUpdate, id, p.SKU)

	return c.JSON(http.StatusOK, presentProduct(c, h.media, p))
}

// Delete removes the catalog row first, then the stored image object, so the
// worst case of a failed cleanup is an orphaned object, never a ghost row.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidID)
	}

	p, err := h.products.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgProductNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgProductNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	removeMediaObject(c, h.media, p.Image)
	h.recordProductChange(c, activity.ActionDelete, id, p.SKU)

	return respondMessage(c, http.StatusOK, msgProductDeleted)
}

// ImageUploadURL issues a presigned PUT URL for the product image object and
// records the key on the product row.
func (h *ProductHandler) ImageUploadURL(c echo.Context) error {
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

	if _, err := h.products.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgProductNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	key := s3.ProductImageKey(id.String())
	url, err := h.media.GeneratePresignedUploadURL(c.Request().Context(), key, req.ContentType)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	if err := h.products.Update(c.Request().Context(), id, product.UpdateProductInput{Image: &key}); err != nil {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, UploadURLResponse{UploadURL: url, Key: key})
}

func (h *ProductHandler) recordProductChange(c echo.Context, action activity.Action, targetID uuid.UUID, details string) {
	actorID, err := auth.GetUserID(c)
	if err != nil {
		return
	}
	h.audit.Record(c, actorID, action, activity.EntityProduct, &targetID, details)
}
