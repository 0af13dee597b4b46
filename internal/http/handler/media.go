package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"admin-service/internal/domain/product"
	"admin-service/internal/domain/user"
)

// MediaStorage is the slice of the object store the handlers need for
// avatar and product image uploads. Nil means media features are disabled
// and the upload-url endpoints answer 503.
type MediaStorage interface {
	GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

type UploadURLRequest struct {
	ContentType string `json:"content_type"`
}

type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

// resolveMediaURL swaps a stored object key for a presigned download URL so
// clients can fetch the object from the private bucket. Without configured
// storage, or when signing fails, the stored key passes through unchanged.
func resolveMediaURL(c echo.Context, media MediaStorage, objectKey string) string {
	if media == nil || objectKey == "" {
		return objectKey
	}

	url, err := media.GeneratePresignedDownloadURL(c.Request().Context(), objectKey)
	if err != nil {
		c.Logger().Warnf("failed to sign download url for %s: %v", objectKey, err)
		return objectKey
	}
	return url
}

// removeMediaObject deletes the object behind a removed row. Best effort:
// the row is already gone, so failures are logged and never surfaced.
func removeMediaObject(c echo.Context, media MediaStorage, objectKey string) {
	if media == nil || objectKey == "" {
		return
	}

	if err := media.DeleteObject(c.Request().Context(), objectKey); err != nil {
		c.Logger().Warnf("failed to delete object %s: %v", objectKey, err)
	}
}

func presentUser(c echo.Context, media MediaStorage, u *user.User) UserResponse {
	resp := toUserResponse(u)
	resp.Avatar = resolveMediaURL(c, media, u.Avatar)
	return resp
}

func presentUsers(c echo.Context, media MediaStorage, users []*user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, presentUser(c, media, u))
	}
	return out
}

func presentProduct(c echo.Context, media MediaStorage, p *product.Product) ProductResponse {
	resp := toProductResponse(p)
	resp.Image = resolveMediaURL(c, media, p.Image)
	return resp
}

func presentProducts(c echo.Context, media MediaStorage, products []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, presentProduct(c, media, p))
	}
	return out
}
