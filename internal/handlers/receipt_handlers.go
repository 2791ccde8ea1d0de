package handlers

import (
	"log"
	"net/http"
	"time"

	"clubops/internal/common"
	"clubops/internal/services"

	"github.com/labstack/echo/v4"
)

const receiptURLExpiry = 15 * time.Minute

// ReceiptHandlers handles payment receipt uploads and downloads
type ReceiptHandlers struct {
	minioService services.MinioService
}

// NewReceiptHandlers creates a new receipt handlers instance
func NewReceiptHandlers(minioService services.MinioService) *ReceiptHandlers {
	return &ReceiptHandlers{minioService: minioService}
}

// UploadReceipt handles POST /payments/:id/receipt with a multipart file
func (h *ReceiptHandlers) UploadReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	paymentID, err := common.ValidateUUID(c.Param("id"), "payment_id")
	if err != nil {
		return common.SendValidationError(c, "payment_id", err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "Receipt file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendClientError(c, "Failed to read receipt file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName, err := h.minioService.UploadReceipt(ctx, paymentID, file, fileHeader.Size, contentType)
	if err != nil {
		return common.SendServerError(c, "Failed to store receipt")
	}
	log.Printf("Receipt %s uploaded by user %s", objectName, userID.String())

	return c.JSON(http.StatusCreated, map[string]string{
		"object_name": objectName,
	})
}

// GetReceiptURL handles GET /payments/:id/receipt and returns a presigned URL
func (h *ReceiptHandlers) GetReceiptURL(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := common.ValidateUUID(c.Param("id"), "payment_id")
	if err != nil {
		return common.SendValidationError(c, "payment_id", err.Error())
	}

	objectName := "receipts/" + paymentID.String()
	if err := h.minioService.StatReceipt(ctx, objectName); err != nil {
		return common.SendNotFoundError(c, "receipt")
	}

	url, err := h.minioService.GetReceiptURL(ctx, objectName, receiptURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate download URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url": url,
	})
}
