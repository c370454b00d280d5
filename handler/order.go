package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/elayeboussama/University-Order-Management-System/middleware"
	"github.com/elayeboussama/University-Order-Management-System/model"
	"github.com/elayeboussama/University-Order-Management-System/pkg/logger"
	"github.com/elayeboussama/University-Order-Management-System/pkg/sigpad"
	"github.com/elayeboussama/University-Order-Management-System/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	records   service.OrderRecords
	artifacts service.Artifacts
	signing   *service.SigningService
}

func NewOrderHandler(records service.OrderRecords, artifacts service.Artifacts, signing *service.SigningService) *OrderHandler {
	return &OrderHandler{
		records:   records,
		artifacts: artifacts,
		signing:   signing,
	}
}

// Create handles order submission with the attached PDF document
func (h *OrderHandler) Create(c *gin.Context) {
	if !model.CanSubmit(middleware.GetRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only staff may submit orders"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	// Only PDF documents can be signed
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "application/pdf"
	} else if !strings.Contains(contentType, "pdf") {
		// Try to detect from the file header
		buffer := make([]byte, 512)
		if _, err := file.Read(buffer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}

		detectedType := http.DetectContentType(buffer)
		if !strings.Contains(detectedType, "pdf") && detectedType != "application/octet-stream" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
			return
		}
		contentType = "application/pdf"
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	key := service.DocumentKey(header.Filename)
	url, err := h.artifacts.Upload(c.Request.Context(), key, data, contentType, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}

	order := &model.Order{
		Title:        title,
		Description:  c.PostForm("description"),
		SubmittedBy:  middleware.GetUserID(c),
		DocumentPath: key,
		PDFURL:       url,
		Department:   c.PostForm("department"),
		Notes:        c.PostForm("notes"),
	}
	if err := h.records.CreateOrder(c.Request.Context(), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	logger.Info(c.Request.Context(), "order created",
		"order_id", order.ID,
		"title", order.Title,
		"department", order.Department,
	)

	c.JSON(http.StatusCreated, order)
}

// List returns all orders, newest first, with their signatures
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.records.LoadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	result := make([]gin.H, len(orders))
	for i, order := range orders {
		result[i] = gin.H{
			"id":              order.ID,
			"title":           order.Title,
			"submitted_by":    order.SubmittedBy,
			"submitted_at":    order.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
			"status":          order.Status,
			"department":      order.Department,
			"pdf_url":         order.PDFURL,
			"signature_count": len(order.Signatures),
		}
	}

	c.JSON(http.StatusOK, gin.H{"orders": result})
}

// Get returns a single order with its full signature list
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.records.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

type SignRequest struct {
	Strokes []sigpad.Stroke `json:"strokes" binding:"required"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
}

// Sign applies the authenticated approver's signature to an order
func (h *OrderHandler) Sign(c *gin.Context) {
	role := middleware.GetRole(c)
	if !model.CanSign(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Role may not sign orders"})
		return
	}

	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	orderID := c.Param("id")

	order, err := h.records.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	// Signing is closed once the order reaches a terminal state
	if order.Status == model.StatusApproved || order.Status == model.StatusRejected {
		c.JSON(http.StatusConflict, gin.H{"error": "Order is no longer open for signatures"})
		return
	}

	signer, err := h.records.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown signer"})
		return
	}

	pad := sigpad.FromStrokes(req.Width, req.Height, req.Strokes)

	orders, err := h.signing.Sign(c.Request.Context(), orderID, signer, pad)
	if err != nil {
		status, msg := signErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	for _, o := range orders {
		if o.ID == orderID {
			c.JSON(http.StatusOK, gin.H{"order": o, "orders": orders})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// signErrorStatus maps pipeline failures to HTTP responses
func signErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrEmptySignature):
		return http.StatusBadRequest, "Signature is empty"
	case errors.Is(err, model.ErrMissingDocument):
		return http.StatusConflict, "Order has no document to sign"
	case errors.Is(err, model.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, model.ErrDuplicateSignature):
		return http.StatusConflict, "You have already signed this order"
	case errors.Is(err, model.ErrMalformedDocument):
		return http.StatusUnprocessableEntity, "Order document is not a valid PDF"
	case errors.Is(err, model.ErrUnsupportedImage):
		return http.StatusUnprocessableEntity, "Signature image cannot be embedded"
	case errors.Is(err, model.ErrKeyConflict):
		return http.StatusConflict, "Signed document key collision, retry"
	case errors.Is(err, model.ErrArtifactNotFound):
		return http.StatusConflict, "Order document is missing from storage"
	case errors.Is(err, model.ErrTransientIO):
		return http.StatusBadGateway, "Storage unavailable, retry"
	default:
		return http.StatusInternalServerError, "Signing failed"
	}
}

// Reject moves an order to the terminal rejected state
func (h *OrderHandler) Reject(c *gin.Context) {
	if middleware.GetRole(c) != model.RoleDirector {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the director may reject orders"})
		return
	}

	orderID := c.Param("id")
	if err := h.records.RejectOrder(c.Request.Context(), orderID); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject order"})
		return
	}

	logger.Info(c.Request.Context(), "order rejected", "order_id", orderID)

	c.JSON(http.StatusOK, gin.H{"message": "Order rejected"})
}

// Delete removes an order, its signature records and storage artifacts
func (h *OrderHandler) Delete(c *gin.Context) {
	if middleware.GetRole(c) != model.RoleDirector {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the director may delete orders"})
		return
	}

	orderID := c.Param("id")
	order, err := h.records.DeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}

	// Best-effort cleanup of storage artifacts: the records are already
	// gone, a leftover blob is only wasted space. Only the original
	// document and the latest signed revision are removed; intermediate
	// signed revisions are no longer referenced anywhere and stay behind
	ctx := c.Request.Context()
	if order.DocumentPath != "" {
		if err := h.artifacts.Remove(ctx, order.DocumentPath); err != nil {
			logger.Warn(ctx, "failed to remove order document", "order_id", orderID, "error", err)
		}
	}
	if name, ok := h.artifacts.ObjectNameFromURL(order.PDFURL); ok && name != order.DocumentPath {
		if err := h.artifacts.Remove(ctx, name); err != nil {
			logger.Warn(ctx, "failed to remove signed PDF", "order_id", orderID, "error", err)
		}
	}

	logger.Info(ctx, "order deleted", "order_id", orderID)

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
