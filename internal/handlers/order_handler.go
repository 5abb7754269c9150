package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/authz"
	"wavemedia/internal/middleware"
	"wavemedia/internal/models"
	"wavemedia/internal/pdf"
	"wavemedia/internal/repositories"
	"wavemedia/internal/services"
)

type OrderHandler struct {
	*ResourceHandler[models.Order]
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	users    repositories.UserRepository
	receipts pdf.Generator
	notifier services.Notifier
}

func NewOrderHandler(
	orders *repositories.OrderRepository,
	products *repositories.ProductRepository,
	users repositories.UserRepository,
	receipts pdf.Generator,
	notifier services.Notifier,
) *OrderHandler {
	return &OrderHandler{
		ResourceHandler: NewResourceHandler[models.Order]("order", orders),
		orders:          orders,
		products:        products,
		users:           users,
		receipts:        receipts,
		notifier:        notifier,
	}
}

// Create overrides the generic path: the total is priced server-side and the
// order is stamped with the authenticated buyer.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		ProductID int64 `json:"product_id" binding:"required"`
		Quantity  int   `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		log.Errorf("[order][create] load product %d: %v", req.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	order := &models.Order{
		Number:     uuid.NewString(),
		UserID:     userID,
		ProductID:  product.ID,
		Quantity:   req.Quantity,
		TotalCents: product.PriceCents * int64(req.Quantity),
		Status:     "pending",
	}
	id, err := h.orders.Create(order)
	if err != nil {
		log.Errorf("[order][create] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	created, err := h.orders.GetByID(id)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{"id": id})
		return
	}
	if h.notifier != nil {
		h.notifier.OrderCreated(created)
	}
	c.JSON(http.StatusCreated, created)
}

// List shows staff everything; everyone else only their own orders.
func (h *OrderHandler) List(c *gin.Context) {
	role, _ := middleware.Role(c)
	if authz.IsStaff(role) {
		h.ResourceHandler.List(c)
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	limit, offset := pagination(c)
	items, err := h.orders.ListByUser(userID, limit, offset)
	if err != nil {
		log.Errorf("[order][list] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	if items == nil {
		items = []models.Order{}
	}
	c.JSON(http.StatusOK, items)
}

// Receipt renders the order as a PDF and streams it back. Buyers can only
// fetch their own receipts; staff can fetch any.
func (h *OrderHandler) Receipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	order, err := h.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		log.Errorf("[order][receipt] load id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	userID, _ := middleware.UserID(c)
	role, _ := middleware.Role(c)
	if order.UserID != userID && !authz.IsStaff(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	product, err := h.products.GetByID(order.ProductID)
	if err != nil {
		log.Errorf("[order][receipt] load product %d: %v", order.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build receipt"})
		return
	}
	buyer, err := h.users.GetByID(order.UserID)
	if err != nil {
		log.Errorf("[order][receipt] load buyer %d: %v", order.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build receipt"})
		return
	}

	path, err := h.receipts.GenerateReceipt(pdf.ReceiptData{
		OrderNumber:   order.Number,
		CustomerName:  buyer.Name,
		CustomerEmail: buyer.Email,
		ProductName:   product.Name,
		Quantity:      order.Quantity,
		TotalCents:    order.TotalCents,
		CreatedAt:     order.CreatedAt,
	})
	if err != nil {
		log.Errorf("[order][receipt] generate id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build receipt"})
		return
	}
	c.FileAttachment(path, "receipt_"+order.Number+".pdf")
}
