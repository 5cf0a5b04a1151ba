package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/service"
	"hitolicious-api/internal/util"
)

// Handler contains HTTP handlers
type Handler struct {
	orders          *service.OrderService
	catalog         *service.CatalogService
	auth            *service.AuthService
	audit           *service.AuditLogger
	bestsellerLimit int
}

// NewHandler creates a new HTTP handler
func NewHandler(orders *service.OrderService, catalog *service.CatalogService, auth *service.AuthService, audit *service.AuditLogger, bestsellerLimit int) *Handler {
	return &Handler{
		orders:          orders,
		catalog:         catalog,
		auth:            auth,
		audit:           audit,
		bestsellerLimit: bestsellerLimit,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/customer/signup", h.customerSignup)
		api.POST("/customer/signin", h.customerSignin)
		api.POST("/admin/signin", h.adminSignin)

		api.GET("/food", h.listFood)
		api.POST("/food", h.createFood)
		api.GET("/food/archived", h.listArchivedFood)
		api.PUT("/food/:id", h.updateFood)
		api.DELETE("/food/:id", h.deleteFood)
		api.POST("/food/:id/archive", h.archiveFood)
		api.POST("/food/restore/:id", h.restoreFood)

		api.GET("/stocks", h.listStocks)
		api.POST("/stocks", h.upsertStock)
		api.PUT("/stocks/:id", h.updateStock)

		api.GET("/orders", h.listOrders)
		api.GET("/orders/archived", h.listArchivedOrders)
		api.GET("/orders/archived/customer/:email", h.listArchivedOrdersByCustomer)
		api.GET("/orders/customer/:email", h.listOrdersByCustomer)
		api.POST("/orders", h.placeOrder)
		api.PUT("/orders/:orderId/status", h.updateOrderStatus)
		api.POST("/orders/:orderId/archive", h.archiveOrder)

		api.GET("/admin/bestsellers", h.bestSellers)
		api.GET("/admin/logs", h.adminLogs)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// ===================== auth =====================

func (h *Handler) customerSignup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.auth.SignupCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": customer})
}

func (h *Handler) customerSignin(c *gin.Context) {
	var req service.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.auth.SigninCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": customer})
}

func (h *Handler) adminSignin(c *gin.Context) {
	var req service.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.auth.SigninAdmin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": admin})
}

// ===================== food =====================

func (h *Handler) listFood(c *gin.Context) {
	foods, err := h.catalog.ListFood(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *Handler) createFood(c *gin.Context) {
	var req service.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Food name, category and price are required"})
		return
	}

	food, err := h.catalog.CreateFood(c.Request.Context(), &req, adminIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "food_id": food.FoodID})
}

func (h *Handler) updateFood(c *gin.Context) {
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Food name, category and price are required"})
		return
	}

	if err := h.catalog.UpdateFood(c.Request.Context(), foodID, &req, adminIdentity(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) deleteFood(c *gin.Context) {
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	deletedStocks, err := h.catalog.DeleteFood(c.Request.Context(), foodID, adminIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deleted_stocks": deletedStocks})
}

func (h *Handler) listArchivedFood(c *gin.Context) {
	foods, err := h.catalog.ListArchivedFood(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *Handler) archiveFood(c *gin.Context) {
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.catalog.ArchiveFood(c.Request.Context(), foodID, adminIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"archive_id":     result.ArchiveID,
		"deleted_stocks": result.DeletedStocks,
	})
}

func (h *Handler) restoreFood(c *gin.Context) {
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	food, err := h.catalog.RestoreFood(c.Request.Context(), foodID, adminIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Food restored successfully",
		"food":    food,
	})
}

// ===================== stocks =====================

func (h *Handler) listStocks(c *gin.Context) {
	stocks, err := h.catalog.ListStocks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func (h *Handler) upsertStock(c *gin.Context) {
	var req service.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Food ID, admin ID and quantity are required"})
		return
	}

	stocksID, err := h.catalog.UpsertStock(c.Request.Context(), &req, adminIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stocks_id": stocksID})
}

func (h *Handler) updateStock(c *gin.Context) {
	stocksID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
		return
	}

	if err := h.catalog.UpdateStockQuantity(c.Request.Context(), stocksID, *req.Quantity, adminIdentity(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ===================== orders =====================

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) listOrdersByCustomer(c *gin.Context) {
	orders, err := h.orders.ListOrdersByCustomer(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.orders.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"orderId":   resp.OrderID,
		"paymentId": resp.PaymentID,
		"status":    resp.Status,
	})
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var req struct {
		Status    string `json:"status" binding:"required"`
		UpdatedBy string `json:"updatedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy = adminIdentity(c)
	}

	status, err := h.orders.SetOrderStatus(c.Request.Context(), orderID, req.Status, updatedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

func (h *Handler) archiveOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var req struct {
		ArchivedBy string `json:"archivedBy"`
	}
	_ = c.ShouldBindJSON(&req)

	archivedBy := req.ArchivedBy
	if archivedBy == "" {
		archivedBy = adminIdentity(c)
	}

	result, err := h.orders.ArchiveOrder(c.Request.Context(), orderID, archivedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Order archived successfully",
		"archived_id":    result.ArchiveID,
		"archived_items": result.ItemCount,
	})
}

func (h *Handler) listArchivedOrders(c *gin.Context) {
	orders, err := h.orders.ListArchivedOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) listArchivedOrdersByCustomer(c *gin.Context) {
	orders, err := h.orders.ListArchivedOrdersByCustomer(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ===================== admin =====================

func (h *Handler) bestSellers(c *gin.Context) {
	limit := h.bestsellerLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sellers, err := h.catalog.BestSellers(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sellers)
}

func (h *Handler) adminLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.audit.RecentEntries(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ===================== helpers =====================

// adminIdentity names the acting admin for the audit trail. The dashboard
// sends either an email or a display name; resolution happens downstream.
func adminIdentity(c *gin.Context) string {
	if who := c.GetHeader("X-Admin"); who != "" {
		return who
	}
	return "admin"
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP statuses; anything unclassified
// is a 500.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	var (
		validationErr  *apperr.ValidationError
		notFoundErr    *apperr.NotFoundError
		stockErr       *apperr.InsufficientStockError
		conflictErr    *apperr.ConflictError
		statusErr      *apperr.InvalidStatusError
		credentialsErr *apperr.InvalidCredentialsError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &stockErr),
		errors.As(err, &statusErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &credentialsErr):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "X-Admin"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	return cors.New(cfg)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
