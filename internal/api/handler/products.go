package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"marketgo/backend/internal/api/middleware"
	"marketgo/backend/internal/config"
	"marketgo/backend/internal/models"
	"marketgo/backend/internal/sanitize"
	"marketgo/backend/internal/storage"
)

type productRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       uint     `json:"price" binding:"required"`
	Tags        []string `json:"tags"`
}

func (r *productRequest) validate() (string, bool) {
	if len(r.Title) > config.ProductTitleMaxLen {
		return fmt.Sprintf("title must be at most %d characters", config.ProductTitleMaxLen), false
	}
	if r.Price < config.ProductPriceMin || r.Price > config.ProductPriceMax {
		return "price is out of range", false
	}
	return "", true
}

func (r *productRequest) apply(product *models.Product) {
	product.Title = sanitize.Clean(r.Title)
	product.Description = sanitize.Clean(r.Description)
	product.Price = r.Price
	product.Tags = nil
	for _, tag := range r.Tags {
		if cleaned := sanitize.Clean(tag); cleaned != "" {
			product.Tags = append(product.Tags, cleaned)
		}
	}
}

func productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return uint(id), true
}

// canManage reports whether the user may modify the product.
func canManage(user *models.User, product *models.Product) bool {
	return user != nil && (user.ID == product.SellerID || user.IsStaff)
}

// ListProducts returns available products with search, tag filter and paging.
func (h *Handler) ListProducts(c *gin.Context) {
	search := sanitize.Clean(c.Query("search"))
	if search != "" && len(search) < config.SearchQueryMinLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query must be at least 2 characters"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	products, total, err := h.Storage.ListProducts(storage.ProductFilter{
		Search: search,
		Tag:    sanitize.Clean(c.Query("tag")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	if search != "" {
		log.Printf("INFO: product search %q matched %d products", search, total)
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total, "page": page})
}

// GetProduct returns one product. Blocked listings stay visible to the seller
// and staff only; everyone else is refused.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	product, err := h.Storage.GetProductByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if product.Status == models.ProductBlocked && !canManage(user, product) {
		c.JSON(http.StatusForbidden, gin.H{"error": "this product has been blocked"})
		return
	}

	viewerKey := c.ClientIP()
	if user != nil {
		viewerKey = fmt.Sprintf("user:%d", user.ID)
	}
	if err := h.Storage.RegisterProductView(product.ID, viewerKey); err != nil {
		log.Printf("ERROR: failed to register view for product %d: %v", product.ID, err)
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct lists a new product for the authenticated seller.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	user := middleware.CurrentUser(c)
	product := &models.Product{
		SellerID: user.ID,
		Status:   models.ProductAvailable,
		Tags:     pq.StringArray{},
	}
	req.apply(product)

	if err := h.Storage.CreateProduct(product); err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("INFO: new product %d %q listed by %s", product.ID, product.Title, user.Username)
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits a listing; seller or staff only.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	product, err := h.Storage.GetProductByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !canManage(middleware.CurrentUser(c), product) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this product"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	req.apply(product)
	if err := h.Storage.UpdateProduct(product); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a listing with its reports and room links; seller or
// staff only.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	product, err := h.Storage.GetProductByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	if !canManage(user, product) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this product"})
		return
	}

	if err := h.Storage.DeleteProduct(id); err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("INFO: product %d %q deleted by %s", product.ID, product.Title, user.Username)
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeProductStatus moves a listing through its lifecycle. Only staff may
// set or clear the blocked status.
func (h *Handler) ChangeProductStatus(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidProductStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	product, err := h.Storage.GetProductByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	if !canManage(user, product) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this product"})
		return
	}
	if (req.Status == models.ProductBlocked || product.Status == models.ProductBlocked) && !user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{"error": "only staff can change the blocked status"})
		return
	}

	product.Status = req.Status
	if err := h.Storage.UpdateProduct(product); err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("INFO: product %d status changed to %s by %s", product.ID, product.Status, user.Username)
	c.JSON(http.StatusOK, gin.H{"status": product.Status})
}

// MyProducts returns the authenticated seller's listings, optionally filtered
// by status.
func (h *Handler) MyProducts(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "all" && !models.ValidProductStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	if status == "all" {
		status = ""
	}

	products, err := h.Storage.ListProductsBySeller(middleware.CurrentUser(c).ID, status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
