package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"product-store/internal/products"

	"github.com/gin-gonic/gin"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]products.Product, error)
	CreateProduct(ctx context.Context, raw any) (products.Product, error)
	UpdateProduct(ctx context.Context, idHex string, raw any) (products.Product, error)
	DeleteProduct(ctx context.Context, idHex string) error
}

type Handler struct {
	service     ProductService
	environment string
}

func NewHandler(svc ProductService, environment string) *Handler {
	return &Handler{service: svc, environment: environment}
}

type productResponse struct {
	Success bool             `json:"success"`
	Product products.Product `json:"product"`
}

type productListResponse struct {
	Success  bool               `json:"success"`
	Products []products.Product `json:"products"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type validationResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Errors  products.FieldErrors `json:"errors"`
}

type healthResponse struct {
	Status      string    `json:"status" example:"OK"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment" example:"development"`
}

// ListProducts godoc
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productListResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	items, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, messageResponse{Success: false, Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, productListResponse{Success: true, Products: items})
}

// CreateProduct godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      products.Canonical  true  "Product fields"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  validationResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var raw any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Success: false, Message: "Invalid request body"})
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), raw)
	if err != nil {
		var vErr *products.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, validationResponse{
				Success: false,
				Message: "Validation failed",
				Errors:  vErr.Errors,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, messageResponse{Success: false, Message: "Server error"})
		return
	}

	c.JSON(http.StatusCreated, productResponse{Success: true, Product: product})
}

// UpdateProduct godoc
// @Summary      Update a product by ID
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Product ID (24-hex)"
// @Param        body  body      products.Canonical  true  "Fields to change"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  validationResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/products/{id} [patch]
func (h *Handler) UpdateProduct(c *gin.Context) {
	var raw any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Success: false, Message: "Invalid request body"})
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		h.writeUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, productResponse{Success: true, Product: product})
}

func (h *Handler) writeUpdateError(c *gin.Context, err error) {
	var vErr *products.ValidationError
	switch {
	case errors.Is(err, products.ErrInvalidID):
		c.JSON(http.StatusBadRequest, messageResponse{Success: false, Message: "Invalid product ID format"})
	case errors.Is(err, products.ErrNotFound):
		c.JSON(http.StatusNotFound, messageResponse{Success: false, Message: "Product not found"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, validationResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  vErr.Errors,
		})
	default:
		c.JSON(http.StatusInternalServerError, messageResponse{Success: false, Message: "Server error"})
	}
}

// DeleteProduct godoc
// @Summary      Delete a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID (24-hex)"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	err := h.service.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, products.ErrInvalidID):
			c.JSON(http.StatusBadRequest, messageResponse{Success: false, Message: "Invalid product ID format"})
		case errors.Is(err, products.ErrNotFound):
			c.JSON(http.StatusNotFound, messageResponse{Success: false, Message: "Product not found"})
		default:
			c.JSON(http.StatusInternalServerError, messageResponse{Success: false, Message: "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Product deleted successfully"})
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC(),
		Environment: h.environment,
	})
}
