package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "artisan-store/internal/handler/dto/request"
	resdto "artisan-store/internal/handler/dto/response"
	"artisan-store/internal/handler/httperr"
	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	productCmds  commands.ProductCommands
	categoryCmds commands.CategoryCommands
	productQ     queries.ProductQueries
	categoryQ    queries.CategoryQueries
}

func NewCatalogHandler(
	productCmds commands.ProductCommands,
	categoryCmds commands.CategoryCommands,
	productQ queries.ProductQueries,
	categoryQ queries.CategoryQueries,
) *CatalogHandler {
	return &CatalogHandler{
		productCmds:  productCmds,
		categoryCmds: categoryCmds,
		productQ:     productQ,
		categoryQ:    categoryQ,
	}
}

// @Summary List products
// @Description List products with optional filters and keyset pagination
// @Tags catalog
// @Produce json
// @Param category_id query string false "Filter by category"
// @Param in_stock query bool false "Only in-stock products"
// @Param on_offer query bool false "Only products with an active offer price"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter queries.ProductFilter
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category id", nil)
			return
		}
		filter.CategoryID = &id
	}
	filter.InStockOnly = c.Query("in_stock") == "true"
	filter.OnOfferOnly = c.Query("on_offer") == "true"

	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	views, next, err := h.productQ.List(c.Request.Context(), filter, cursor, limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list products", nil)
		return
	}

	resp := gin.H{"products": resdto.FromProductList(views)}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get product
// @Description Get a product by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product id", nil)
		return
	}

	view, err := h.productQ.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrProductNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load product", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

// @Summary List categories
// @Description List all categories with product counts
// @Tags catalog
// @Produce json
// @Success 200 {array} resdto.CategoryResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	views, err := h.categoryQ.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list categories", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": resdto.FromCategoryList(views)})
}

// @Summary Get category
// @Description Get a category by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} resdto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category id", nil)
		return
	}

	view, err := h.categoryQ.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrCategoryNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Category not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load category", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCategoryView(view))
}

// @Summary Create product
// @Description Create a product (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ProductRequest true "Product"
// @Success 201 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req reqdto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.productCmds.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.abortProductCommandError(c, err)
		return
	}

	view, err := h.productQ.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load product", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromProductView(view))
}

// @Summary Update product
// @Description Update a product (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body reqdto.ProductRequest true "Product"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product id", nil)
		return
	}
	var req reqdto.ProductRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := h.productCmds.Update(c.Request.Context(), id, req.ToInput()); err != nil {
		h.abortProductCommandError(c, err)
		return
	}

	view, err := h.productQ.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load product", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

// @Summary Delete product
// @Description Delete a product (admin)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product id", nil)
		return
	}
	if err := h.productCmds.Delete(c.Request.Context(), id); err != nil {
		h.abortProductCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create category
// @Description Create a category (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CategoryRequest true "Category"
// @Success 201 {object} resdto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req reqdto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.categoryCmds.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.abortCategoryCommandError(c, err)
		return
	}

	view, err := h.categoryQ.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load category", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCategoryView(view))
}

// @Summary Update category
// @Description Update a category (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body reqdto.CategoryRequest true "Category"
// @Success 200 {object} resdto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category id", nil)
		return
	}
	var req reqdto.CategoryRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := h.categoryCmds.Update(c.Request.Context(), id, req.Name, req.Description); err != nil {
		h.abortCategoryCommandError(c, err)
		return
	}

	view, err := h.categoryQ.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load category", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCategoryView(view))
}

// @Summary Delete category
// @Description Delete a category with no products (admin)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category id", nil)
		return
	}
	if err := h.categoryCmds.Delete(c.Request.Context(), id); err != nil {
		h.abortCategoryCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) abortProductCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrProductNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
	case errors.Is(err, commands.ErrUnknownCategory):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Category does not exist", nil)
	case errors.Is(err, commands.ErrProductValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Product validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *CatalogHandler) abortCategoryCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCategoryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Category not found", nil)
	case errors.Is(err, commands.ErrCategoryNameTaken):
		httperr.AbortWithError(c, http.StatusConflict, err, "Category name already in use", nil)
	case errors.Is(err, commands.ErrCategoryInUse):
		httperr.AbortWithError(c, http.StatusConflict, err, "Category still has products", nil)
	case errors.Is(err, commands.ErrCategoryValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Category validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
