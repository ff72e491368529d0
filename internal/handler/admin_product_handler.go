package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type VariantRequest struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int64  `json:"stock"`
}

type ProductCreateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       int64            `json:"price"`
	Image       string           `json:"image"`
	Category    string           `json:"category"`
	Fabric      string           `json:"fabric"`
	Fit         string           `json:"fit"`
	IsActive    bool             `json:"is_active"`
	Variants    []VariantRequest `json:"variants"`
}

// 在庫更新の入力
type InventoryUpdateRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

type SizeChartRequest struct {
	Unit string               `json:"unit"`
	Rows []model.SizeChartRow `json:"rows"`
}

type ProductCreatedResponse struct {
	ID int64 `json:"id"`
}

type NormalizeResponse struct {
	Changed int                      `json:"changed"`
	Changes []usecase.CategoryChange `json:"changes"`
}

// /admin/products /admin/variants /admin/size-charts /admin/catalog をまとめる
type AdminProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.CatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.PUT("/variants/:id/stock", h.updateStock)
	admin.PUT("/size-charts/:category", h.upsertSizeChart)
	admin.POST("/catalog/normalize-categories", h.normalizeCategories)
}

func toProductInput(req ProductCreateRequest) usecase.AdminProductInput {
	vs := make([]usecase.AdminVariantInput, 0, len(req.Variants))
	for _, v := range req.Variants {
		vs = append(vs, usecase.AdminVariantInput{Size: v.Size, Color: v.Color, Stock: v.Stock})
	}
	return usecase.AdminProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Fabric:      req.Fabric,
		Fit:         req.Fit,
		IsActive:    req.IsActive,
		Variants:    vs,
	}
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.CreateProduct(c.Request().Context(), toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, ProductCreatedResponse{ID: id})
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateProduct(c.Request().Context(), id, toProductInput(req)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminProductHandler) updateStock(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req InventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := getSubjectFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.SetVariantStock(c.Request().Context(), actor, variantID, req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock updated"})
}

func (h *AdminProductHandler) upsertSizeChart(c echo.Context) error {
	var req SizeChartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.UpsertSizeChart(c.Request().Context(), model.SizeChart{
		Category: model.Category(c.Param("category")),
		Unit:     req.Unit,
		Rows:     req.Rows,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "saved"})
}

func (h *AdminProductHandler) normalizeCategories(c echo.Context) error {
	actor, ok := getSubjectFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	changes, err := h.uc.NormalizeCategories(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, NormalizeResponse{Changed: len(changes), Changes: changes})
}
