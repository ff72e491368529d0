package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"regexp"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CatalogUsecase struct {
	tx         repo.TransactionManager
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	reviews    repo.ReviewRepository
	sizeCharts repo.SizeChartRepository
	clock      Clock
	logger     *slog.Logger
}

// DI
func NewCatalogUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	inventory repo.InventoryRepository,
	reviews repo.ReviewRepository,
	sizeCharts repo.SizeChartRepository,
	clock Clock,
	logger *slog.Logger,
) *CatalogUsecase {
	return &CatalogUsecase{
		tx:         tx,
		products:   products,
		inventory:  inventory,
		reviews:    reviews,
		sizeCharts: sizeCharts,
		clock:      clock,
		logger:     logger,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category != "" && !model.Category(in.Category).Valid() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.products.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: in.Category,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []model.Product{}
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 商品詳細（variantから作ったsize/colorと評価の平均つき）
type ProductDetailOutput struct {
	model.Product
	Slug          string         `json:"slug"`
	Sizes         []string       `json:"sizes"`
	Colors        []string       `json:"colors"`
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
	ReviewCount   int            `json:"review_count"`
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.products.FindByIDWithVariants(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	reviews, err := u.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	sizes := make([]string, 0, len(p.Variants))
	colors := make([]string, 0, len(p.Variants))
	seenSize := map[string]bool{}
	seenColor := map[string]bool{}
	for _, v := range p.Variants {
		if !seenSize[v.Size] {
			seenSize[v.Size] = true
			sizes = append(sizes, v.Size)
		}
		if !seenColor[v.Color] {
			seenColor[v.Color] = true
			colors = append(colors, v.Color)
		}
	}

	return ProductDetailOutput{
		Product:       p,
		Slug:          Slugify(p.Name),
		Sizes:         sizes,
		Colors:        colors,
		Reviews:       reviews,
		AverageRating: averageRating(reviews),
		ReviewCount:   len(reviews),
	}, nil
}

var spaceRe = regexp.MustCompile(`\s+`)

// 商品名からURL用のslugを作る
func Slugify(name string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// 小数1桁に丸める
func averageRating(rs []model.Review) float64 {
	if len(rs) == 0 {
		return 0
	}
	var sum int
	for _, r := range rs {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(rs))*10) / 10
}

func (u *CatalogUsecase) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rs, err := u.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if rs == nil {
		rs = []model.Review{}
	}
	return rs, nil
}

type AddReviewInput struct {
	Rating  int
	Comment string
	Author  string
}

func (u *CatalogUsecase) AddReview(ctx context.Context, productID int64, in AddReviewInput) (model.Review, error) {
	if productID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be 1..5")
	}
	comment := strings.TrimSpace(in.Comment)
	if len([]rune(comment)) > 1000 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "comment too long")
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = "Anonymous"
	}
	if len([]rune(author)) > 100 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "author too long")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	r, err := u.reviews.Create(ctx, model.Review{
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   comment,
		Author:    author,
		CreatedAt: u.clock.Now(),
	})
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return r, nil
}

func (u *CatalogUsecase) GetSizeChart(ctx context.Context, category string) (model.SizeChart, error) {
	c := model.Category(strings.ToLower(strings.TrimSpace(category)))
	if !c.Valid() {
		return model.SizeChart{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	sc, err := u.sizeCharts.FindByCategory(ctx, c)
	if errors.Is(err, repo.ErrNotFound) {
		return model.SizeChart{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.SizeChart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sc, nil
}

func (u *CatalogUsecase) UpsertSizeChart(ctx context.Context, chart model.SizeChart) error {
	chart.Category = model.Category(strings.ToLower(strings.TrimSpace(string(chart.Category))))
	if !chart.Category.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if len(chart.Rows) == 0 {
		return NewHTTPError(http.StatusBadRequest, "rows required")
	}
	if chart.Unit == "" {
		chart.Unit = "in"
	}
	chart.UpdatedAt = u.clock.Now()
	if err := u.sizeCharts.Upsert(ctx, chart); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type AdminVariantInput struct {
	Size  string
	Color string
	Stock int64
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       int64
	Image       string
	Category    string
	Fabric      string
	Fit         string
	IsActive    bool
	Variants    []AdminVariantInput
}

func validateProductInput(in *AdminProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		//未指定なら名前から決める
		in.Category = string(NormalizeCategory(in.Name))
	}
	if !model.Category(in.Category).Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	for i := range in.Variants {
		v := &in.Variants[i]
		v.Size = strings.TrimSpace(v.Size)
		v.Color = strings.TrimSpace(v.Color)
		if v.Size == "" {
			return NewHTTPError(http.StatusBadRequest, "variant size required")
		}
		if v.Color == "" {
			v.Color = "multicolor"
		}
		if v.Stock < 0 {
			return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
		}
	}
	return nil
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, in AdminProductInput) (int64, error) {
	if err := validateProductInput(&in); err != nil {
		return 0, err
	}

	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := u.clock.Now()
		p, err := r.Products().Create(ctx, model.Product{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			Image:       strings.TrimSpace(in.Image),
			Category:    model.Category(in.Category),
			Fabric:      strings.TrimSpace(in.Fabric),
			Fit:         strings.TrimSpace(in.Fit),
			IsActive:    in.IsActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		vs := make([]model.Variant, 0, len(in.Variants))
		for _, v := range in.Variants {
			vs = append(vs, model.Variant{Size: v.Size, Color: v.Color, Stock: v.Stock})
		}
		if err := r.Inventory().CreateVariants(ctx, p.ID, vs); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewHTTPError(http.StatusConflict, "duplicate variant")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		id = p.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	u.logger.Info("product created", "product_id", id, "category", in.Category)
	return id, nil
}

// variantsはここでは触らない（在庫は SetVariantStock で）
func (u *CatalogUsecase) UpdateProduct(ctx context.Context, productID int64, in AdminProductInput) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	in.Variants = nil
	if err := validateProductInput(&in); err != nil {
		return err
	}

	err := u.products.Update(ctx, model.Product{
		ID:          productID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       strings.TrimSpace(in.Image),
		Category:    model.Category(in.Category),
		Fabric:      strings.TrimSpace(in.Fabric),
		Fit:         strings.TrimSpace(in.Fit),
		IsActive:    in.IsActive,
		UpdatedAt:   u.clock.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CatalogUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.products.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// バリアントの在庫を設定する（履歴と監査ログも同じtxで残す）
func (u *CatalogUsecase) SetVariantStock(ctx context.Context, actor string, variantID int64, newStock int64, reason string) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if variantID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid variant id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		v, err := r.Inventory().FindVariant(ctx, variantID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().SetStock(ctx, variantID, newStock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			VariantID: variantID,
			Delta:     newStock - v.Stock,
			Reason:    reason,
			CreatedAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceVariant,
			ResourceID:   variantID,
			BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, v.Stock),
			AfterJSON:    fmt.Sprintf(`{"stock":%d}`, newStock),
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// カテゴリを直した1件分
type CategoryChange struct {
	ProductID int64          `json:"product_id"`
	Name      string         `json:"name"`
	From      model.Category `json:"from"`
	To        model.Category `json:"to"`
}

// NormalizeCategories は全商品の名前からカテゴリを決め直す。変わったものだけ更新する。
func (u *CatalogUsecase) NormalizeCategories(ctx context.Context, actor string) ([]CategoryChange, error) {
	changes := []CategoryChange{}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		products, err := r.Products().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()
		for _, p := range products {
			next := NormalizeCategory(p.Name)
			if next == p.Category {
				continue
			}
			if err := r.Products().UpdateCategory(ctx, p.ID, next); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				Actor:        actor,
				Action:       model.AuditActionNormalizeCategory,
				ResourceType: model.AuditResourceProduct,
				ResourceID:   p.ID,
				BeforeJSON:   `{"category":"` + string(p.Category) + `"}`,
				AfterJSON:    `{"category":"` + string(next) + `"}`,
				CreatedAt:    now,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			changes = append(changes, CategoryChange{ProductID: p.ID, Name: p.Name, From: p.Category, To: next})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range changes {
		u.logger.Info("category normalized", "product_id", c.ProductID, "name", c.Name, "from", c.From, "to", c.To)
	}
	return changes, nil
}

var (
	modernCodeRe  = regexp.MustCompile(`^a\d+$`)
	classicCodeRe = regexp.MustCompile(`^b\d+$`)
)

// NormalizeCategory は商品名からカテゴリを決める。
// shirtを含む → shirt、パンツ系（pant/gurkha/A1,B2のような型番）→ modern か classic、それ以外 → shirt。
func NormalizeCategory(name string) model.Category {
	n := strings.ToLower(strings.TrimSpace(name))

	if strings.Contains(n, "shirt") {
		return model.CategoryShirt
	}

	isPant := strings.Contains(n, "pant") ||
		strings.Contains(n, "gurkha") ||
		modernCodeRe.MatchString(n) ||
		classicCodeRe.MatchString(n)
	if !isPant {
		return model.CategoryShirt
	}

	switch {
	case modernCodeRe.MatchString(n):
		return model.CategoryModern
	case classicCodeRe.MatchString(n):
		return model.CategoryClassic
	case strings.Contains(n, "classic"):
		return model.CategoryClassic
	default:
		return model.CategoryModern
	}
}
