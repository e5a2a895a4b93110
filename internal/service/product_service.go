package service

import (
	"context"

	"waterlife-backoffice/internal/config"
	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/pricing"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req *ProductRequest, actor Actor) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *ProductRequest, actor Actor) (*model.Product, error)
	SetPrice(ctx context.Context, id uuid.UUID, req *SetPriceRequest, actor Actor) (*model.Product, error)
	Reprice(ctx context.Context, id uuid.UUID, actor Actor) (*model.Product, error)
	SuggestedPrice(ctx context.Context, id uuid.UUID) (*SuggestedPriceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type ComponentRequest struct {
	RawMaterialID uuid.UUID `json:"raw_material_id" validate:"uuid_required"`
	Quantity      int       `json:"quantity" validate:"gt=0,max=1000000"`
}

// ProductRequest creates or replaces a product. Price is required in manual
// pricing mode and ignored in auto mode.
type ProductRequest struct {
	Name        string             `json:"name" validate:"required,max=255"`
	Description string             `json:"description"`
	Price       *decimal.Decimal   `json:"price"`
	Components  []ComponentRequest `json:"components" validate:"dive"`
}

type SetPriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"decimal_gt0"`
}

type ComponentPrice struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	AverageCost   decimal.Decimal `json:"average_cost"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	LinePrice     decimal.Decimal `json:"line_price"`
}

type SuggestedPriceResponse struct {
	ProductID      uuid.UUID        `json:"product_id"`
	CurrentPrice   decimal.Decimal  `json:"current_price"`
	SuggestedPrice decimal.Decimal  `json:"suggested_price"`
	Components     []ComponentPrice `json:"components"`
}

type productService struct {
	productRepo  repository.ProductRepository
	materialRepo repository.RawMaterialRepository
	db           *gorm.DB
	mode         string
	events       ws.Publisher
	log          *zap.Logger
}

func NewProductService(productRepo repository.ProductRepository, materialRepo repository.RawMaterialRepository, db *gorm.DB, mode string, events ws.Publisher, log *zap.Logger) ProductService {
	return &productService{
		productRepo:  productRepo,
		materialRepo: materialRepo,
		db:           db,
		mode:         mode,
		events:       events,
		log:          log.Named("products"),
	}
}

// pricingComponents resolves the bill of materials of a product loaded with its raw materials.
func pricingComponents(components []model.ProductComponent) []pricing.Component {
	out := make([]pricing.Component, 0, len(components))
	for _, c := range components {
		pc := pricing.Component{RawMaterialID: c.RawMaterialID, Quantity: c.Quantity}
		if c.RawMaterial != nil {
			pc.Name = c.RawMaterial.Name
			pc.AverageCost = c.RawMaterial.AverageCost
			pc.MarginPercent = c.RawMaterial.MarginPercent
			pc.Stock = c.RawMaterial.Stock
		}
		out = append(out, pc)
	}
	return out
}

func storedPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func withSuggestedPrice(p *model.Product) *model.Product {
	suggested := storedPrice(pricing.SuggestedPrice(pricingComponents(p.Components)))
	p.SuggestedPrice = &suggested
	return p
}

// resolveComponents checks every referenced raw material exists and returns
// the components with their raw materials attached, in request order.
func (s *productService) resolveComponents(ctx context.Context, reqs []ComponentRequest) ([]model.ProductComponent, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.RawMaterialID)
	}
	materials, err := s.materialRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.RawMaterial, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}

	components := make([]model.ProductComponent, 0, len(reqs))
	for _, r := range reqs {
		m, ok := byID[r.RawMaterialID]
		if !ok {
			return nil, validationError("raw material %s does not exist", r.RawMaterialID)
		}
		material := m
		components = append(components, model.ProductComponent{
			RawMaterialID: r.RawMaterialID,
			RawMaterial:   &material,
			Quantity:      r.Quantity,
		})
	}
	return components, nil
}

// priceFor applies the configured pricing contract.
func (s *productService) priceFor(req *ProductRequest, components []model.ProductComponent) (decimal.Decimal, error) {
	if s.mode == config.PricingAuto {
		return storedPrice(pricing.SuggestedPrice(pricingComponents(components))), nil
	}
	if req.Price == nil || !req.Price.IsPositive() {
		return decimal.Zero, validationError("price must be greater than zero")
	}
	if err := checkPriceScale(*req.Price); err != nil {
		return decimal.Zero, err
	}
	return *req.Price, nil
}

// checkPriceScale rejects prices the price column would round.
func checkPriceScale(price decimal.Decimal) error {
	if !price.Equal(storedPrice(price)) {
		return validationError("price %s has more than 2 decimal places", price)
	}
	return nil
}

// detach drops the loaded raw materials so inserts don't touch them.
func detach(components []model.ProductComponent) []model.ProductComponent {
	out := make([]model.ProductComponent, len(components))
	for i, c := range components {
		c.RawMaterial = nil
		out[i] = c
	}
	return out
}

func (s *productService) Create(ctx context.Context, req *ProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	components, err := s.resolveComponents(ctx, req.Components)
	if err != nil {
		return nil, err
	}
	price, err := s.priceFor(req, components)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Components:  detach(components),
	}
	product.CreatedBy = actor.audit()
	product.UpdatedBy = actor.audit()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.productRepo.Create(tx, product)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.String("product_id", product.ID.String()), zap.String("price", price.String()))
	return s.GetByID(ctx, product.ID)
}

// Update replaces the product's fields and its whole bill of materials.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *ProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	components, err := s.resolveComponents(ctx, req.Components)
	if err != nil {
		return nil, err
	}
	price, err := s.priceFor(req, components)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = price
	existing.UpdatedBy = actor.audit()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.UpdateDetails(tx, existing); err != nil {
			return err
		}
		return s.productRepo.ReplaceComponents(tx, id, detach(components))
	})
	if err != nil {
		return nil, err
	}

	s.publishPrice(existing, "product_updated", actor)
	return s.GetByID(ctx, id)
}

// SetPrice stores an explicit price unchanged.
func (s *productService) SetPrice(ctx context.Context, id uuid.UUID, req *SetPriceRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkPriceScale(req.Price); err != nil {
		return nil, err
	}
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdatePrice(ctx, id, req.Price, actor.audit()); err != nil {
		return nil, err
	}
	product.Price = req.Price
	s.publishPrice(product, "price_set", actor)
	return s.GetByID(ctx, id)
}

// Reprice stores the price derived from the current raw-material costs.
func (s *productService) Reprice(ctx context.Context, id uuid.UUID, actor Actor) (*model.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	price := *product.SuggestedPrice
	if err := s.productRepo.UpdatePrice(ctx, id, price, actor.audit()); err != nil {
		return nil, err
	}
	product.Price = price
	s.publishPrice(product, "price_recomputed", actor)
	return s.GetByID(ctx, id)
}

func (s *productService) SuggestedPrice(ctx context.Context, id uuid.UUID) (*SuggestedPriceResponse, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &SuggestedPriceResponse{
		ProductID:      product.ID,
		CurrentPrice:   product.Price,
		SuggestedPrice: *product.SuggestedPrice,
		Components:     make([]ComponentPrice, 0, len(product.Components)),
	}
	for _, c := range pricingComponents(product.Components) {
		resp.Components = append(resp.Components, ComponentPrice{
			RawMaterialID: c.RawMaterialID,
			Name:          c.Name,
			Quantity:      c.Quantity,
			AverageCost:   c.AverageCost,
			MarginPercent: c.MarginPercent,
			LinePrice:     c.LinePrice(),
		})
	}
	return resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.productRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return conflictError("product has sales or quotations and cannot be deleted")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.productRepo.Delete(tx, id)
	})
}

func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		withSuggestedPrice(&products[i])
	}
	return products, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}
	return withSuggestedPrice(product), nil
}

func (s *productService) publishPrice(p *model.Product, action string, actor Actor) {
	s.events.Publish(ws.Event{
		Type:   "price_update",
		Action: action,
		Payload: map[string]interface{}{
			"product_id": p.ID,
			"name":       p.Name,
			"price":      p.Price,
			"user":       actor.Name,
		},
	})
}
