package service

import (
	"context"
	"errors"
	"time"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/notify"
	"waterlife-backoffice/internal/pricing"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/internal/stocklock"
	"waterlife-backoffice/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleService interface {
	Create(ctx context.Context, req *CreateSaleRequest, actor Actor) (*SaleResult, error)
	GetAll(ctx context.Context) ([]model.SaleResponse, error)
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SaleResponse, error)
	ProductsBoughtBy(ctx context.Context, customerID uuid.UUID) ([]model.ProductRef, error)
}

type CreateSaleRequest struct {
	ProductID  uuid.UUID `json:"product_id" validate:"uuid_required"`
	CustomerID uuid.UUID `json:"customer_id" validate:"uuid_required"`
	Quantity   int       `json:"quantity" validate:"gt=0,max=1000000"`
}

// SaleResult is the committed sale plus what it took from stock.
type SaleResult struct {
	Sale     model.SaleResponse    `json:"sale"`
	Consumed []pricing.Consumption `json:"consumed"`
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	materialRepo repository.RawMaterialRepository
	identity     IdentityProvider
	db           *gorm.DB
	locker       stocklock.Locker
	notifier     notify.Notifier
	events       ws.Publisher
	log          *zap.Logger
	now          func() time.Time
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	materialRepo repository.RawMaterialRepository,
	identity IdentityProvider,
	db *gorm.DB,
	locker stocklock.Locker,
	notifier notify.Notifier,
	events ws.Publisher,
	log *zap.Logger,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		materialRepo: materialRepo,
		identity:     identity,
		db:           db,
		locker:       locker,
		notifier:     notifier,
		events:       events,
		log:          log.Named("sales"),
		now:          time.Now,
	}
}

// Create sells Quantity units of a product to a client. Stock for every
// component is checked against locked rows and decremented in the same
// transaction as the sale insert; any shortage aborts the whole sale.
func (s *saleService) Create(ctx context.Context, req *CreateSaleRequest, actor Actor) (*SaleResult, error) {
	// 1. Requested: reject bad input before any stock check
	if err := validate(req); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}
	customer, err := s.identity.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.HasRole(model.RoleClient) {
		return nil, validationError("user %s is not a client", customer.Email)
	}

	ids := make([]uuid.UUID, 0, len(product.Components))
	for _, c := range product.Components {
		ids = append(ids, c.RawMaterialID)
	}
	ids = uniqueSortedIDs(ids)

	release, err := s.locker.Acquire(ctx, ids)
	if err != nil {
		return nil, err
	}
	defer release()

	sale := &model.Sale{
		ProductID:  product.ID,
		CustomerID: customer.ID,
		Quantity:   req.Quantity,
		UnitPrice:  product.Price,
		Total:      product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:     model.SaleStatusCompleted,
	}
	if actor.ID != uuid.Nil {
		adminID := actor.ID
		sale.CreatedByAdminID = &adminID
	}
	sale.CreatedBy = actor.audit()
	sale.UpdatedBy = actor.audit()

	var consumed []pricing.Consumption
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 2. Validated: check all components against fresh, locked stock
		materials, err := s.materialRepo.LockByIDs(tx, ids)
		if err != nil {
			return err
		}
		fresh := make(map[uuid.UUID]model.RawMaterial, len(materials))
		for _, m := range materials {
			fresh[m.ID] = m
		}
		components := pricingComponents(product.Components)
		for i := range components {
			m, ok := fresh[components[i].RawMaterialID]
			if !ok {
				return conflictError("raw material %s no longer exists", components[i].RawMaterialID)
			}
			components[i].Name = m.Name
			components[i].Stock = m.Stock
		}

		plan, shortages, err := pricing.PlanConsumption(components, req.Quantity)
		if err != nil {
			return validationError("%v", err)
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Shortages: shortages}
		}

		// 3. Committed: decrement every raw material, then record the sale
		for _, c := range plan {
			if err := s.materialRepo.DecrementStock(tx, c.RawMaterialID, c.Required, actor.audit()); err != nil {
				if errors.Is(err, repository.ErrStockChanged) {
					return &InsufficientStockError{Shortages: []pricing.Shortage{{
						RawMaterialID: c.RawMaterialID, Name: c.Name, Available: c.Remaining + c.Required, Required: c.Required,
					}}}
				}
				return err
			}
		}
		sale.SoldAt = s.now()
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}
		consumed = plan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.Total.String()),
	)

	// 4. Post-commit side effects never undo the sale
	if err := s.notifier.SendSaleConfirmation(ctx, sale, customer, product); err != nil {
		s.log.Error("sale confirmation failed", zap.String("sale_id", sale.ID.String()), zap.String("to", customer.Email), zap.Error(err))
	}
	s.publish(sale, product, consumed, actor)

	sale.Product = product
	sale.Customer = customer
	if sale.CreatedByAdminID != nil {
		sale.CreatedByAdmin = &model.User{BaseModel: model.BaseModel{ID: actor.ID}, Name: actor.Name, Email: actor.Email}
	}
	if consumed == nil {
		consumed = []pricing.Consumption{}
	}
	return &SaleResult{Sale: sale.ToResponse(), Consumed: consumed}, nil
}

func (s *saleService) publish(sale *model.Sale, product *model.Product, consumed []pricing.Consumption, actor Actor) {
	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "sale_created",
		Payload: map[string]interface{}{
			"sale_id":  sale.ID,
			"product":  product.Name,
			"quantity": sale.Quantity,
			"total":    sale.Total,
			"consumed": consumed,
		},
		Message: actor.Name + " sold " + product.Name,
	})
}

func toSaleResponses(sales []model.Sale) []model.SaleResponse {
	out := make([]model.SaleResponse, len(sales))
	for i := range sales {
		out[i] = sales[i].ToResponse()
	}
	return out
}

func (s *saleService) GetAll(ctx context.Context) ([]model.SaleResponse, error) {
	sales, err := s.saleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(sales), nil
}

func (s *saleService) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SaleResponse, error) {
	if _, err := s.identity.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(sales), nil
}

func (s *saleService) ProductsBoughtBy(ctx context.Context, customerID uuid.UUID) ([]model.ProductRef, error) {
	products, err := s.saleRepo.ProductsBoughtBy(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProductRef, len(products))
	for i := range products {
		out[i] = *products[i].Ref()
	}
	return out, nil
}
