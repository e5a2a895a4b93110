package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/pricing"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/internal/stocklock"
	"waterlife-backoffice/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PurchaseService interface {
	Create(ctx context.Context, req *CreatePurchaseRequest, actor Actor) (*model.Purchase, error)
	GetAll(ctx context.Context) ([]model.Purchase, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	Summary(ctx context.Context) (*PurchaseSummary, error)
	Recent(ctx context.Context) ([]model.Purchase, error)
}

type PurchaseLineRequest struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id" validate:"uuid_required"`
	Quantity      int             `json:"quantity" validate:"gt=0,max=1000000"`
	UnitCost      decimal.Decimal `json:"unit_cost" validate:"decimal_gte0"`
}

type CreatePurchaseRequest struct {
	SupplierID  uuid.UUID             `json:"supplier_id" validate:"uuid_required"`
	PurchasedAt *time.Time            `json:"purchased_at"`
	Lines       []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type MonthTotal struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type PurchaseSummary struct {
	TotalLastMonth decimal.Decimal `json:"total_last_month"`
	ByMonth        []MonthTotal    `json:"by_month"`
}

const recentLimit = 5

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	materialRepo repository.RawMaterialRepository
	supplierRepo repository.SupplierRepository
	db           *gorm.DB
	locker       stocklock.Locker
	events       ws.Publisher
	log          *zap.Logger
	now          func() time.Time
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	materialRepo repository.RawMaterialRepository,
	supplierRepo repository.SupplierRepository,
	db *gorm.DB,
	locker stocklock.Locker,
	events ws.Publisher,
	log *zap.Logger,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		materialRepo: materialRepo,
		supplierRepo: supplierRepo,
		db:           db,
		locker:       locker,
		events:       events,
		log:          log.Named("purchases"),
		now:          time.Now,
	}
}

func uniqueSortedIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	pricing.SortIDs(out)
	return out
}

// Create records the purchase and blends every line into its raw material's
// weighted-average cost. Either every line applies or none does.
func (s *purchaseService) Create(ctx context.Context, req *CreatePurchaseRequest, actor Actor) (*model.Purchase, error) {
	// 1. Validate before touching anything
	if err := validate(req); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationError("supplier %s does not exist", req.SupplierID)
		}
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, l := range req.Lines {
		ids = append(ids, l.RawMaterialID)
	}
	ids = uniqueSortedIDs(ids)

	// 2. Serialize with other writers of the same raw materials
	release, err := s.locker.Acquire(ctx, ids)
	if err != nil {
		return nil, err
	}
	defer release()

	purchase := &model.Purchase{
		PurchasedAt: s.now(),
		SupplierID:  supplier.ID,
		Total:       decimal.Zero,
	}
	if req.PurchasedAt != nil {
		purchase.PurchasedAt = *req.PurchasedAt
	}
	purchase.CreatedBy = actor.audit()
	purchase.UpdatedBy = actor.audit()

	var updated []model.RawMaterial
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 3. Lock rows and check every raw material exists
		materials, err := s.materialRepo.LockByIDs(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*model.RawMaterial, len(materials))
		for i := range materials {
			byID[materials[i].ID] = &materials[i]
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return validationError("raw material %s does not exist", id)
			}
		}

		// 4. Blend lines in order; a raw material may appear more than once
		versions := make(map[uuid.UUID]int64, len(materials))
		for _, m := range materials {
			versions[m.ID] = m.Version
		}
		for _, l := range req.Lines {
			m := byID[l.RawMaterialID]
			next, err := pricing.WeightedAverageCost(m.Stock, m.AverageCost, l.Quantity, l.UnitCost)
			if err != nil {
				return validationError("raw material %s: %v", m.Name, err)
			}
			m.Stock = next.Stock
			m.AverageCost = next.AverageCost.Round(6)

			line := model.PurchaseLine{RawMaterialID: l.RawMaterialID, Quantity: l.Quantity, UnitCost: l.UnitCost}
			purchase.Lines = append(purchase.Lines, line)
			purchase.Total = purchase.Total.Add(line.Subtotal())
		}

		// 5. Persist stock and cost, then the purchase itself
		for _, id := range ids {
			m := byID[id]
			if err := s.materialRepo.ApplyPurchase(tx, id, versions[id], m.Stock, m.AverageCost, actor.audit()); err != nil {
				if errors.Is(err, repository.ErrStaleVersion) {
					return conflictError("raw material %s changed concurrently, retry the purchase", m.Name)
				}
				return err
			}
			m.Version = versions[id] + 1
			updated = append(updated, *m)
		}
		return s.purchaseRepo.Create(tx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("supplier", supplier.Name),
		zap.Int("lines", len(purchase.Lines)),
		zap.String("total", purchase.Total.String()),
	)
	s.publish(purchase, supplier, updated, actor)

	return s.GetByID(ctx, purchase.ID)
}

func (s *purchaseService) publish(p *model.Purchase, supplier *model.Supplier, materials []model.RawMaterial, actor Actor) {
	stock := make([]map[string]interface{}, 0, len(materials))
	for _, m := range materials {
		stock = append(stock, map[string]interface{}{
			"id":           m.ID,
			"name":         m.Name,
			"stock":        m.Stock,
			"average_cost": m.AverageCost,
		})
	}
	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "purchase_created",
		Payload: map[string]interface{}{
			"purchase_id":   p.ID,
			"supplier":      supplier.Name,
			"total":         p.Total,
			"raw_materials": stock,
		},
		Message: actor.Name + " registered a purchase from " + supplier.Name,
	})
}

func (s *purchaseService) GetAll(ctx context.Context) ([]model.Purchase, error) {
	return s.purchaseRepo.FindAll(ctx)
}

func (s *purchaseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "purchase")
	}
	return purchase, nil
}

func (s *purchaseService) Recent(ctx context.Context) ([]model.Purchase, error) {
	return s.purchaseRepo.FindRecent(ctx, recentLimit)
}

// Summary totals the purchases of the last month and of every calendar month.
func (s *purchaseService) Summary(ctx context.Context) (*PurchaseSummary, error) {
	now := s.now()
	purchases, err := s.purchaseRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &PurchaseSummary{TotalLastMonth: decimal.Zero}
	since := now.AddDate(0, -1, 0)
	months := make(map[string]*MonthTotal)
	for _, p := range purchases {
		if !p.PurchasedAt.Before(since) {
			summary.TotalLastMonth = summary.TotalLastMonth.Add(p.Total)
		}
		key := p.PurchasedAt.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &MonthTotal{Month: key, Total: decimal.Zero}
			months[key] = m
		}
		m.Total = m.Total.Add(p.Total)
		m.Count++
	}
	summary.ByMonth = sortedMonths(months)
	return summary, nil
}

func sortedMonths(months map[string]*MonthTotal) []MonthTotal {
	out := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
