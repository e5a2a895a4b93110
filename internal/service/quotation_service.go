package service

import (
	"context"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/notify"
	"waterlife-backoffice/internal/pricing"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QuotationService interface {
	Create(ctx context.Context, req *CreateQuotationRequest) (*model.Quotation, error)
	GetAll(ctx context.Context) ([]model.Quotation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
}

type QuotationLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0,max=1000000"`
}

type CreateQuotationRequest struct {
	FullName string                 `json:"full_name" validate:"required,max=255"`
	Email    string                 `json:"email" validate:"required,email"`
	Phone    string                 `json:"phone" validate:"required,max=30"`
	Company  string                 `json:"company" validate:"max=255"`
	Lines    []QuotationLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type quotationService struct {
	quotationRepo repository.QuotationRepository
	productRepo   repository.ProductRepository
	notifier      notify.Notifier
	events        ws.Publisher
	log           *zap.Logger
}

func NewQuotationService(quotationRepo repository.QuotationRepository, productRepo repository.ProductRepository, notifier notify.Notifier, events ws.Publisher, log *zap.Logger) QuotationService {
	return &quotationService{
		quotationRepo: quotationRepo,
		productRepo:   productRepo,
		notifier:      notifier,
		events:        events,
		log:           log.Named("quotations"),
	}
}

// Create prices every line at the current product price, stores the quotation
// and then emails the stored copy to the requester and the back office.
func (s *quotationService) Create(ctx context.Context, req *CreateQuotationRequest) (*model.Quotation, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, l := range req.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	quotation := &model.Quotation{
		FullName: req.FullName,
		Email:    normalizeEmail(req.Email),
		Phone:    req.Phone,
		Company:  req.Company,
	}
	priced := make([]pricing.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, validationError("product %s does not exist", l.ProductID)
		}
		quotation.Lines = append(quotation.Lines, model.QuotationLine{ProductID: p.ID, Quantity: l.Quantity, UnitPrice: p.Price})
		priced = append(priced, pricing.Line{UnitPrice: p.Price, Quantity: l.Quantity})
	}
	if quotation.Total, err = pricing.Total(priced); err != nil {
		return nil, validationError("%v", err)
	}
	quotation.CreatedBy = quotation.Email

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, err
	}

	// Both emails are rendered from the stored quotation
	stored, err := s.GetByID(ctx, quotation.ID)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.SendQuotationEmails(ctx, stored); err != nil {
		s.log.Error("quotation emails failed", zap.String("quotation_id", stored.ID.String()), zap.String("to", stored.Email), zap.Error(err))
	}
	s.events.Publish(ws.Event{
		Type:   "quotation",
		Action: "quotation_created",
		Payload: map[string]interface{}{
			"quotation_id": stored.ID,
			"full_name":    stored.FullName,
			"total":        stored.Total,
		},
	})

	return stored, nil
}

func (s *quotationService) GetAll(ctx context.Context) ([]model.Quotation, error) {
	return s.quotationRepo.FindAll(ctx)
}

func (s *quotationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "quotation")
	}
	return quotation, nil
}
