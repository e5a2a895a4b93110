package service

import (
	"context"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RawMaterialService interface {
	Create(ctx context.Context, req *RawMaterialRequest, actor Actor) (*model.RawMaterial, error)
	Update(ctx context.Context, id uuid.UUID, req *RawMaterialRequest, actor Actor) (*model.RawMaterial, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]model.RawMaterial, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error)
}

// RawMaterialRequest carries the descriptive fields. Stock and cost are only
// ever changed by purchases and sales.
type RawMaterialRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Unit          string          `json:"unit" validate:"max=20"`
	MarginPercent decimal.Decimal `json:"margin_percent" validate:"decimal_gte0"`
}

type rawMaterialService struct {
	repo repository.RawMaterialRepository
	log  *zap.Logger
}

func NewRawMaterialService(repo repository.RawMaterialRepository, log *zap.Logger) RawMaterialService {
	return &rawMaterialService{repo: repo, log: log.Named("raw_materials")}
}

func (s *rawMaterialService) Create(ctx context.Context, req *RawMaterialRequest, actor Actor) (*model.RawMaterial, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	material := &model.RawMaterial{
		Name:          req.Name,
		Unit:          req.Unit,
		AverageCost:   decimal.Zero,
		MarginPercent: req.MarginPercent,
	}
	material.CreatedBy = actor.audit()
	material.UpdatedBy = actor.audit()

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *rawMaterialService) Update(ctx context.Context, id uuid.UUID, req *RawMaterialRequest, actor Actor) (*model.RawMaterial, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	material, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	material.Name = req.Name
	material.Unit = req.Unit
	material.MarginPercent = req.MarginPercent
	material.UpdatedBy = actor.audit()
	if err := s.repo.UpdateDetails(ctx, material); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *rawMaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return conflictError("raw material is used by products or purchases")
	}
	return s.repo.Delete(ctx, id)
}

func (s *rawMaterialService) GetAll(ctx context.Context) ([]model.RawMaterial, error) {
	return s.repo.FindAll(ctx)
}

func (s *rawMaterialService) GetByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "raw material")
	}
	return material, nil
}
