package service

import (
	"context"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, req *SupplierRequest, actor Actor) (*model.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor Actor) (*model.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]model.Supplier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
}

type SupplierRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Company string `json:"company" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email,max=100"`
	Phone   string `json:"phone" validate:"max=20"`
	Address string `json:"address"`
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req *SupplierRequest, actor Actor) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	supplier := &model.Supplier{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	supplier.CreatedBy = actor.audit()
	supplier.UpdatedBy = actor.audit()
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor Actor) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.Company = req.Company
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.UpdatedBy = actor.audit()
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete refuses while any purchase references the supplier.
func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountPurchases(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflictError("supplier has %d purchase(s) and cannot be deleted", count)
	}
	return s.repo.Delete(ctx, id)
}

func (s *supplierService) GetAll(ctx context.Context) ([]model.Supplier, error) {
	return s.repo.FindAll(ctx)
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier")
	}
	return supplier, nil
}
