package service

import (
	"bytes"
	"context"
	"time"

	"waterlife-backoffice/internal/repository"

	"github.com/xuri/excelize/v2"
)

const salesSheet = "Ventas"

type ExportService interface {
	// SalesWorkbook writes the sales with from <= sold_at < to as an xlsx workbook.
	SalesWorkbook(ctx context.Context, from, to time.Time) ([]byte, error)
}

type exportService struct {
	saleRepo repository.SaleRepository
}

func NewExportService(saleRepo repository.SaleRepository) ExportService {
	return &exportService{saleRepo: saleRepo}
}

var salesHeadings = []string{"Fecha", "Pedido", "Cliente", "Email", "Producto", "Cantidad", "Precio Unitario", "Total", "Estado"}

func (s *exportService) SalesWorkbook(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !from.Before(to) {
		return nil, validationError("from must be before to")
	}
	sales, err := s.saleRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, err
	}

	// Add headers
	for i, h := range salesHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(salesSheet, cell, h); err != nil {
			return nil, err
		}
	}

	// Add data
	for i, sale := range sales {
		customer, email, product := "", "", ""
		if sale.Customer != nil {
			customer, email = sale.Customer.Name, sale.Customer.Email
		}
		if sale.Product != nil {
			product = sale.Product.Name
		}
		unitPrice, _ := sale.UnitPrice.Float64()
		total, _ := sale.Total.Float64()

		values := []interface{}{
			sale.SoldAt.Format("2006-01-02 15:04"),
			sale.ID.String(),
			customer,
			email,
			product,
			sale.Quantity,
			unitPrice,
			total,
			sale.Status,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(salesSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
