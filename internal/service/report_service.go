package service

import (
	"context"
	"time"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportService interface {
	SalesSummary(ctx context.Context) (*SalesSummary, error)
	RecentSales(ctx context.Context) ([]model.SaleResponse, error)
	MonthlySales(ctx context.Context) ([]MonthTotal, error)
	TopClients(ctx context.Context) ([]repository.ClientTotal, error)
	TopProducts(ctx context.Context) ([]repository.ProductTotal, error)
}

type SalesSummary struct {
	MonthTotal  decimal.Decimal `json:"month_total"`
	YearTotal   decimal.Decimal `json:"year_total"`
	TodayCount  int64           `json:"today_count"`
	YearAverage decimal.Decimal `json:"year_average"`
}

type reportService struct {
	saleRepo repository.SaleRepository
	now      func() time.Time
}

func NewReportService(saleRepo repository.SaleRepository) ReportService {
	return &reportService{saleRepo: saleRepo, now: time.Now}
}

func (s *reportService) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	now := s.now()
	loc := now.Location()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
	startOfNextYear := startOfYear.AddDate(1, 0, 0)

	month, err := s.saleRepo.SumBetween(ctx, startOfMonth, now.Add(time.Nanosecond))
	if err != nil {
		return nil, err
	}
	year, err := s.saleRepo.SumBetween(ctx, startOfYear, startOfNextYear)
	if err != nil {
		return nil, err
	}
	today, err := s.saleRepo.SumBetween(ctx, startOfDay, startOfDay.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		MonthTotal:  month.Total,
		YearTotal:   year.Total,
		TodayCount:  today.Count,
		YearAverage: decimal.Zero,
	}
	if year.Count > 0 {
		summary.YearAverage = year.Total.DivRound(decimal.NewFromInt(year.Count), 2)
	}
	return summary, nil
}

func (s *reportService) RecentSales(ctx context.Context) ([]model.SaleResponse, error) {
	sales, err := s.saleRepo.FindRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(sales), nil
}

// MonthlySales totals the current year's sales per YYYY-MM.
func (s *reportService) MonthlySales(ctx context.Context) ([]MonthTotal, error) {
	now := s.now()
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	sales, err := s.saleRepo.FindBetween(ctx, startOfYear, startOfYear.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	months := make(map[string]*MonthTotal)
	for _, sale := range sales {
		key := sale.SoldAt.In(now.Location()).Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &MonthTotal{Month: key, Total: decimal.Zero}
			months[key] = m
		}
		m.Total = m.Total.Add(sale.Total)
		m.Count++
	}
	return sortedMonths(months), nil
}

func (s *reportService) TopClients(ctx context.Context) ([]repository.ClientTotal, error) {
	return s.saleRepo.TopClients(ctx, recentLimit)
}

func (s *reportService) TopProducts(ctx context.Context) ([]repository.ProductTotal, error) {
	return s.saleRepo.TopProducts(ctx, recentLimit)
}
