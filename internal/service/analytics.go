package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fleetops/rental/internal/domain"
)

// AnalyticsService derives reports from the rental ledger. Revenue is
// recognized at rental creation: the agreed cost of every record counts,
// whether or not the vehicle has come back.
type AnalyticsService struct {
	storage Storage
}

func NewAnalyticsService(storage Storage) *AnalyticsService {
	return &AnalyticsService{storage: storage}
}

// VehicleRanking pairs a vehicle id with its ledger record count.
type VehicleRanking struct {
	VehicleID string
	Rentals   int
}

// ActivityEvent is one entry of the chronological activity log. Rentals
// appear at their period start, returns at their actual return time.
type ActivityEvent struct {
	At        time.Time
	Kind      string
	RecordID  string
	VehicleID string
	RenterID  string
	Cost      decimal.Decimal
}

// VehicleReport summarizes one vehicle's ledger activity.
type VehicleReport struct {
	Vehicle      *domain.Vehicle
	TotalRentals int
	OpenRentals  int
	Revenue      decimal.Decimal
	BilledDays   int
}

// RenterReport summarizes one account's ledger activity.
type RenterReport struct {
	Renter       *domain.Renter
	TotalRentals int
	OpenRentals  int
	TotalSpent   decimal.Decimal
}

// DashboardSummary is the one-call overview used by operations dashboards.
type DashboardSummary struct {
	FleetSize         int
	ActiveVehicles    int
	RenterCount       int
	TotalRentals      int
	OpenRentals       int
	OverdueRentals    int
	TotalRevenue      decimal.Decimal
	RevenueByCategory map[domain.Category]decimal.Decimal
	RevenueByKind     map[domain.Kind]decimal.Decimal
}

// TotalRevenue sums the agreed cost of every ledger record.
func (s *AnalyticsService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, rec := range rentals {
		total = total.Add(rec.AgreedCost)
	}
	return total, nil
}

// RevenueByVehicleCategory groups ledger revenue by the vehicle variant.
func (s *AnalyticsService) RevenueByVehicleCategory(ctx context.Context) (map[domain.Category]decimal.Decimal, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.Category]decimal.Decimal)
	for _, rec := range rentals {
		v, err := s.storage.Vehicle(ctx, rec.VehicleID)
		if err != nil {
			return nil, err
		}
		out[v.Category] = out[v.Category].Add(rec.AgreedCost)
	}
	return out, nil
}

// RevenueByRenterKind groups ledger revenue by the account variant.
func (s *AnalyticsService) RevenueByRenterKind(ctx context.Context) (map[domain.Kind]decimal.Decimal, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.Kind]decimal.Decimal)
	for _, rec := range rentals {
		r, err := s.storage.Renter(ctx, rec.RenterID)
		if err != nil {
			return nil, err
		}
		out[r.Kind] = out[r.Kind].Add(rec.AgreedCost)
	}
	return out, nil
}

// MostRentedVehicles returns the top n vehicles by record count, ties
// broken by ascending vehicle id.
func (s *AnalyticsService) MostRentedVehicles(ctx context.Context, n int) ([]VehicleRanking, error) {
	rankings, err := s.rankings(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Rentals == rankings[j].Rentals {
			return rankings[i].VehicleID < rankings[j].VehicleID
		}
		return rankings[i].Rentals > rankings[j].Rentals
	})
	return truncate(rankings, n), nil
}

// LeastRentedVehicles returns the bottom n vehicles by record count.
// Vehicles that were never rented are included with a zero count.
func (s *AnalyticsService) LeastRentedVehicles(ctx context.Context, n int) ([]VehicleRanking, error) {
	rankings, err := s.rankings(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Rentals == rankings[j].Rentals {
			return rankings[i].VehicleID < rankings[j].VehicleID
		}
		return rankings[i].Rentals < rankings[j].Rentals
	})
	return truncate(rankings, n), nil
}

func (s *AnalyticsService) rankings(ctx context.Context) ([]VehicleRanking, error) {
	vehicles, err := s.storage.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(vehicles))
	for _, v := range vehicles {
		counts[v.ID] = 0
	}
	for _, rec := range rentals {
		counts[rec.VehicleID]++
	}

	out := make([]VehicleRanking, 0, len(counts))
	for id, n := range counts {
		out = append(out, VehicleRanking{VehicleID: id, Rentals: n})
	}
	return out, nil
}

func truncate(rankings []VehicleRanking, n int) []VehicleRanking {
	if n > 0 && len(rankings) > n {
		return rankings[:n]
	}
	return rankings
}

// OverdueRecords lists open records past their period end at the instant.
func (s *AnalyticsService) OverdueRecords(ctx context.Context, now time.Time) ([]*domain.RentalRecord, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.RentalRecord, 0)
	for _, rec := range rentals {
		if rec.OverdueAt(now) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// ActivityLog flattens the ledger into a chronological event stream: one
// rent event per record, one return event per closed record. Events are
// ordered ascending by time, ties broken by record id; limit caps the
// result, zero means everything.
func (s *AnalyticsService) ActivityLog(ctx context.Context, limit int) ([]ActivityEvent, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]ActivityEvent, 0, len(rentals)*2)
	for _, rec := range rentals {
		events = append(events, ActivityEvent{
			At:        rec.Period.Start,
			Kind:      "rent",
			RecordID:  rec.ID,
			VehicleID: rec.VehicleID,
			RenterID:  rec.RenterID,
			Cost:      rec.AgreedCost,
		})
		if rec.Returned && rec.ActualReturnTime != nil {
			events = append(events, ActivityEvent{
				At:        *rec.ActualReturnTime,
				Kind:      "return",
				RecordID:  rec.ID,
				VehicleID: rec.VehicleID,
				RenterID:  rec.RenterID,
				Cost:      rec.AgreedCost,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].At.Equal(events[j].At) {
			if events[i].RecordID == events[j].RecordID {
				return events[i].Kind < events[j].Kind
			}
			return events[i].RecordID < events[j].RecordID
		}
		return events[i].At.Before(events[j].At)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// VehicleReport summarizes one vehicle's ledger activity.
func (s *AnalyticsService) VehicleReport(ctx context.Context, vehicleID string) (*VehicleReport, error) {
	v, err := s.storage.Vehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	records, err := s.storage.RentalsForVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	report := &VehicleReport{Vehicle: v, Revenue: decimal.Zero}
	for _, rec := range records {
		report.TotalRentals++
		report.Revenue = report.Revenue.Add(rec.AgreedCost)
		report.BilledDays += rec.Period.Days()
		if !rec.Returned {
			report.OpenRentals++
		}
	}
	return report, nil
}

// RenterReport summarizes one account's ledger activity.
func (s *AnalyticsService) RenterReport(ctx context.Context, renterID string) (*RenterReport, error) {
	r, err := s.storage.Renter(ctx, renterID)
	if err != nil {
		return nil, err
	}
	records, err := s.storage.RentalsForRenter(ctx, renterID)
	if err != nil {
		return nil, err
	}

	report := &RenterReport{Renter: r, TotalSpent: decimal.Zero}
	for _, rec := range records {
		report.TotalRentals++
		report.TotalSpent = report.TotalSpent.Add(rec.AgreedCost)
		if !rec.Returned {
			report.OpenRentals++
		}
	}
	return report, nil
}

// DashboardSummary assembles the overview, fanning the independent reads
// out concurrently.
func (s *AnalyticsService) DashboardSummary(ctx context.Context, now time.Time) (*DashboardSummary, error) {
	summary := &DashboardSummary{TotalRevenue: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		vehicles, err := s.storage.Vehicles(gctx)
		if err != nil {
			return err
		}
		summary.FleetSize = len(vehicles)
		for _, v := range vehicles {
			if v.Active {
				summary.ActiveVehicles++
			}
		}
		return nil
	})

	g.Go(func() error {
		renters, err := s.storage.Renters(gctx)
		if err != nil {
			return err
		}
		summary.RenterCount = len(renters)
		return nil
	})

	g.Go(func() error {
		rentals, err := s.storage.Rentals(gctx)
		if err != nil {
			return err
		}
		summary.TotalRentals = len(rentals)
		total := decimal.Zero
		for _, rec := range rentals {
			total = total.Add(rec.AgreedCost)
			if !rec.Returned {
				summary.OpenRentals++
			}
			if rec.OverdueAt(now) {
				summary.OverdueRentals++
			}
		}
		summary.TotalRevenue = total
		return nil
	})

	g.Go(func() error {
		byCategory, err := s.RevenueByVehicleCategory(gctx)
		if err != nil {
			return err
		}
		summary.RevenueByCategory = byCategory
		return nil
	})

	g.Go(func() error {
		byKind, err := s.RevenueByRenterKind(gctx)
		if err != nil {
			return err
		}
		summary.RevenueByKind = byKind
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
