package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go-fooddelivery/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultMinPrice is the expensive dishes threshold used when none is given
const DefaultMinPrice = 20.0

// Cache keys of the global reports
const (
	ReportOrderCount = "orders:count"
	ReportCities     = "restaurants:cities"
	ReportTopRated   = "restaurants:top-rated"
	ReportTopDishes  = "orders:top-dishes"
)

// ReportService runs the fixed, read-only reports
type ReportService struct {
	store  Store
	cache  ReportCache
	logger *zap.Logger
}

// NewReportService creates a ReportService. cache may be nil.
func NewReportService(store Store, cache ReportCache, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{store: store, cache: cache, logger: logger}
}

// OrderCount counts every order
func (s *ReportService) OrderCount(ctx context.Context) (int64, error) {
	var total int64
	err := s.cached(ctx, ReportOrderCount, &total, func() error {
		n, err := s.store.Count(ctx, models.OrdersCollection, bson.M{})
		total = n
		return err
	})
	return total, err
}

// RestaurantCities lists the distinct restaurant cities in ascending order
func (s *ReportService) RestaurantCities(ctx context.Context) ([]string, error) {
	cities := []string{}
	err := s.cached(ctx, ReportCities, &cities, func() error {
		values, err := s.store.Distinct(ctx, models.RestaurantsCollection, "city", bson.M{})
		if err != nil {
			return err
		}
		cities = cities[:0]
		for _, v := range values {
			if city, ok := v.(string); ok {
				cities = append(cities, city)
			}
		}
		sort.Strings(cities)
		return nil
	})
	return cities, err
}

// TopRatedRestaurants returns the best reviewed restaurants
func (s *ReportService) TopRatedRestaurants(ctx context.Context) ([]models.RatedRestaurant, error) {
	rows := []models.RatedRestaurant{}
	err := s.cached(ctx, ReportTopRated, &rows, func() error {
		return s.store.Aggregate(ctx, models.ReviewsCollection, TopRatedPipeline(), &rows)
	})
	return rows, err
}

// TopDishes returns the most sold products
func (s *ReportService) TopDishes(ctx context.Context) ([]models.DishSales, error) {
	rows := []models.DishSales{}
	err := s.cached(ctx, ReportTopDishes, &rows, func() error {
		return s.store.Aggregate(ctx, models.OrdersCollection, TopDishesPipeline(), &rows)
	})
	return rows, err
}

// ExpensiveDishes lists a restaurant's dishes priced at or above minPrice
func (s *ReportService) ExpensiveDishes(ctx context.Context, restaurantID string, minPrice float64) ([]models.DishPrice, error) {
	rows := []models.DishPrice{}
	if err := s.store.Aggregate(ctx, models.RestaurantsCollection, ExpensiveDishesPipeline(restaurantID, minPrice), &rows); err != nil {
		return nil, s.reportError("expensive-dishes", err)
	}
	return rows, nil
}

// UserOrders returns the order history of a user, newest first
func (s *ReportService) UserOrders(ctx context.Context, userID string) ([]models.OrderHistory, error) {
	rows := []models.OrderHistory{}
	if err := s.store.Aggregate(ctx, models.OrdersCollection, UserOrdersPipeline(userID), &rows); err != nil {
		return nil, s.reportError("user-orders", err)
	}
	for i := range rows {
		if rows[i].Items == nil {
			rows[i].Items = []models.OrderHistoryItem{}
		}
	}
	return rows, nil
}

// ParseMinPrice reads the minPrice query value, anything that is not a finite non-negative number means DefaultMinPrice
func ParseMinPrice(raw string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return DefaultMinPrice
	}
	return p
}

// cached serves dst from the report cache when possible and fills the cache after load
func (s *ReportService) cached(ctx context.Context, key string, dst interface{}, load func() error) error {
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, dst)
		if err != nil {
			s.logger.Warn("report cache read failed", zap.String("report", key), zap.Error(err))
		} else if hit {
			return nil
		}
	}
	if err := load(); err != nil {
		return s.reportError(key, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dst); err != nil {
			s.logger.Warn("report cache write failed", zap.String("report", key), zap.Error(err))
		}
	}
	return nil
}

func (s *ReportService) reportError(report string, err error) error {
	s.logger.Error("report failed", zap.String("report", report), zap.Error(err))
	return fmt.Errorf("report %s: %w", report, err)
}
