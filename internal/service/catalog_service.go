package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/models"
	"hitolicious-api/internal/redisclient"
	"hitolicious-api/internal/store"
	"hitolicious-api/internal/util"
)

// CatalogService handles the food catalog, its archive and the stock ledger
type CatalogService struct {
	store    *store.Store
	redis    *redisclient.Client
	audit    *AuditLogger
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, redis *redisclient.Client, audit *AuditLogger, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		store:    store,
		redis:    redis,
		audit:    audit,
		logger:   util.GetLogger(),
		cacheTTL: cacheTTL,
	}
}

// FoodRequest represents a catalog create/update payload
type FoodRequest struct {
	FoodName string  `json:"food_name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
}

// ListFood returns the catalog, served from the Redis cache when possible
func (s *CatalogService) ListFood(ctx context.Context) ([]models.Food, error) {
	cached, err := s.redis.GetCatalog(ctx)
	if err != nil {
		util.CatalogCacheHits.WithLabelValues("error").Inc()
		s.logger.Warn("Catalog cache read failed, falling back to DB", zap.Error(err))
	} else if cached != nil {
		var foods []models.Food
		if err := json.Unmarshal(cached, &foods); err != nil {
			s.logger.Warn("Dropping undecodable catalog cache entry", zap.Error(err))
			_ = s.redis.InvalidateCatalog(ctx)
		} else {
			util.CatalogCacheHits.WithLabelValues("hit").Inc()
			return foods, nil
		}
	}

	util.CatalogCacheHits.WithLabelValues("miss").Inc()
	foods, err := s.store.GetFoods(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(foods); err == nil {
		if err := s.redis.SetCatalog(ctx, data, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache catalog", zap.Error(err))
		}
	}

	return foods, nil
}

// CreateFood adds a catalog item
func (s *CatalogService) CreateFood(ctx context.Context, req *FoodRequest, createdBy string) (*models.Food, error) {
	food := &models.Food{
		FoodName: req.FoodName,
		Category: req.Category,
		Price:    req.Price,
	}
	if err := s.store.CreateFood(ctx, food); err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	s.audit.LogAction(ctx, createdBy, fmt.Sprintf("Added food %q (%s)", food.FoodName, food.Category))
	return food, nil
}

// UpdateFood overwrites a catalog item
func (s *CatalogService) UpdateFood(ctx context.Context, foodID int64, req *FoodRequest, updatedBy string) error {
	food := &models.Food{
		FoodID:   foodID,
		FoodName: req.FoodName,
		Category: req.Category,
		Price:    req.Price,
	}
	if err := s.store.UpdateFood(ctx, food); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.audit.LogAction(ctx, updatedBy, fmt.Sprintf("Updated food #%d", foodID))
	return nil
}

// DeleteFood removes a catalog item and its stock rows
func (s *CatalogService) DeleteFood(ctx context.Context, foodID int64, deletedBy string) (int64, error) {
	deletedStocks, err := s.store.DeleteFoodTx(ctx, foodID)
	if err != nil {
		return 0, err
	}

	s.invalidateCatalog(ctx)
	s.audit.LogAction(ctx, deletedBy, fmt.Sprintf("Deleted food #%d", foodID))
	return deletedStocks, nil
}

// ArchiveFoodResult reports what the archive transaction moved
type ArchiveFoodResult struct {
	ArchiveID     int64 `json:"archive_id"`
	DeletedStocks int64 `json:"deleted_stocks"`
}

// ArchiveFood moves a catalog item into the archive table
func (s *CatalogService) ArchiveFood(ctx context.Context, foodID int64, archivedBy string) (*ArchiveFoodResult, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ArchiveFood")
	defer span.End()

	archivedID, deletedStocks, err := s.store.ArchiveFoodTx(ctx, foodID)
	if err != nil {
		return nil, err
	}

	util.FoodArchivedTotal.Inc()
	s.invalidateCatalog(ctx)
	s.audit.LogAction(ctx, archivedBy, fmt.Sprintf("Archived food #%d", foodID))

	return &ArchiveFoodResult{ArchiveID: archivedID, DeletedStocks: deletedStocks}, nil
}

// RestoreFood brings a catalog item back from the archive with stock at zero
func (s *CatalogService) RestoreFood(ctx context.Context, foodID int64, restoredBy string) (*models.Food, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.RestoreFood")
	defer span.End()

	food, err := s.store.RestoreFoodTx(ctx, foodID)
	if err != nil {
		return nil, err
	}

	util.FoodRestoredTotal.Inc()
	s.invalidateCatalog(ctx)
	s.audit.LogAction(ctx, restoredBy, fmt.Sprintf("Restored food %q (#%d)", food.FoodName, foodID))

	return food, nil
}

// ListArchivedFood returns the food archive
func (s *CatalogService) ListArchivedFood(ctx context.Context) ([]models.ArchivedFood, error) {
	return s.store.GetArchivedFoods(ctx)
}

// StockRequest represents a stock upsert payload
type StockRequest struct {
	FoodID   int64 `json:"food_id" binding:"required"`
	AdminID  int64 `json:"admin_id" binding:"required"`
	Quantity *int  `json:"quantity" binding:"required"`
}

// ListStocks returns all stock rows with food names resolved
func (s *CatalogService) ListStocks(ctx context.Context) ([]models.Stock, error) {
	return s.store.GetStocks(ctx)
}

// UpsertStock creates or overwrites the stock row for a food item
func (s *CatalogService) UpsertStock(ctx context.Context, req *StockRequest, updatedBy string) (int64, error) {
	if req.Quantity == nil || *req.Quantity < 0 {
		return 0, apperr.Validation("quantity must be a non-negative integer")
	}

	// The food row must exist; a stock counter without a catalog item is garbage.
	if _, err := s.store.GetFoodByID(ctx, req.FoodID); err != nil {
		return 0, err
	}

	stocksID, err := s.store.UpsertStock(ctx, req.FoodID, req.AdminID, *req.Quantity)
	if err != nil {
		return 0, err
	}

	s.audit.LogAction(ctx, updatedBy, fmt.Sprintf("Set stock for food #%d to %d", req.FoodID, *req.Quantity))
	return stocksID, nil
}

// UpdateStockQuantity overwrites the quantity of an existing stock row
func (s *CatalogService) UpdateStockQuantity(ctx context.Context, stocksID int64, quantity int, updatedBy string) error {
	if quantity < 0 {
		return apperr.Validation("quantity must be a non-negative integer")
	}

	if err := s.store.UpdateStockQuantity(ctx, stocksID, quantity); err != nil {
		return err
	}

	s.audit.LogAction(ctx, updatedBy, fmt.Sprintf("Set stock row #%d to %d", stocksID, quantity))
	return nil
}

// BestSellers reads the sales leaderboard and resolves food names
func (s *CatalogService) BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	sold, order, err := s.redis.TopSellers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read best sellers: %w", err)
	}
	if len(order) == 0 {
		return []models.BestSeller{}, nil
	}

	foods, err := s.store.GetFoodsByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(foods))
	for _, food := range foods {
		names[food.FoodID] = food.FoodName
	}

	result := make([]models.BestSeller, 0, len(order))
	for _, foodID := range order {
		name, ok := names[foodID]
		if !ok {
			// Archived or deleted items stay on the board under a placeholder.
			name = "Unknown Food"
		}
		result = append(result, models.BestSeller{
			FoodID:   foodID,
			FoodName: name,
			Sold:     sold[foodID],
		})
	}
	return result, nil
}

func (s *CatalogService) invalidateCatalog(ctx context.Context) {
	if err := s.redis.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}
