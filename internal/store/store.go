package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetFoods retrieves the full catalog
func (s *Store) GetFoods(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.SelectContext(ctx, &foods, "SELECT * FROM food ORDER BY food_id")
	return foods, err
}

// GetFoodByID retrieves one catalog item
func (s *Store) GetFoodByID(ctx context.Context, id int64) (*models.Food, error) {
	var food models.Food
	err := s.db.GetContext(ctx, &food, "SELECT * FROM food WHERE food_id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("food", id)
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// GetFoodsByIDs retrieves multiple catalog items by ID
func (s *Store) GetFoodsByIDs(ctx context.Context, ids []int64) ([]models.Food, error) {
	if len(ids) == 0 {
		return []models.Food{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM food WHERE food_id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var foods []models.Food
	err = s.db.SelectContext(ctx, &foods, query, args...)
	return foods, err
}

// CreateFood inserts a new catalog item
func (s *Store) CreateFood(ctx context.Context, food *models.Food) error {
	query := `
		INSERT INTO food (food_name, category, price)
		VALUES ($1, $2, $3)
		RETURNING food_id, created_at`

	return s.db.GetContext(ctx, food, query, food.FoodName, food.Category, food.Price)
}

// UpdateFood overwrites name, category and price of a catalog item
func (s *Store) UpdateFood(ctx context.Context, food *models.Food) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE food SET food_name = $1, category = $2, price = $3 WHERE food_id = $4",
		food.FoodName, food.Category, food.Price, food.FoodID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("food", food.FoodID)
	}
	return nil
}

// DeleteFoodTx removes a catalog item and its stock rows in one transaction
func (s *Store) DeleteFoodTx(ctx context.Context, foodID int64) (deletedStocks int64, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM stocks WHERE food_id = $1", foodID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stocks: %w", err)
	}
	deletedStocks, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, "DELETE FROM food WHERE food_id = $1", foodID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete food: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return 0, apperr.NotFound("food", foodID)
	}

	return deletedStocks, tx.Commit()
}

// GetStocks retrieves all stock rows with food names resolved
func (s *Store) GetStocks(ctx context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	err := s.db.SelectContext(ctx, &stocks, `
		SELECT s.stocks_id, s.food_id, s.admin_id, s.quantity, f.food_name
		FROM stocks s
		JOIN food f ON s.food_id = f.food_id
		ORDER BY s.stocks_id`)
	return stocks, err
}

// GetStockByFoodID retrieves the stock row for a food item
func (s *Store) GetStockByFoodID(ctx context.Context, foodID int64) (*models.Stock, error) {
	var stock models.Stock
	err := s.db.GetContext(ctx, &stock,
		"SELECT stocks_id, food_id, admin_id, quantity FROM stocks WHERE food_id = $1", foodID)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("stock", foodID)
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// UpsertStock creates the stock row for a food item or overwrites its
// quantity and recorded admin if one already exists.
func (s *Store) UpsertStock(ctx context.Context, foodID, adminID int64, quantity int) (int64, error) {
	var stocksID int64
	err := s.db.GetContext(ctx, &stocksID, `
		INSERT INTO stocks (food_id, admin_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (food_id) DO UPDATE SET quantity = EXCLUDED.quantity, admin_id = EXCLUDED.admin_id
		RETURNING stocks_id`,
		foodID, adminID, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert stock: %w", err)
	}
	return stocksID, nil
}

// UpdateStockQuantity overwrites the quantity of an existing stock row
func (s *Store) UpdateStockQuantity(ctx context.Context, stocksID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE stocks SET quantity = $1 WHERE stocks_id = $2", quantity, stocksID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("stock", stocksID)
	}
	return nil
}
