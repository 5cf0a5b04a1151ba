package store

import (
	"context"
	"database/sql"
	"fmt"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/models"
)

// ArchiveFoodTx copies a catalog item into food_archive, deletes its stock
// rows and the live row, all in one transaction.
func (s *Store) ArchiveFoodTx(ctx context.Context, foodID int64) (archivedID, deletedStocks int64, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var food models.Food
	err = tx.GetContext(ctx, &food, "SELECT * FROM food WHERE food_id = $1", foodID)
	if err == sql.ErrNoRows {
		return 0, 0, apperr.NotFound("food", foodID)
	}
	if err != nil {
		return 0, 0, err
	}

	err = tx.GetContext(ctx, &archivedID, `
		INSERT INTO food_archive (food_id, food_name, category, price, archived_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING archived_id`,
		food.FoodID, food.FoodName, food.Category, food.Price)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to archive food: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM stocks WHERE food_id = $1", foodID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete stocks: %w", err)
	}
	deletedStocks, _ = res.RowsAffected()

	if _, err = tx.ExecContext(ctx, "DELETE FROM food WHERE food_id = $1", foodID); err != nil {
		return 0, 0, fmt.Errorf("failed to delete food: %w", err)
	}

	return archivedID, deletedStocks, tx.Commit()
}

// RestoreFoodTx reinserts a catalog item from its archive snapshot, removes
// the archive row and creates a fresh stock row at quantity zero. Fails if
// a live item with that id already exists.
func (s *Store) RestoreFoodTx(ctx context.Context, foodID int64) (*models.Food, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var archived models.ArchivedFood
	err = tx.GetContext(ctx, &archived,
		"SELECT * FROM food_archive WHERE food_id = $1", foodID)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("archived food", foodID)
	}
	if err != nil {
		return nil, err
	}

	var exists bool
	err = tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM food WHERE food_id = $1)", foodID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("food %d already exists", foodID)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO food (food_id, food_name, category, price) VALUES ($1, $2, $3, $4)",
		archived.FoodID, archived.FoodName, archived.Category, archived.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to restore food: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM food_archive WHERE food_id = $1", foodID); err != nil {
		return nil, fmt.Errorf("failed to remove archive row: %w", err)
	}

	// Restored items come back with an empty shelf; an admin sets quantity later.
	_, err = tx.ExecContext(ctx,
		"INSERT INTO stocks (food_id, admin_id, quantity) VALUES ($1, $2, 0)",
		foodID, int64(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create initial stock: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Food{
		FoodID:   archived.FoodID,
		FoodName: archived.FoodName,
		Category: archived.Category,
		Price:    archived.Price,
	}, nil
}

// GetArchivedFoods retrieves the food archive, newest first
func (s *Store) GetArchivedFoods(ctx context.Context) ([]models.ArchivedFood, error) {
	var foods []models.ArchivedFood
	err := s.db.SelectContext(ctx, &foods, `
		SELECT archived_id, food_id, food_name, category, price, archived_at
		FROM food_archive
		ORDER BY archived_at DESC`)
	return foods, err
}
