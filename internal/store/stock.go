package store

import (
	"context"
	"fmt"

	"pharmacy-pos/internal/models"
)

const stockColumns = "id, name, type, quantity, expiry_date, batch_no, price"

// RegisterRelation records a provisioned relation. Safe to call repeatedly.
func (s *Store) RegisterRelation(ctx context.Context, relation, tenant string, kind models.Kind) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO stock_relations (relation, tenant, kind) VALUES (?, ?, ?)
		ON CONFLICT (relation) DO NOTHING`),
		relation, tenant, string(kind))
	return err
}

// RelationExists reports whether the relation was registered
func (s *Store) RelationExists(ctx context.Context, relation string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(
		"SELECT COUNT(*) FROM stock_relations WHERE relation = ?"), relation)
	return n > 0, err
}

// InsertStockItem inserts a row and returns it with its assigned id
func (s *Store) InsertStockItem(ctx context.Context, relation string, f models.StockFields) (*models.StockItem, error) {
	query := s.db.Rebind(`
		INSERT INTO stock_items (relation, name, type, quantity, expiry_date, batch_no, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	item := &models.StockItem{
		Name:       f.Name,
		Type:       f.Type,
		Quantity:   f.Quantity,
		ExpiryDate: f.ExpiryDate,
		BatchNo:    f.BatchNo,
		Price:      f.Price,
	}
	if err := s.db.GetContext(ctx, &item.ID, query,
		relation, f.Name, f.Type, f.Quantity, f.ExpiryDate, f.BatchNo, f.Price); err != nil {
		return nil, fmt.Errorf("failed to insert stock item: %w", err)
	}
	return item, nil
}

// ListStockItems returns every row of a relation, expired ones included
func (s *Store) ListStockItems(ctx context.Context, relation string) ([]models.StockItem, error) {
	items := []models.StockItem{}
	err := s.db.SelectContext(ctx, &items, s.db.Rebind(
		"SELECT "+stockColumns+" FROM stock_items WHERE relation = ? ORDER BY id"), relation)
	return items, err
}

// ListStockItemsExpiringBetween returns rows with from <= expiry_date <= to
func (s *Store) ListStockItemsExpiringBetween(ctx context.Context, relation, from, to string) ([]models.StockItem, error) {
	items := []models.StockItem{}
	err := s.db.SelectContext(ctx, &items, s.db.Rebind(
		"SELECT "+stockColumns+` FROM stock_items
		WHERE relation = ? AND expiry_date >= ? AND expiry_date <= ?
		ORDER BY expiry_date, id`), relation, from, to)
	return items, err
}

// PurgeExpired deletes rows whose expiry_date sorts before today
func (s *Store) PurgeExpired(ctx context.Context, relation, today string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		"DELETE FROM stock_items WHERE relation = ? AND expiry_date < ?"), relation, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateStockItem replaces the editable fields and returns rows affected
func (s *Store) UpdateStockItem(ctx context.Context, relation string, id int64, f models.StockFields) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE stock_items
		SET name = ?, type = ?, quantity = ?, expiry_date = ?, batch_no = ?, price = ?
		WHERE relation = ? AND id = ?`),
		f.Name, f.Type, f.Quantity, f.ExpiryDate, f.BatchNo, f.Price, relation, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteStockItem deletes a row and returns rows affected
func (s *Store) DeleteStockItem(ctx context.Context, relation string, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		"DELETE FROM stock_items WHERE relation = ? AND id = ?"), relation, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
