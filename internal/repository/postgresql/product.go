package postgresql

import (
	"context"
	"fmt"

	"github.com/lojaops/commission-backend-go/internal/domain/catalog"
	"github.com/lojaops/commission-backend-go/internal/pkg/database"
)

type productRepository struct {
	db *database.DB
}

func NewProductRepository(db *database.DB) catalog.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, commission_enabled, commission_type, commission_value,
			   discount_limit_type, discount_limit_value, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Commission.Enabled, &p.Commission.Type, &p.Commission.Value,
			&p.Commission.DiscountLimitType, &p.Commission.DiscountLimitValue, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
