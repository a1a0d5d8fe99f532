package catalog

import "context"

// ProductRepository provides read access to the product catalog. Ids with no
// matching product are simply absent from the result.
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}
