package catalog

import (
	"time"

	"github.com/lojaops/commission-backend-go/internal/domain/commission"
)

// Product - Catalog item as seen by the commission engine. Product
// management itself lives elsewhere; the engine only reads the commission
// configuration attached to each sold item.
type Product struct {
	ID         string
	Name       string
	Commission commission.CommissionConfig
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
