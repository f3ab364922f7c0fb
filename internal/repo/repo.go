package repo

import "gorm.io/gorm"

// GormRepo is the single store handle injected into every service. Tests swap
// in an in-memory sqlite DB.
type GormRepo struct {
	DB *gorm.DB

	// Stock is the order-placement stock extension point. The default nil
	// policy matches the current behavior: stock is neither validated nor
	// decremented when an order is placed, so concurrent orders can oversell.
	Stock StockPolicy
}

// StockPolicy is invoked per line item inside the order-placement transaction,
// after the price snapshot is taken. Returning an error aborts the whole order.
type StockPolicy interface {
	Adjust(tx *gorm.DB, productID, quantity uint) error
}
