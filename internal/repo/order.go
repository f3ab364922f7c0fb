package repo

import (
	"context"

	"gorm.io/gorm"

	"smartcart/internal/models"
	"smartcart/internal/transport"
)

// PlaceOrder runs the whole placement as one transaction: header insert,
// per-item price snapshot and insert, then the total update. Any failure —
// a missing product included — rolls back every row written so far, so a
// partial order is never visible to other readers.
//
// Prices are read from the catalog inside the transaction; client-supplied
// totals are never trusted. Stock is untouched unless a StockPolicy is set.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint, items []transport.OrderItemRequest) (*models.Order, error) {
	order := models.Order{
		UserID:      userID,
		TotalAmount: 0,
		Status:      models.OrderStatusPending,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return err
			}

			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			if r.Stock != nil {
				if err := r.Stock.Adjust(tx, product.ID, item.Quantity); err != nil {
					return err
				}
			}

			total += product.Price * float64(item.Quantity)
		}

		if err := tx.Model(&order).Update("total_amount", total).Error; err != nil {
			return err
		}
		order.TotalAmount = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID uint) (*models.Order, []transport.OrderItemView, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, nil, err
	}

	var items []transport.OrderItemView
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.*, products.name, products.image_url").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// OrderStatistics aggregates over completed orders only.
func (r *GormRepo) OrderStatistics(ctx context.Context) (*transport.OrderStatistics, error) {
	var stats struct {
		TotalOrders  int64
		TotalRevenue *float64
		AverageValue *float64
	}
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) as total_orders, SUM(total_amount) as total_revenue, AVG(total_amount) as average_value").
		Where("status = ?", models.OrderStatusCompleted).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	out := transport.OrderStatistics{TotalOrders: stats.TotalOrders}
	if stats.TotalRevenue != nil {
		out.TotalRevenue = *stats.TotalRevenue
	}
	if stats.AverageValue != nil {
		out.AverageOrderValue = *stats.AverageValue
	}
	return &out, nil
}
