package storage

import (
	"context"
	"errors"
	"time"
)

var ErrProductUnknown = errors.New("unknown product")
var ErrOrderNotFound = errors.New("order not found")

type Product struct {
	ID       int64
	Name     string
	Flavour  *string
	PackSize int
	Price    int64
}

type NewOrder struct {
	CustomerName string
	Phone        string
	Address      string
	Note         *string
}

type NewOrderItem struct {
	ProductID int64
	Quantity  int
}

type OrderItem struct {
	ProductName string
	Flavour     *string
	Quantity    int
	LineTotal   int64
}

type Order struct {
	ID           int64
	CustomerName string
	Phone        string
	Address      string
	Note         *string
	CreatedAt    time.Time
	Items        []OrderItem
}

type Summary struct {
	TotalOrders  int64
	TotalRevenue int64
}

type WeeklyStat struct {
	WeekStart  time.Time
	OrderCount int64
	Revenue    int64
}

type ProductStat struct {
	ProductName   string
	Flavour       *string
	TotalQuantity int64
	TotalRevenue  int64
}

type Analytics struct {
	Summary  Summary
	Weekly   []WeeklyStat
	Products []ProductStat
}

type OrderRepository interface {
	ActiveProducts(ctx context.Context) ([]Product, error)
	CreateOrder(ctx context.Context, order NewOrder, items []NewOrderItem) (int64, error)
	OrderByID(ctx context.Context, orderID int64) (Order, error)
	PendingOrders(ctx context.Context) ([]Order, error)
	CompleteOrder(ctx context.Context, orderID int64) error
	Analytics(ctx context.Context, from *time.Time, to *time.Time) (Analytics, error)
}
