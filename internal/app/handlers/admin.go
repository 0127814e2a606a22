package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/sugarwhisk/cupcake-shop/internal/app/storage"
)

const createdAtFormat = "02/01/2006 15:04:05"
const dateParamFormat = "2006-01-02"

type orderItemResponse struct {
	ProductName string  `json:"product_name"`
	Flavour     *string `json:"flavour"`
	Quantity    int     `json:"quantity"`
	LineTotal   int64   `json:"line_total"`
}

type orderResponse struct {
	OrderID      int64               `json:"order_id"`
	CustomerName string              `json:"customer_name"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	CreatedAt    string              `json:"created_at"`
	Note         *string             `json:"note"`
	Items        []orderItemResponse `json:"items"`
}

type pendingOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
}

type summaryResponse struct {
	TotalOrders  int64 `json:"total_orders"`
	TotalRevenue int64 `json:"total_revenue"`
}

type weeklyStatResponse struct {
	WeekStart  string `json:"week_start"`
	OrderCount int64  `json:"order_count"`
	Revenue    int64  `json:"revenue"`
}

type productStatResponse struct {
	ProductName   string  `json:"product_name"`
	Flavour       *string `json:"flavour"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  int64   `json:"total_revenue"`
}

type analyticsResponse struct {
	Summary       summaryResponse       `json:"summary"`
	OrdersPerWeek []weeklyStatResponse  `json:"orders_per_week"`
	TopProducts   []productStatResponse `json:"top_products"`
}

func orderToResponse(o storage.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductName: item.ProductName,
			Flavour:     item.Flavour,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}

	return orderResponse{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		CreatedAt:    o.CreatedAt.Format(createdAtFormat),
		Note:         o.Note,
		Items:        items,
	}
}

func (bh *BaseHandler) pendingOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		orders, err := bh.repo.PendingOrders(req.Context())
		if err != nil {
			log.WithError(err).Error("list pending orders")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		resp := pendingOrdersResponse{Orders: make([]orderResponse, 0, len(orders))}
		for _, o := range orders {
			resp.Orders = append(resp.Orders, orderToResponse(o))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func (bh *BaseHandler) completeOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(req, "orderID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}

		err = bh.repo.CompleteOrder(req.Context(), orderID)
		if errors.Is(err, storage.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		} else if err != nil {
			log.WithError(err).Error("complete order")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Order %d marked as completed", orderID),
		})
	}
}

// parseDateParam reads an optional yyyy-mm-dd query parameter.
func parseDateParam(req *http.Request, name string) (*time.Time, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(dateParamFormat, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s, expected yyyy-mm-dd", name)
	}
	return &t, nil
}

func (bh *BaseHandler) analytics() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		from, err := parseDateParam(req, "from_date")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		to, err := parseDateParam(req, "to_date")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		analytics, err := bh.repo.Analytics(req.Context(), from, to)
		if err != nil {
			log.WithError(err).Error("load analytics")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		resp := analyticsResponse{
			Summary: summaryResponse{
				TotalOrders:  analytics.Summary.TotalOrders,
				TotalRevenue: analytics.Summary.TotalRevenue,
			},
			OrdersPerWeek: make([]weeklyStatResponse, 0, len(analytics.Weekly)),
			TopProducts:   make([]productStatResponse, 0, len(analytics.Products)),
		}
		for _, ws := range analytics.Weekly {
			resp.OrdersPerWeek = append(resp.OrdersPerWeek, weeklyStatResponse{
				WeekStart:  ws.WeekStart.Format("02/01/2006"),
				OrderCount: ws.OrderCount,
				Revenue:    ws.Revenue,
			})
		}
		for _, p := range analytics.Products {
			resp.TopProducts = append(resp.TopProducts, productStatResponse{
				ProductName:   p.ProductName,
				Flavour:       p.Flavour,
				TotalQuantity: p.TotalQuantity,
				TotalRevenue:  p.TotalRevenue,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
