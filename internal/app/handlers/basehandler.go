package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"github.com/sugarwhisk/cupcake-shop/internal/app/storage"
)

// Notifier is what the order endpoint needs from the notification side.
type Notifier interface {
	OrderPlaced(ctx context.Context, orderID int64) error
}

type BaseHandler struct {
	mux      *chi.Mux
	adminKey string
	repo     storage.OrderRepository
	notifier Notifier
}

type errorResponse struct {
	Error string `json:"error"`
}

type productResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Flavour  *string `json:"flavour"`
	PackSize int     `json:"pack_size"`
	Price    int64   `json:"price"`
}

type menuResponse struct {
	Items []productResponse `json:"items"`
}

func NewBaseHandler(repo storage.OrderRepository, notifier Notifier, adminKey string) *chi.Mux {
	bh := &BaseHandler{
		mux:      chi.NewMux(),
		adminKey: adminKey,
		repo:     repo,
		notifier: notifier,
	}

	bh.mux.Use(middleware.RequestID)
	bh.mux.Use(middleware.RealIP)
	bh.mux.Use(middleware.Logger)
	bh.mux.Use(middleware.Recoverer)
	bh.mux.Use(middleware.Timeout(30 * time.Second))
	bh.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", adminKeyHeader},
	}))

	bh.mux.Get("/api/health", bh.health())
	bh.mux.Get("/api/menu", bh.menu())
	bh.mux.Post("/api/orders", bh.createOrder())

	bh.mux.Route("/api/admin", func(r chi.Router) {
		r.Use(adminOnly(bh.adminKey))
		r.Get("/orders", bh.pendingOrders())
		r.Post("/orders/{orderID}/complete", bh.completeOrder())
		r.Get("/analytics", bh.analytics())
	})

	return bh.mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (bh *BaseHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (bh *BaseHandler) menu() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		products, err := bh.repo.ActiveProducts(req.Context())
		if err != nil {
			log.WithError(err).Error("list products")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		items := make([]productResponse, 0, len(products))
		for _, p := range products {
			items = append(items, productResponse{
				ID:       p.ID,
				Name:     p.Name,
				Flavour:  p.Flavour,
				PackSize: p.PackSize,
				Price:    p.Price,
			})
		}

		writeJSON(w, http.StatusOK, menuResponse{Items: items})
	}
}
