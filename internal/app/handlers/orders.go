package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-passwd/validator"
	log "github.com/sirupsen/logrus"

	"github.com/sugarwhisk/cupcake-shop/internal/app/storage"
)

var errCartEmpty = errors.New("cart is empty")
var errPhoneInvalid = errors.New("phone number must be exactly 10 digits")
var errNameTooShort = errors.New("name must be at least 2 characters")
var errNameInvalid = errors.New("name can only contain letters and spaces")
var errAddressEmpty = errors.New("address cannot be empty")
var errQuantityInvalid = errors.New("quantity must be positive")

var phoneValidator = validator.New(
	validator.MinLength(10, errPhoneInvalid),
	validator.MaxLength(10, errPhoneInvalid),
	validator.ContainsOnly("0123456789", errPhoneInvalid),
)

const notifyTimeout = 30 * time.Second

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type orderRequest struct {
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	Note         *string            `json:"note"`
	Items        []orderItemRequest `json:"items"`
}

type orderCreatedResponse struct {
	OrderID int64  `json:"order_id"`
	Message string `json:"message"`
}

// validate normalizes the request in place and reports the first violation.
func (r *orderRequest) validate() error {
	if len(r.Items) == 0 {
		return errCartEmpty
	}

	r.Phone = strings.TrimSpace(r.Phone)
	if err := phoneValidator.Validate(r.Phone); err != nil {
		return errPhoneInvalid
	}

	// unicode.IsLetter rather than a fixed charset: customer names are not
	// restricted to ASCII.
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	if utf8.RuneCountInString(r.CustomerName) < 2 {
		return errNameTooShort
	}
	for _, ch := range r.CustomerName {
		if !unicode.IsLetter(ch) && !unicode.IsSpace(ch) {
			return errNameInvalid
		}
	}

	r.Address = strings.TrimSpace(r.Address)
	if r.Address == "" {
		return errAddressEmpty
	}

	for _, item := range r.Items {
		if item.Quantity <= 0 {
			return errQuantityInvalid
		}
	}
	return nil
}

func (bh *BaseHandler) createOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var order orderRequest
		if err := json.NewDecoder(req.Body).Decode(&order); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := order.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		items := make([]storage.NewOrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, storage.NewOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		orderID, err := bh.repo.CreateOrder(req.Context(), storage.NewOrder{
			CustomerName: order.CustomerName,
			Phone:        order.Phone,
			Address:      order.Address,
			Note:         order.Note,
		}, items)
		if errors.Is(err, storage.ErrProductUnknown) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		} else if err != nil {
			log.WithError(err).Error("create order")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		// The order is committed; the confirmation email runs detached from
		// the request so delivery trouble cannot fail the response.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := bh.notifier.OrderPlaced(ctx, orderID); err != nil {
				log.WithFields(log.Fields{"order_id": orderID}).
					WithError(err).Warn("order confirmation email failed")
			}
		}()

		writeJSON(w, http.StatusCreated, orderCreatedResponse{
			OrderID: orderID,
			Message: "Order placed",
		})
	}
}
