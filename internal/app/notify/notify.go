package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sugarwhisk/cupcake-shop/internal/app/client"
	"github.com/sugarwhisk/cupcake-shop/internal/app/storage"
)

// OrderNotifier mails the shop a summary of each placed order.
type OrderNotifier struct {
	repo   storage.OrderRepository
	client client.Client
	to     string
}

func NewOrderNotifier(repo storage.OrderRepository, client client.Client, to string) *OrderNotifier {
	return &OrderNotifier{
		repo:   repo,
		client: client,
		to:     to,
	}
}

// OrderPlaced loads a committed order and sends the confirmation email.
// Delivery failure never affects the order itself.
func (n *OrderNotifier) OrderPlaced(ctx context.Context, orderID int64) error {
	order, err := n.repo.OrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", orderID, err)
	}

	subject := fmt.Sprintf("New order #%d", order.ID)
	return n.client.SendMail(n.to, subject, buildBody(order))
}

func buildBody(order storage.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order #%d\n", order.ID)
	fmt.Fprintf(&b, "Time: %s\n", order.CreatedAt.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", order.Phone)
	fmt.Fprintf(&b, "Address: %s\n", order.Address)
	if order.Note != nil && *order.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", *order.Note)
	}
	b.WriteString("\nItems:\n")

	var total int64
	for _, item := range order.Items {
		flavour := ""
		if item.Flavour != nil && *item.Flavour != "" {
			flavour = " (" + *item.Flavour + ")"
		}
		fmt.Fprintf(&b, "- %s%s x %d = ₹%d\n", item.ProductName, flavour, item.Quantity, item.LineTotal)
		total += item.LineTotal
	}

	fmt.Fprintf(&b, "\nTotal: ₹%d", total)

	return b.String()
}
