package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sugarwhisk/cupcake-shop/internal/app/storage"
)

type fakeRepo struct {
	order storage.Order
	err   error
	gotID int64
}

func (f *fakeRepo) ActiveProducts(ctx context.Context) ([]storage.Product, error) {
	return nil, nil
}

func (f *fakeRepo) CreateOrder(ctx context.Context, order storage.NewOrder, items []storage.NewOrderItem) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) OrderByID(ctx context.Context, orderID int64) (storage.Order, error) {
	f.gotID = orderID
	return f.order, f.err
}

func (f *fakeRepo) PendingOrders(ctx context.Context) ([]storage.Order, error) {
	return nil, nil
}

func (f *fakeRepo) CompleteOrder(ctx context.Context, orderID int64) error {
	return nil
}

func (f *fakeRepo) Analytics(ctx context.Context, from *time.Time, to *time.Time) (storage.Analytics, error) {
	return storage.Analytics{}, nil
}

type recordingClient struct {
	calls   int
	to      string
	subject string
	body    string
	err     error
}

func (c *recordingClient) SendMail(to string, subj string, msg string) error {
	c.calls++
	c.to = to
	c.subject = subj
	c.body = msg
	return c.err
}

func strPtr(s string) *string { return &s }

func testOrder() storage.Order {
	return storage.Order{
		ID:           42,
		CustomerName: "Asha Rao",
		Phone:        "9876543210",
		Address:      "12 Baker Lane",
		Note:         strPtr("ring the bell"),
		CreatedAt:    time.Date(2024, 6, 15, 14, 5, 9, 0, time.UTC),
		Items: []storage.OrderItem{
			{ProductName: "Cupcake Box", Flavour: strPtr("chocolate"), Quantity: 2, LineTotal: 360},
			{ProductName: "Brownie", Quantity: 1, LineTotal: 120},
		},
	}
}

func TestOrderPlaced(t *testing.T) {
	repo := &fakeRepo{order: testOrder()}
	mail := &recordingClient{}
	n := NewOrderNotifier(repo, mail, "owner@example.com")

	if err := n.OrderPlaced(context.Background(), 42); err != nil {
		t.Fatal(err)
	}

	if repo.gotID != 42 {
		t.Errorf("loaded order %d, want 42", repo.gotID)
	}
	if mail.calls != 1 {
		t.Fatalf("SendMail called %d times, want 1", mail.calls)
	}
	if mail.to != "owner@example.com" {
		t.Errorf("to = %q, want owner@example.com", mail.to)
	}
	if mail.subject != "New order #42" {
		t.Errorf("subject = %q", mail.subject)
	}

	wantLines := []string{
		"New order #42",
		"Time: 15/06/2024 14:05:09",
		"Customer: Asha Rao",
		"Phone: 9876543210",
		"Address: 12 Baker Lane",
		"Note: ring the bell",
		"- Cupcake Box (chocolate) x 2 = ₹360",
		"- Brownie x 1 = ₹120",
		"Total: ₹480",
	}
	for _, line := range wantLines {
		if !strings.Contains(mail.body, line) {
			t.Errorf("body missing %q\nbody:\n%s", line, mail.body)
		}
	}
}

func TestOrderPlacedNoNote(t *testing.T) {
	order := testOrder()
	order.Note = nil
	repo := &fakeRepo{order: order}
	mail := &recordingClient{}
	n := NewOrderNotifier(repo, mail, "owner@example.com")

	if err := n.OrderPlaced(context.Background(), 42); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(mail.body, "Note:") {
		t.Errorf("body should omit empty note:\n%s", mail.body)
	}
}

func TestOrderPlacedLoadError(t *testing.T) {
	repo := &fakeRepo{err: storage.ErrOrderNotFound}
	mail := &recordingClient{}
	n := NewOrderNotifier(repo, mail, "owner@example.com")

	err := n.OrderPlaced(context.Background(), 7)
	if !errors.Is(err, storage.ErrOrderNotFound) {
		t.Fatalf("err = %v, want wrapped ErrOrderNotFound", err)
	}
	if mail.calls != 0 {
		t.Errorf("SendMail called %d times on load failure", mail.calls)
	}
}

func TestOrderPlacedSendError(t *testing.T) {
	repo := &fakeRepo{order: testOrder()}
	mail := &recordingClient{err: errors.New("connection refused")}
	n := NewOrderNotifier(repo, mail, "owner@example.com")

	if err := n.OrderPlaced(context.Background(), 42); err == nil {
		t.Fatal("expected delivery error to surface")
	}
}
