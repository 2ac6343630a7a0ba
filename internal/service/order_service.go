package service

import (
	"context"
	"fmt"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/pricing"
	"coffee-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService turns carts and single-item buyouts into orders.
type OrderService struct {
	repo        *repository.Repository
	publisher   EventPublisher
	broadcaster Broadcaster
	idempotency *Idempotency
	location    *time.Location
	now         func() time.Time
}

// NewOrderService creates a new instance of OrderService. publisher,
// broadcaster and idempotency may be nil.
func NewOrderService(repo *repository.Repository, publisher EventPublisher, broadcaster Broadcaster, idempotency *Idempotency, location *time.Location) *OrderService {
	if location == nil {
		location = time.Local
	}
	return &OrderService{
		repo:        repo,
		publisher:   publisher,
		broadcaster: broadcaster,
		idempotency: idempotency,
		location:    location,
		now:         time.Now,
	}
}

type PaymentInput struct {
	Method    string           `json:"method"`
	Reference string           `json:"reference"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}

type CheckoutRequest struct {
	DiscountID    *uint         `json:"discount_id"`
	PickupTime    *time.Time    `json:"pickup_time"`
	Payment       *PaymentInput `json:"payment"`
	IdempotentKey string        `json:"-"`
}

type BuyoutRequest struct {
	CustomerID    uint             `json:"customer_id"`
	VariantID     uint             `json:"variant_id"`
	Quantity      int              `json:"quantity"`
	Addons        []AddonSelection `json:"addons"`
	DiscountID    *uint            `json:"discount_id"`
	PickupTime    *time.Time       `json:"pickup_time"`
	Payment       *PaymentInput    `json:"payment"`
	IdempotentKey string           `json:"-"`
}

type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

// OrderQuery is the caller-facing filter for ListOrders.
type OrderQuery struct {
	CustomerID uint
	Status     string
	Day        string // YYYY-MM-DD in the shop's time zone
}

// FormatOrderNumber renders the n-th order of a day as CH-0001.
func FormatOrderNumber(n int) string {
	return fmt.Sprintf("CH-%04d", n)
}

// Checkout converts the customer's active cart into an order. Everything
// from reading the cart to closing it happens in one transaction.
func (s *OrderService) Checkout(ctx context.Context, customerID uint, req CheckoutRequest) (*entity.Order, error) {
	if err := s.idempotency.Claim(ctx, req.IdempotentKey); err != nil {
		return nil, err
	}

	var (
		order *entity.Order
		note  *entity.Notification
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		cart, err := tx.GetActiveCart(ctx, customerID, true)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperror.NewNotFound("cart for customer %d is empty", customerID)
		}

		lines := make([]pricing.Line, 0, len(cart.Items))
		items := make([]entity.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			line := pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
			var addons []entity.OrderItemAddon
			for _, a := range item.Addons {
				line.Addons = append(line.Addons, pricing.AddonLine{Price: a.Price, Quantity: a.Quantity})
				addons = append(addons, entity.OrderItemAddon{AddonID: a.AddonID, Quantity: a.Quantity, PriceAtPurchase: a.Price})
			}
			lines = append(lines, line)
			items = append(items, entity.OrderItem{
				VariantID:       item.VariantID,
				Quantity:        item.Quantity,
				PriceAtPurchase: line.Subtotal(),
				Addons:          addons,
			})
		}

		discount, err := loadDiscount(ctx, tx, customerID, req.DiscountID)
		if err != nil {
			return err
		}
		quote, err := pricing.QuoteCart(lines, discount)
		if err != nil {
			return err
		}

		order, note, err = s.placeOrder(ctx, tx, customerID, items, quote, discount, req.PickupTime, req.Payment)
		if err != nil {
			return err
		}
		return tx.CloseCart(ctx, cart.ID, entity.CartStatusCheckedOut)
	})
	if err != nil {
		s.idempotency.Release(ctx, req.IdempotentKey)
		logger.Error().Err(err).Msgf("Error checking out cart for customer %d", customerID)
		return nil, err
	}

	s.announce(ctx, order, note)
	return order, nil
}

// Buyout places a single-item order without touching the cart.
func (s *OrderService) Buyout(ctx context.Context, req BuyoutRequest) (*entity.Order, error) {
	if req.Quantity < 1 {
		return nil, apperror.NewValidation("quantity must be at least 1")
	}
	for _, a := range req.Addons {
		if a.Quantity < 1 {
			return nil, apperror.NewValidation("addon quantity must be at least 1")
		}
	}
	if err := s.idempotency.Claim(ctx, req.IdempotentKey); err != nil {
		return nil, err
	}

	var (
		order *entity.Order
		note  *entity.Notification
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetCustomer(ctx, req.CustomerID); err != nil {
			return err
		}
		variant, err := tx.GetVariant(ctx, req.VariantID)
		if err != nil {
			return err
		}
		addons, err := tx.GetAddons(ctx, addonIDs(req.Addons))
		if err != nil {
			return err
		}

		line := pricing.Line{UnitPrice: variant.Price, Quantity: req.Quantity}
		var itemAddons []entity.OrderItemAddon
		for _, sel := range req.Addons {
			price := addons[sel.AddonID].Price
			line.Addons = append(line.Addons, pricing.AddonLine{Price: price, Quantity: sel.Quantity})
			itemAddons = append(itemAddons, entity.OrderItemAddon{AddonID: sel.AddonID, Quantity: sel.Quantity, PriceAtPurchase: price})
		}

		discount, err := loadDiscount(ctx, tx, req.CustomerID, req.DiscountID)
		if err != nil {
			return err
		}
		quote, err := pricing.QuoteLine(line, discount)
		if err != nil {
			return err
		}

		items := []entity.OrderItem{{
			VariantID:       variant.ID,
			Quantity:        req.Quantity,
			PriceAtPurchase: line.Subtotal(),
			Addons:          itemAddons,
		}}
		order, note, err = s.placeOrder(ctx, tx, req.CustomerID, items, quote, discount, req.PickupTime, req.Payment)
		return err
	})
	if err != nil {
		s.idempotency.Release(ctx, req.IdempotentKey)
		logger.Error().Err(err).Msgf("Error placing buyout for customer %d", req.CustomerID)
		return nil, err
	}

	s.announce(ctx, order, note)
	return order, nil
}

// placeOrder redeems the discount, numbers and writes the order, and queues
// the barista notification. It must run inside a transaction.
func (s *OrderService) placeOrder(ctx context.Context, tx *repository.Repository, customerID uint, items []entity.OrderItem,
	quote pricing.Quote, discount *entity.Discount, pickup *time.Time, payment *PaymentInput) (*entity.Order, *entity.Notification, error) {
	now := s.now()

	var discountID *uint
	if discount != nil {
		redeemed, err := tx.RedeemDiscount(ctx, discount.ID, now)
		if err != nil {
			return nil, nil, err
		}
		if !redeemed {
			return nil, nil, apperror.NewConflict("discount %d already redeemed", discount.ID)
		}
		id := discount.ID
		discountID = &id
	}

	day := now.In(s.location).Format("2006-01-02")
	seq, err := tx.NextOrderSequence(ctx, day)
	if err != nil {
		return nil, nil, err
	}

	order := &entity.Order{
		CustomerID:      customerID,
		OrderDay:        day,
		OrderNumber:     FormatOrderNumber(seq),
		TotalAmount:     quote.Total,
		DiscountApplied: quote.DiscountAmount,
		DiscountID:      discountID,
		PickupTime:      pickup,
		Status:          entity.OrderStatusPending,
		PaymentStatus:   entity.PaymentStatusUnpaid,
		Items:           items,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, nil, err
	}

	if payment != nil {
		if _, err := createPaymentMethod(ctx, tx, order, *payment); err != nil {
			return nil, nil, err
		}
	}

	note := &entity.Notification{
		Audience: entity.AudienceStaff,
		Message:  fmt.Sprintf("New order %s: %d item(s), total %s", order.OrderNumber, countUnits(items), order.TotalAmount.StringFixed(2)),
	}
	if err := tx.CreateNotification(ctx, note); err != nil {
		return nil, nil, err
	}
	return order, note, nil
}

func countUnits(items []entity.OrderItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func loadDiscount(ctx context.Context, tx *repository.Repository, customerID uint, id *uint) (*entity.Discount, error) {
	if id == nil {
		return nil, nil
	}
	discount, err := tx.GetDiscount(ctx, *id)
	if err != nil {
		return nil, err
	}
	if discount.CustomerID != nil && *discount.CustomerID != customerID {
		return nil, apperror.NewValidation("discount %d belongs to another customer", discount.ID)
	}
	if discount.IsRedeemed {
		return nil, apperror.NewConflict("discount %d already redeemed", discount.ID)
	}
	return discount, nil
}

// announce runs after commit; failures are logged, never rolled back.
func (s *OrderService) announce(ctx context.Context, order *entity.Order, note *entity.Notification) {
	s.publish(ctx, order, OrderEventCreated)
	if s.broadcaster != nil {
		s.broadcaster.Broadcast("order.created", order)
		if note != nil {
			s.broadcaster.Broadcast("notification", note)
		}
	}
}

func (s *OrderService) publish(ctx context.Context, order *entity.Order, kind string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, order, kind); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event for order %d", kind, order.ID)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*entity.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, q OrderQuery) ([]entity.Order, error) {
	filter := repository.OrderFilter{CustomerID: q.CustomerID}
	if q.Status != "" {
		status, ok := entity.ParseOrderStatus(q.Status)
		if !ok {
			return nil, apperror.NewValidation("invalid order status %q", q.Status)
		}
		filter.Status = status
	}
	if q.Day != "" {
		day, err := time.ParseInLocation("2006-01-02", q.Day, s.location)
		if err != nil {
			return nil, apperror.NewValidation("invalid day %q, want YYYY-MM-DD", q.Day)
		}
		filter.From, filter.To = day, day.AddDate(0, 0, 1)
	}
	return s.repo.ListOrders(ctx, filter)
}

// UpdateOrder changes status and/or payment status. Both values must be
// members of their enums. Customer notifications and the cancelled event
// only follow a real status change.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, req UpdateOrderRequest) (*entity.Order, error) {
	if req.Status == nil && req.PaymentStatus == nil {
		return nil, apperror.NewValidation("status or payment_status is required")
	}
	fields := map[string]interface{}{}
	var status entity.OrderStatus
	if req.Status != nil {
		var ok bool
		if status, ok = entity.ParseOrderStatus(*req.Status); !ok {
			return nil, apperror.NewValidation("invalid order status %q", *req.Status)
		}
		fields["status"] = status
	}
	if req.PaymentStatus != nil {
		paymentStatus, ok := entity.ParsePaymentStatus(*req.PaymentStatus)
		if !ok {
			return nil, apperror.NewValidation("invalid payment status %q", *req.PaymentStatus)
		}
		fields["payment_status"] = paymentStatus
	}

	var order *entity.Order
	var transitioned bool
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		previous, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}
		if previous.Status == entity.OrderStatusCancelled && status != "" && status != entity.OrderStatusCancelled {
			return apperror.NewConflict("order %s is cancelled", previous.OrderNumber)
		}
		transitioned = status != "" && status != previous.Status
		if err := tx.UpdateOrder(ctx, id, fields); err != nil {
			return err
		}
		if order, err = tx.GetOrder(ctx, id); err != nil {
			return err
		}
		if !transitioned {
			return nil
		}
		if msg := statusMessage(order.OrderNumber, status); msg != "" {
			customerID := order.CustomerID
			return tx.CreateNotification(ctx, &entity.Notification{
				Audience:   entity.AudienceCustomer,
				CustomerID: &customerID,
				Message:    msg,
			})
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating order %d", id)
		return nil, err
	}

	// Stock is released on cancelled, so it must fire once per order.
	kind := OrderEventUpdated
	if transitioned && status == entity.OrderStatusCancelled {
		kind = OrderEventCancelled
	}
	s.publish(ctx, order, kind)
	return order, nil
}

func statusMessage(number string, status entity.OrderStatus) string {
	switch status {
	case entity.OrderStatusPreparing:
		return fmt.Sprintf("Your order %s is being prepared", number)
	case entity.OrderStatusReadyToPickup:
		return fmt.Sprintf("Your order %s is ready for pickup", number)
	case entity.OrderStatusCancelled:
		return fmt.Sprintf("Your order %s was cancelled", number)
	}
	return ""
}

// DeleteOrder soft-deletes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.repo.SoftDeleteOrder(ctx, id, s.now())
}

func (s *OrderService) CreatePaymentMethod(ctx context.Context, orderID uint, input PaymentInput) (*entity.PaymentMethod, error) {
	var pm *entity.PaymentMethod
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		pm, err = createPaymentMethod(ctx, tx, order, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pm, nil
}

func createPaymentMethod(ctx context.Context, tx *repository.Repository, order *entity.Order, input PaymentInput) (*entity.PaymentMethod, error) {
	method, ok := entity.ParsePaymentType(input.Method)
	if !ok {
		return nil, apperror.NewValidation("invalid payment method %q", input.Method)
	}
	amount := order.TotalAmount
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return nil, apperror.NewValidation("payment amount cannot be negative")
		}
		amount = *input.Amount
	}
	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}
	pm := &entity.PaymentMethod{OrderID: order.ID, Method: method, Reference: reference, Amount: amount}
	if err := tx.CreatePaymentMethod(ctx, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

func (s *OrderService) GetPaymentMethod(ctx context.Context, id uint) (*entity.PaymentMethod, error) {
	return s.repo.GetPaymentMethod(ctx, id)
}

func (s *OrderService) ListPaymentMethods(ctx context.Context, orderID uint) ([]entity.PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx, orderID)
}

func (s *OrderService) DeletePaymentMethod(ctx context.Context, id uint) error {
	return s.repo.SoftDeletePaymentMethod(ctx, id, s.now())
}
