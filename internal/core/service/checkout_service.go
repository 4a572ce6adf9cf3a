package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

const (
	// giftThresholdCents is the discounted total above which a thank-you
	// coupon is issued for the next purchase.
	giftThresholdCents = 20000
	giftDiscount       = 10
	giftValidity       = 30 * 24 * time.Hour
)

// CheckoutService turns a cart into a hosted payment session and records the
// order once the provider reports payment.
type CheckoutService struct {
	products ports.ProductRepository
	coupons  ports.CouponRepository
	orders   ports.OrderRepository
	provider ports.PaymentProvider
	couponsv ports.CouponService
	log      zerolog.Logger
	now      func() time.Time
}

func NewCheckoutService(
	products ports.ProductRepository,
	coupons ports.CouponRepository,
	orders ports.OrderRepository,
	provider ports.PaymentProvider,
	couponService ports.CouponService,
	log zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		products: products,
		coupons:  coupons,
		orders:   orders,
		provider: provider,
		couponsv: couponService,
		log:      log,
		now:      time.Now,
	}
}

// CreateSession builds a provider checkout session for the requested items,
// applying the user's coupon when a valid code is presented.
func (s *CheckoutService) CreateSession(ctx context.Context, user *domain.User, items []ports.CheckoutItem, couponCode string) (*ports.CheckoutSessionResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	ids := make([]string, 0, len(items))
	quantities := make(map[string]int, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
		quantities[item.ProductID] = item.Quantity
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, domain.ErrProductNotFound
	}

	lines := make([]ports.CheckoutLine, 0, len(products))
	var total int64
	for _, p := range products {
		qty := quantities[p.ID]
		if qty <= 0 {
			qty = 1
		}
		unit := toCents(p.Price)
		total += unit * int64(qty)
		lines = append(lines, ports.CheckoutLine{
			ProductID:  p.ID,
			Name:       p.Name,
			Image:      p.Image,
			UnitAmount: unit,
			Quantity:   qty,
		})
	}

	discount := 0
	metadata := map[string]string{
		"user_id": user.ID,
		"items":   encodeItems(lines),
	}
	if couponCode != "" {
		coupon, err := s.couponsv.Validate(ctx, couponCode, user.ID)
		if err != nil {
			return nil, err
		}
		discount = coupon.DiscountPercentage
		metadata["coupon_code"] = coupon.Code
	}

	session, err := s.provider.CreateSession(ctx, lines, discount, metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: payment session creation failed", domain.ErrUpstream)
	}

	discounted := total - total*int64(discount)/100
	s.log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Int64("total_cents", discounted).Msg("checkout session created")
	return &ports.CheckoutSessionResult{
		SessionID:   session.ID,
		URL:         session.URL,
		TotalAmount: discounted,
	}, nil
}

// CompleteSession verifies the provider reports the session as paid, records
// the order, consumes the applied coupon, and gifts a new one on qualifying
// totals.
func (s *CheckoutService) CompleteSession(ctx context.Context, user *domain.User, sessionID string) (*domain.Order, error) {
	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: payment session lookup failed", domain.ErrUpstream)
	}
	if !session.Paid {
		return nil, domain.ErrPaymentPending
	}

	if code := session.Metadata["coupon_code"]; code != "" {
		if coupon, err := s.coupons.FindByCode(ctx, code, user.ID); err == nil {
			if err := s.coupons.Deactivate(ctx, coupon.ID); err != nil {
				s.log.Warn().Err(err).Str("coupon", code).Msg("coupon deactivation failed")
			}
		}
	}

	order := &domain.Order{
		UserID:      user.ID,
		Items:       orderItems(session),
		TotalAmount: float64(session.AmountTotal) / 100,
		SessionID:   session.ID,
		CreatedAt:   s.now().UTC(),
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if session.AmountTotal >= giftThresholdCents {
		s.giftCoupon(ctx, user.ID)
	}

	s.log.Info().Str("user_id", user.ID).Str("order_id", created.ID).Msg("order recorded")
	return created, nil
}

// giftCoupon issues a thank-you discount for the next purchase. Best effort:
// a persistence failure costs the user a perk, not the order.
func (s *CheckoutService) giftCoupon(ctx context.Context, userID string) {
	coupon := &domain.Coupon{
		Code:               "GIFT" + uuid.NewString()[:8],
		DiscountPercentage: giftDiscount,
		ExpirationDate:     s.now().Add(giftValidity),
		IsActive:           true,
		UserID:             userID,
	}
	if _, err := s.coupons.Replace(ctx, coupon); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("gift coupon creation failed")
	}
}

// encodeItems round-trips purchased lines through provider metadata as
// "productID:quantity:cents" comma-separated.
func encodeItems(lines []ports.CheckoutLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s:%d:%d", l.ProductID, l.Quantity, l.UnitAmount))
	}
	return strings.Join(parts, ",")
}

// orderItems reconstructs purchased lines from the provider session
// metadata. Malformed entries are skipped; the order total remains
// authoritative.
func orderItems(session *ports.PaymentSession) []domain.OrderItem {
	raw := session.Metadata["items"]
	if raw == "" {
		return nil
	}
	var items []domain.OrderItem
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			continue
		}
		qty, err1 := strconv.Atoi(fields[1])
		cents, err2 := strconv.ParseInt(fields[2], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		items = append(items, domain.OrderItem{
			ProductID: fields[0],
			Quantity:  qty,
			Price:     float64(cents) / 100,
		})
	}
	return items
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
