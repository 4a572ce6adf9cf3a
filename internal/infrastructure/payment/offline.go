// Package payment provides the payment-provider collaborator. The real
// provider is external to this service; OfflineProvider is the keyless
// stand-in used in development and tests, mirroring the hosted-checkout
// contract (create a session, redirect, retrieve its outcome).
package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// OfflineProvider keeps sessions in memory and reports every created
// session as paid on retrieval.
type OfflineProvider struct {
	mu       sync.Mutex
	sessions map[string]*ports.PaymentSession
}

func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{sessions: make(map[string]*ports.PaymentSession)}
}

func (p *OfflineProvider) CreateSession(_ context.Context, lines []ports.CheckoutLine, discountPercentage int, metadata map[string]string) (*ports.PaymentSession, error) {
	var total int64
	for _, l := range lines {
		total += l.UnitAmount * int64(l.Quantity)
	}
	total -= total * int64(discountPercentage) / 100

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	session := &ports.PaymentSession{
		ID:          "cs_" + uuid.NewString(),
		URL:         fmt.Sprintf("https://checkout.local/pay/%s", uuid.NewString()),
		AmountTotal: total,
		Paid:        true,
		Metadata:    meta,
	}

	p.mu.Lock()
	p.sessions[session.ID] = session
	p.mu.Unlock()
	return session, nil
}

func (p *OfflineProvider) RetrieveSession(_ context.Context, id string) (*ports.PaymentSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment session %q", domain.ErrPaymentPending, id)
	}
	clone := *session
	return &clone, nil
}
