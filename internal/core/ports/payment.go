package ports

import "context"

// CheckoutLine is one product entering a payment session.
type CheckoutLine struct {
	ProductID string
	Name      string
	Image     string
	// UnitAmount is the price in cents.
	UnitAmount int64
	Quantity   int
}

// PaymentSession is the provider-side checkout session.
type PaymentSession struct {
	ID  string
	URL string
	// AmountTotal is the charged total in cents.
	AmountTotal int64
	Paid        bool
	// Metadata round-trips order context through the provider.
	Metadata map[string]string
}

// PaymentProvider is the external payment collaborator. The storefront never
// handles card data; it creates hosted checkout sessions and inspects their
// outcome.
type PaymentProvider interface {
	CreateSession(ctx context.Context, lines []CheckoutLine, discountPercentage int, metadata map[string]string) (*PaymentSession, error)
	RetrieveSession(ctx context.Context, id string) (*PaymentSession, error)
}
