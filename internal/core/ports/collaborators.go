package ports

import "context"

// Mailer dispatches transactional email. Implementations must bound every
// send with a timeout; signup treats a dispatch failure of the verification
// code as fatal.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailJob is a best-effort notification handed to the background mail
// dispatcher. Delivery failure is logged and counted, never surfaced.
type MailJob struct {
	To      string
	Subject string
	Body    string
}

// ImageStore abstracts product image hosting. The storefront only needs
// upload and best-effort removal.
type ImageStore interface {
	// Upload stores the image (data URI or URL) and returns its public URL.
	Upload(ctx context.Context, image string) (string, error)
	Remove(ctx context.Context, url string) error
}
