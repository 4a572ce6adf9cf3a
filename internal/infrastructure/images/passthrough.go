// Package images provides the image-hosting collaborator. Hosting is
// external to this service; Passthrough is the no-op adapter that accepts
// already-hosted URLs unchanged.
package images

import "context"

type Passthrough struct{}

func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// Upload returns the given URL as-is.
func (Passthrough) Upload(_ context.Context, image string) (string, error) {
	return image, nil
}

// Remove is a no-op.
func (Passthrough) Remove(_ context.Context, _ string) error {
	return nil
}
