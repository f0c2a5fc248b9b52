package services

import (
	"context"

	"rentique/pkg/imagestore"
)

// EventPublisher publishes domain events to the message broker. Order
// creation and remote image cleanup go through it; a nil publisher is
// tolerated by the services (events are skipped with a log line).
type EventPublisher interface {
	PublishOrderCreated(event map[string]interface{}) error
	PublishImageCleanup(publicID string) error
}

// ImageStore is the external image-hosting capability: raw image data
// in, durable URL plus deletion handle out.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, filename string) (imagestore.Asset, error)
	Delete(ctx context.Context, publicID string) error
	// PublicID extracts the deletion handle from a URL when the asset
	// is hosted by this store.
	PublicID(url string) (string, bool)
}
