package service

import (
	"context"

	"github.com/elayeboussama/University-Order-Management-System/model"
)

// OrderRecords is the persistence boundary for orders, signatures and
// profiles. *OrderStore is the production implementation.
type OrderRecords interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	LoadAll(ctx context.Context) ([]model.Order, error)
	RecordSignature(ctx context.Context, orderID, userID string, image []byte) (*model.Signature, error)
	UpdateOrderPDFURL(ctx context.Context, orderID, url string) error
	RejectOrder(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
}

// Artifacts is the content-storage boundary. *ArtifactStore is the
// production implementation.
type Artifacts interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string, upsert bool) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
	Remove(ctx context.Context, objectName string) error
	ObjectNameFromURL(url string) (string, bool)
}

// Stamper mutates a PDF by embedding a signature raster and caption.
type Stamper interface {
	Stamp(pdf, image []byte, x, y float64, caption string) ([]byte, error)
}
