package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elayeboussama/University-Order-Management-System/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStore persists orders, signatures and profiles in the relational
// store. It is the sole read path the handlers use; after every mutation
// callers re-load the full aggregate rather than patching local state.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// CreateOrder inserts a new order in the pending state.
func (s *OrderStore) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.SubmittedAt.IsZero() {
		order.SubmittedAt = time.Now()
	}
	order.Status = model.StatusPending

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetOrder loads a single order with its signatures in application order.
func (s *OrderStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Signatures", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	order.Status = model.DeriveStatus(order.Status, len(order.Signatures))
	return &order, nil
}

// LoadAll returns every order, newest submission first, each with its full
// signature list eagerly joined. Status is recomputed from the signature
// count on every load.
func (s *OrderStore) LoadAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Signatures", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("submitted_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	for i := range orders {
		orders[i].Status = model.DeriveStatus(orders[i].Status, len(orders[i].Signatures))
	}
	return orders, nil
}

// RecordSignature inserts an immutable signature row and persists the newly
// derived order status in the same transaction. Each (order, signer) pair
// may sign at most once.
func (s *OrderStore) RecordSignature(ctx context.Context, orderID, userID string, image []byte) (*model.Signature, error) {
	sig := &model.Signature{
		ID:            uuid.New().String(),
		OrderID:       orderID,
		UserID:        userID,
		SignatureData: image,
		CreatedAt:     time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrOrderNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&model.Signature{}).
			Where("order_id = ? AND user_id = ?", orderID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return model.ErrDuplicateSignature
		}

		if err := tx.Create(sig).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Signature{}).
			Where("order_id = ?", orderID).
			Count(&count).Error; err != nil {
			return err
		}

		status := model.DeriveStatus(order.Status, int(count))
		return tx.Model(&model.Order{}).
			Where("id = ?", orderID).
			Update("status", status).Error
	})
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) || errors.Is(err, model.ErrDuplicateSignature) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record signature: %w", err)
	}

	return sig, nil
}

// UpdateOrderPDFURL points the order at its latest signed artifact. This is
// deliberately a separate write from RecordSignature; a failure between the
// two leaves a recorded signature with a stale PDF URL, surfaced on the
// next full load.
func (s *OrderStore) UpdateOrderPDFURL(ctx context.Context, orderID, url string) error {
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("pdf_url", url)
	if res.Error != nil {
		return fmt.Errorf("failed to update order PDF URL: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// RejectOrder moves an order into the terminal rejected state.
func (s *OrderStore) RejectOrder(ctx context.Context, orderID string) error {
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", model.StatusRejected)
	if res.Error != nil {
		return fmt.Errorf("failed to reject order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// DeleteOrder removes the order and its signature records, returning the
// deleted order so callers can clean up its storage artifacts.
func (s *OrderStore) DeleteOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.Signature{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, "id = ?", orderID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	return order, nil
}

// GetProfile loads a profile by id.
func (s *OrderStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByEmail loads a profile by email.
func (s *OrderStore) GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
