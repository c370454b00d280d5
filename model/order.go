package model

import (
	"time"
)

// Order represents a submitted document workflow requiring approver signatures
type Order struct {
	ID           string      `json:"id" gorm:"primaryKey;type:uuid"`
	Title        string      `json:"title" gorm:"not null"`
	Description  string      `json:"description"`
	SubmittedBy  string      `json:"submitted_by" gorm:"type:uuid;index"`
	SubmittedAt  time.Time   `json:"submitted_at"`
	Status       string      `json:"status" gorm:"not null"`
	DocumentPath string      `json:"document_path"`
	PDFURL       string      `json:"pdf_url" gorm:"column:pdf_url"`
	Department   string      `json:"department" gorm:"index"`
	Notes        string      `json:"notes,omitempty"`
	Signatures   []Signature `json:"signatures" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Signature is an immutable record of one approver's consent.
// A correction requires a new signature, never an edit.
type Signature struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	OrderID       string    `json:"order_id" gorm:"type:uuid;uniqueIndex:idx_order_signer;not null"`
	UserID        string    `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_order_signer;not null"`
	SignatureData []byte    `json:"signature_data" gorm:"type:bytea"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderStatus constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// RequiredSignatures is the number of approver signatures an order needs
// before it is approved.
const RequiredSignatures = 2

// DeriveStatus computes an order's status purely from its signature count.
// Rejected is terminal: derivation never overrides it.
func DeriveStatus(current string, signatureCount int) string {
	if current == StatusRejected {
		return StatusRejected
	}
	switch {
	case signatureCount == 0:
		return StatusPending
	case signatureCount < RequiredSignatures:
		return StatusProcessing
	default:
		return StatusApproved
	}
}
