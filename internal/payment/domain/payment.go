package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
)

// Method is how the guest settles the bill
type Method string

const (
	MethodCash   Method = "cash"
	MethodCard   Method = "card"
	MethodOnline Method = "online"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodOnline:
		return true
	}
	return false
}

// Status of a payment. Only pending payments change status, except paid
// payments which may be refunded.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// Payment is one settlement attempt for an order
type Payment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"not null;index"`
	OrderNumber   string          `json:"order_number" gorm:"size:40;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method        Method          `json:"payment_method" gorm:"size:20;not null;index"`
	Status        Status          `json:"payment_status" gorm:"size:20;not null;default:'pending';index"`
	TransactionID string          `json:"transaction_id,omitempty" gorm:"size:100;index"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty" gorm:"size:100"`
	PaidAt        *time.Time      `json:"paid_at,omitempty" gorm:"index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// MarkPaid settles a pending payment
func (p *Payment) MarkPaid(transactionID string, at time.Time) error {
	if p.Status != StatusPending {
		return apperror.Conflict("payment %d is %s, only pending payments can be processed", p.ID, p.Status)
	}
	p.Status = StatusPaid
	p.TransactionID = transactionID
	p.PaidAt = &at
	return nil
}

// MarkFailed records a declined pending payment
func (p *Payment) MarkFailed(reason string) error {
	if p.Status != StatusPending {
		return apperror.Conflict("payment %d is %s, only pending payments can fail", p.ID, p.Status)
	}
	p.Status = StatusFailed
	p.FailureReason = reason
	return nil
}

// MarkRefunded returns a settled payment. The order keeps its status.
func (p *Payment) MarkRefunded(reason string) error {
	if p.Status != StatusPaid {
		return apperror.Conflict("payment %d is %s, only paid payments can be refunded", p.ID, p.Status)
	}
	p.Status = StatusRefunded
	p.FailureReason = reason
	return nil
}

// MethodRevenue is the settled amount for one method in a period
type MethodRevenue struct {
	Method Method          `json:"payment_method"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uint) (*Payment, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*Payment, error)
	FindByOrder(ctx context.Context, orderID uint) ([]Payment, error)
	// RevenueByMethod groups payments that were paid in [from, to)
	RevenueByMethod(ctx context.Context, from, to time.Time) ([]MethodRevenue, error)
}
