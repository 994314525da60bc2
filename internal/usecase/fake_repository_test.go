package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	"github.com/dormdeli/payment-service/internal/domain/model"
)

// fakePaymentRepo is an in-memory PaymentRepository with the same semantics
// as the database-backed one: at most one non-FAILED payment per order, and
// UpdateIfPending applies only while the record is still PENDING.
type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{}
}

func (r *fakePaymentRepo) Save(_ context.Context, payment *model.Payment) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.OrderID == payment.OrderID && p.Status != model.StatusFailed {
			return nil, domainErrors.ErrDuplicateOrder
		}
	}

	stored := clonePayment(payment)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	r.payments = append(r.payments, stored)
	return clonePayment(stored), nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.ID == id {
			return clonePayment(p), nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByOrderID(_ context.Context, orderID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *model.Payment
	for _, p := range r.payments {
		if p.OrderID != orderID {
			continue
		}
		if p.Status != model.StatusFailed {
			return clonePayment(p), nil
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	return clonePayment(latest), nil
}

func (r *fakePaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			return clonePayment(p), nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByUserID(_ context.Context, userID string) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Payment
	for _, p := range r.payments {
		if p.UserID != nil && *p.UserID == userID {
			result = append(result, clonePayment(p))
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) FindByStatus(_ context.Context, status model.PaymentStatus) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Payment
	for _, p := range r.payments {
		if p.Status == status {
			result = append(result, clonePayment(p))
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) FindByUserIDAndStatus(_ context.Context, userID string, status model.PaymentStatus) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Payment
	for _, p := range r.payments {
		if p.UserID != nil && *p.UserID == userID && p.Status == status {
			result = append(result, clonePayment(p))
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) UpdateIfPending(_ context.Context, orderID string, fields map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.OrderID != orderID || p.Status != model.StatusPending {
			continue
		}
		applyFields(p, fields)
		p.UpdatedAt = time.Now()
		return true, nil
	}
	return false, nil
}

func (r *fakePaymentRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.payments {
		if p.ID == id {
			r.payments = append(r.payments[:i], r.payments[i+1:]...)
			return nil
		}
	}
	return nil
}

func applyFields(p *model.Payment, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "status":
			p.Status = value.(model.PaymentStatus)
		case "transaction_id":
			v := value.(string)
			p.TransactionID = &v
		case "completed_at":
			v := value.(time.Time)
			p.CompletedAt = &v
		case "error_message":
			v := value.(string)
			p.ErrorMessage = &v
		case "payment_url":
			v := value.(string)
			p.PaymentURL = &v
		}
	}
}

func clonePayment(p *model.Payment) *model.Payment {
	c := *p
	return &c
}
