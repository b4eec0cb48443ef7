package payments

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
)

var (
	_ PaymentRepository = (*repository.PaymentRepository)(nil)
	_ MemberRepository  = (*repository.MemberRepository)(nil)
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *repository.Payment) (*repository.Payment, error)
	List(ctx context.Context, filter repository.PaymentRepositoryFilter) ([]repository.Payment, error)
}

type MemberRepository interface {
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
}

type Payment struct {
	PaymentRepo PaymentRepository
	MemberRepo  MemberRepository
}

func New(paymentRepo PaymentRepository, memberRepo MemberRepository) *Payment {
	return &Payment{
		PaymentRepo: paymentRepo,
		MemberRepo:  memberRepo,
	}
}

// Log records a payment against a member. The ledger is append-only.
func (p *Payment) Log(ctx context.Context, orgID uuid.UUID, input dto.LogPaymentInput) (*dto.Payment, error) {
	member, err := p.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		ID:             &input.MemberID,
		OrganizationID: &orgID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Member not found",
			}
		}
		return nil, err
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	created, err := p.PaymentRepo.Create(ctx, &repository.Payment{
		MemberID:       member.ID,
		FamilyGroupID:  member.FamilyGroupID,
		OrganizationID: member.OrganizationID,
		AmountCents:    input.AmountCents,
		Method:         input.Method,
		PaidAt:         paidAt,
		Notes:          repository.NullableString(input.Notes),
	})
	if err != nil {
		return nil, err
	}

	return mapRepositoryToHandler(created), nil
}

func (p *Payment) List(ctx context.Context, orgID uuid.UUID, memberID *uuid.UUID, limit uint64) ([]*dto.Payment, error) {
	if limit == 0 {
		limit = 50
	}

	payments, err := p.PaymentRepo.List(ctx, repository.PaymentRepositoryFilter{
		OrganizationID: &orgID,
		MemberID:       memberID,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.Payment, 0, len(payments))
	for _, row := range payments {
		result = append(result, mapRepositoryToHandler(&row))
	}
	return result, nil
}

func mapRepositoryToHandler(payment *repository.Payment) *dto.Payment {
	return &dto.Payment{
		ID:          payment.ID,
		MemberID:    payment.MemberID,
		AmountCents: payment.AmountCents,
		Method:      payment.Method,
		PaidAt:      payment.PaidAt,
		Notes:       payment.Notes.String,
	}
}
