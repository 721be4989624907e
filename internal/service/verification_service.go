package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CakeInTech/faydapass/internal/config"
	"github.com/CakeInTech/faydapass/internal/repository"

	"github.com/google/uuid"
)

const (
	VerificationStatusSuccess = "success"
	VerificationTypeKYC       = "KYC"
)

type VerificationService struct {
	queries *repository.Queries
	now     func() time.Time
}

func NewVerificationService(queries *repository.Queries) *VerificationService {
	return &VerificationService{
		queries: queries,
		now:     time.Now,
	}
}

// RecordVerification stores the outcome of a successful userinfo resolution.
func (verification *VerificationService) RecordVerification(ctx context.Context, claims *UserinfoClaims) error {
	_, err := verification.Create(ctx, claims)
	return err
}

func (verification *VerificationService) Create(ctx context.Context, claims *UserinfoClaims) (repository.Verification, error) {
	if claims.FaydaID == "" {
		return repository.Verification{}, fmt.Errorf("claims have no subject")
	}

	metadata, err := json.Marshal(claims.Raw)
	if err != nil {
		return repository.Verification{}, fmt.Errorf("failed to encode claims: %w", err)
	}

	userEmail := claims.Email
	if userEmail == "" {
		userEmail = claims.Sub
	}

	record, err := verification.queries.CreateVerification(ctx, repository.CreateVerificationParams{
		ID:          uuid.New().String(),
		UserEmail:   userEmail,
		Status:      VerificationStatusSuccess,
		Type:        VerificationTypeKYC,
		FaydaID:     claims.FaydaID,
		ApiProvider: config.APIProviderFayda,
		Metadata:    string(metadata),
		CreatedAt:   verification.now().Unix(),
	})

	if err != nil {
		return repository.Verification{}, fmt.Errorf("failed to store verification: %w", err)
	}

	return record, nil
}

func (verification *VerificationService) Get(ctx context.Context, id string) (repository.Verification, error) {
	return verification.queries.GetVerification(ctx, id)
}

func (verification *VerificationService) ListByFaydaID(ctx context.Context, faydaID string) ([]repository.Verification, error) {
	return verification.queries.ListVerificationsByFaydaID(ctx, faydaID)
}
