package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/CakeInTech/faydapass/internal/bootstrap"
	"github.com/CakeInTech/faydapass/internal/config"
	"github.com/CakeInTech/faydapass/internal/repository"
	"github.com/CakeInTech/faydapass/internal/service"

	"gotest.tools/v3/assert"
)

func setupVerificationService(t *testing.T) *service.VerificationService {
	app := bootstrap.NewBootstrapApp(config.Config{})

	db, err := app.SetupDatabase(":memory:")
	assert.NilError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return service.NewVerificationService(repository.New(db))
}

func TestRecordVerification(t *testing.T) {
	ctx := context.Background()
	svc := setupVerificationService(t)

	claims := service.NormalizeClaims(map[string]any{
		"sub":     "u1",
		"email":   "a@b.com",
		"name#en": "Foo",
	})

	record, err := svc.Create(ctx, claims)
	assert.NilError(t, err)

	assert.Equal(t, "a@b.com", record.UserEmail)
	assert.Equal(t, "success", record.Status)
	assert.Equal(t, "KYC", record.Type)
	assert.Equal(t, "u1", record.FaydaID)
	assert.Equal(t, "fayda", record.ApiProvider)
	assert.Assert(t, record.ID != "")
	assert.Assert(t, record.CreatedAt > 0)

	var metadata map[string]any
	assert.NilError(t, json.Unmarshal([]byte(record.Metadata), &metadata))
	assert.Equal(t, "Foo", metadata["name_en"])

	stored, err := svc.Get(ctx, record.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, record, stored)
}

func TestRecordVerificationEmailFallback(t *testing.T) {
	ctx := context.Background()
	svc := setupVerificationService(t)

	assert.NilError(t, svc.RecordVerification(ctx, service.NormalizeClaims(map[string]any{"sub": "u2"})))
	assert.NilError(t, svc.RecordVerification(ctx, service.NormalizeClaims(map[string]any{"sub": "u2"})))

	records, err := svc.ListByFaydaID(ctx, "u2")
	assert.NilError(t, err)
	assert.Equal(t, 2, len(records))
	assert.Equal(t, "u2", records[0].UserEmail)
}

func TestRecordVerificationWithoutSubject(t *testing.T) {
	svc := setupVerificationService(t)

	err := svc.RecordVerification(context.Background(), service.NormalizeClaims(map[string]any{"email": "a@b.com"}))
	assert.ErrorContains(t, err, "no subject")
}
