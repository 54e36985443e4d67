package services_test

import (
	"context"
	"testing"

	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"
	"barber_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CRUDAndSearch(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).CatalogService
	ctx := context.Background()

	created, err := svc.CreateService(ctx, db, &dto.CreateServiceRequest{
		Name:        "Королевское бритье",
		Description: "Бритье опасной бритвой с горячим полотенцем",
		Price:       1500,
	})
	require.NoError(t, err)
	helpers.CreateService(t, db, "Haircut", 800)

	page, err := svc.SearchServices(db, &dto.ServiceListQuery{Search: "hair"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Haircut", page.Data[0].Name)

	price := 1700.0
	updated, err := svc.UpdateService(ctx, db, created.ID, &dto.UpdateServiceRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 1700.0, updated.Price)
	assert.Equal(t, created.Name, updated.Name)

	require.NoError(t, svc.DeleteService(ctx, db, created.ID))
	_, err = svc.GetService(db, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)

	all, err := svc.ListServices(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
