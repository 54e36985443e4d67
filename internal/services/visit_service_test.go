package services_test

import (
	"context"
	"testing"
	"time"

	"barber_backend/internal/models"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"
	"barber_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVisitService_CreateVisit_NotificationFailureDoesNotFail(t *testing.T) {
	db := helpers.NewTestDB(t)
	notifier := &mockNotifier{}
	notifier.On("NotifyNewVisit", mock.Anything, mock.MatchedBy(func(v *models.Visit) bool {
		return v.Name == "Ivan" && len(v.Services) == 2 && v.Master.FirstName == "Oleg"
	})).Return(errNotifyFailed).Once()

	svc := newContainer(t, servicesDeps(notifier)).VisitService

	cut := helpers.CreateService(t, db, "Haircut", 800)
	beard := helpers.CreateService(t, db, "Beard", 500)
	m := helpers.CreateMaster(t, db, "Oleg", cut, beard)

	resp, err := svc.CreateVisit(context.Background(), db, &dto.CreateVisitRequest{
		Name:       "Ivan",
		Phone:      "+7 (900) 123-45-67",
		MasterID:   m.ID,
		ServiceIDs: []uint{cut.ID, beard.ID, cut.ID},
	})
	require.NoError(t, err)
	notifier.AssertExpectations(t)

	assert.Equal(t, int(models.VisitStatusNotConfirmed), resp.Status)
	assert.Equal(t, 1300.0, resp.TotalPrice)
	assert.Equal(t, "1300.00 ₽", resp.TotalPriceDisplay)
	assert.Len(t, resp.Services, 2)

	var count int64
	require.NoError(t, db.Model(&models.Visit{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVisitService_CreateVisit_Validation(t *testing.T) {
	db := helpers.NewTestDB(t)
	notifier := &mockNotifier{}
	svc := newContainer(t, servicesDeps(notifier)).VisitService

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	ctx := context.Background()

	t.Run("required fields", func(t *testing.T) {
		_, err := svc.CreateVisit(ctx, db, &dto.CreateVisitRequest{MasterID: m.ID})
		fields := validationFields(t, err)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "phone")
		assert.Contains(t, fields, "services")
	})

	t.Run("unknown master", func(t *testing.T) {
		_, err := svc.CreateVisit(ctx, db, &dto.CreateVisitRequest{
			Name: "Ivan", Phone: "+79001234567", MasterID: 999, ServiceIDs: []uint{cut.ID},
		})
		assert.ErrorIs(t, err, apperrors.ErrMasterNotFound)
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := svc.CreateVisit(ctx, db, &dto.CreateVisitRequest{
			Name: "Ivan", Phone: "+79001234567", MasterID: m.ID, ServiceIDs: []uint{cut.ID, 999},
		})
		assert.ErrorIs(t, err, apperrors.ErrUnknownServices)
	})

	var count int64
	require.NoError(t, db.Model(&models.Visit{}).Count(&count).Error)
	assert.Zero(t, count)
	notifier.AssertNotCalled(t, "NotifyNewVisit", mock.Anything, mock.Anything)
}

func TestVisitService_ListVisits_PagesOfFive(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, servicesDeps(&mockNotifier{})).VisitService

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		helpers.CreateVisit(t, db, "Ivan", "+7900", m, base.Add(time.Duration(i)*time.Minute), cut)
	}
	helpers.CreateVisit(t, db, "Sergey", "+7911", m, base, cut)

	page, err := svc.ListVisits(db, &dto.VisitListQuery{Q: "Ivan", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.TotalCount)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)

	page, err = svc.ListVisits(db, &dto.VisitListQuery{Q: "Ivan", Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.False(t, page.HasNext)
}

func TestVisitService_AdminListVisits_RegularClients(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, servicesDeps(&mockNotifier{})).VisitService

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		helpers.CreateVisit(t, db, "Regular", "+7001", m, base.Add(time.Duration(i)*time.Hour), cut)
	}
	for i := 0; i < 2; i++ {
		helpers.CreateVisit(t, db, "Rare", "+7002", m, base.Add(time.Duration(i)*time.Hour), cut)
	}

	regular, err := svc.AdminListVisits(db, &dto.VisitAdminQuery{IsRegular: "yes"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), regular.TotalCount)
	for _, v := range regular.Data {
		assert.Equal(t, "+7001", v.Phone)
	}

	rare, err := svc.AdminListVisits(db, &dto.VisitAdminQuery{IsRegular: "no"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rare.TotalCount)
}

func TestVisitService_UpdateVisitStatus(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, servicesDeps(&mockNotifier{})).VisitService
	ctx := context.Background()

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	v := helpers.CreateVisit(t, db, "Ivan", "+7900", m, time.Now(), cut)

	resp, err := svc.UpdateVisitStatus(ctx, db, v.ID, models.VisitStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "Подтверждена", resp.StatusLabel)

	_, err = svc.UpdateVisitStatus(ctx, db, v.ID, models.VisitStatus(9))
	requireAppError(t, err, apperrors.CodeValidationFailed)

	_, err = svc.UpdateVisitStatus(ctx, db, 999, models.VisitStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrVisitNotFound)
}

func TestVisitService_UpdateVisit_ReplacesServices(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, servicesDeps(&mockNotifier{})).VisitService

	cut := helpers.CreateService(t, db, "Haircut", 800)
	color := helpers.CreateService(t, db, "Coloring", 2500)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	v := helpers.CreateVisit(t, db, "Ivan", "+7900", m, time.Now(), cut)

	comment := "Перенести на вечер"
	ids := []uint{color.ID}
	resp, err := svc.UpdateVisit(context.Background(), db, v.ID, &dto.UpdateVisitRequest{
		Comment:    &comment,
		ServiceIDs: &ids,
	})
	require.NoError(t, err)
	assert.Equal(t, comment, resp.Comment)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, "Coloring", resp.Services[0].Name)
	assert.Equal(t, 2500.0, resp.TotalPrice)
}
