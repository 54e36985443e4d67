package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"barber_backend/internal/models"
	"barber_backend/internal/moderation"
	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"
	"barber_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_CreateReview_ShortTextRejectedByValidation(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).ReviewService
	m := helpers.CreateMaster(t, db, "Oleg")

	_, err := svc.CreateReview(context.Background(), db, &dto.CreateReviewRequest{
		Name:     "Anna",
		Text:     "Коротко и ясно, 29 символов!!",
		MasterID: m.ID,
		Rating:   5,
	})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "text")

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReviewService_CreateReview_StatusSetByModeration(t *testing.T) {
	tests := []struct {
		name       string
		classifier moderation.Classifier
		want       models.ReviewStatus
	}{
		{
			name:       "approved",
			classifier: moderation.ClassifierFunc(func(context.Context, string) (bool, error) { return true, nil }),
			want:       models.ReviewStatusApproved,
		},
		{
			name:       "rejected",
			classifier: moderation.ClassifierFunc(func(context.Context, string) (bool, error) { return false, nil }),
			want:       models.ReviewStatusRejected,
		},
		{
			name:       "classifier unavailable",
			classifier: moderation.ClassifierFunc(func(context.Context, string) (bool, error) { return false, errors.New("timeout") }),
			want:       models.ReviewStatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := helpers.NewTestDB(t)
			svc := newContainer(t, services.Dependencies{Classifier: tt.classifier}).ReviewService
			m := helpers.CreateMaster(t, db, "Oleg")

			resp, err := svc.CreateReview(context.Background(), db, &dto.CreateReviewRequest{
				Name:     "Anna",
				Text:     longText("Стрижка понравилась,"),
				MasterID: m.ID,
				Rating:   4,
			})
			require.NoError(t, err)
			assert.Equal(t, int(tt.want), resp.Status)
			assert.Equal(t, "Oleg Testov", resp.Master.FullName)

			var stored models.Review
			require.NoError(t, db.First(&stored, resp.ID).Error)
			assert.Equal(t, tt.want, stored.Status)
			assert.NotEqual(t, models.ReviewStatusUnverified, stored.Status)
		})
	}
}

func TestReviewService_CreateReview_ClassifierRunsWithoutOpenTransaction(t *testing.T) {
	db := helpers.NewTestDB(t)
	m := helpers.CreateMaster(t, db, "Oleg")

	// у тестовой базы одно соединение: открытая транзакция заблокировала бы этот запрос
	classifier := moderation.ClassifierFunc(func(ctx context.Context, _ string) (bool, error) {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		var count int64
		if err := db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error; err != nil {
			return false, err
		}
		return count == 0, nil
	})
	svc := newContainer(t, services.Dependencies{Classifier: classifier}).ReviewService

	resp, err := svc.CreateReview(context.Background(), db, &dto.CreateReviewRequest{
		Name:     "Anna",
		Text:     longText("Стрижка понравилась,"),
		MasterID: m.ID,
		Rating:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, int(models.ReviewStatusApproved), resp.Status)
}

func TestReviewService_CreateReview_UnknownMaster(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).ReviewService

	_, err := svc.CreateReview(context.Background(), db, &dto.CreateReviewRequest{
		Name:     "Anna",
		Text:     longText("Стрижка понравилась,"),
		MasterID: 42,
		Rating:   4,
	})
	assert.ErrorIs(t, err, apperrors.ErrMasterNotFound)
}

func TestReviewService_BulkUpdateStatus(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).ReviewService
	m := helpers.CreateMaster(t, db, "Oleg")
	now := time.Now()

	r1 := helpers.CreateReview(t, db, m, 5, models.ReviewStatusRejected, now)
	r2 := helpers.CreateReview(t, db, m, 4, models.ReviewStatusUnverified, now)
	r3 := helpers.CreateReview(t, db, m, 1, models.ReviewStatusRejected, now)

	resp, err := svc.BulkUpdateStatus(context.Background(), db, &dto.BulkReviewStatusRequest{
		IDs:    []uint{r1.ID, r2.ID, r1.ID},
		Action: dto.ReviewActionPublish,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Updated)
	assert.Equal(t, int(models.ReviewStatusPublished), resp.Status)
	assert.Equal(t, "2 отзывов успешно опубликовано", resp.Message)

	visible, err := svc.ListVisible(db, 10)
	require.NoError(t, err)
	require.Len(t, visible, 2)

	var untouched models.Review
	require.NoError(t, db.First(&untouched, r3.ID).Error)
	assert.Equal(t, models.ReviewStatusRejected, untouched.Status)

	_, err = svc.BulkUpdateStatus(context.Background(), db, &dto.BulkReviewStatusRequest{
		IDs: []uint{r3.ID}, Action: "delete",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReviewStatus)
}

func TestReviewService_UpdateReview_NameAndStatusOnly(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).ReviewService
	m := helpers.CreateMaster(t, db, "Oleg")
	r := helpers.CreateReview(t, db, m, 3, models.ReviewStatusRejected, time.Now())

	name := "Anna K."
	status := int(models.ReviewStatusApproved)
	resp, err := svc.UpdateReview(context.Background(), db, r.ID, &dto.UpdateReviewRequest{
		Name:   &name,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	assert.Equal(t, "Одобрен", resp.StatusLabel)
	assert.Equal(t, r.Text, resp.Text)

	bad := 7
	_, err = svc.UpdateReview(context.Background(), db, r.ID, &dto.UpdateReviewRequest{Status: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReviewStatus)
}

func TestReviewService_AdminListReviews_PageSizeTen(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).ReviewService
	m := helpers.CreateMaster(t, db, "Oleg")
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		helpers.CreateReview(t, db, m, 5, models.ReviewStatusApproved, base.Add(time.Duration(i)*time.Hour))
	}

	page, err := svc.AdminListReviews(db, &dto.ReviewAdminQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.TotalCount)
	require.Len(t, page.Data, 10)
	assert.True(t, page.Data[0].CreatedAt.After(page.Data[9].CreatedAt))
}
