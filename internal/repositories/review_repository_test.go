package repositories_test

import (
	"testing"
	"time"

	"barber_backend/internal/models"
	"barber_backend/internal/repositories"
	"barber_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_FindWithFilter(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewReviewRepository()

	m1 := helpers.CreateMaster(t, db, "Oleg")
	m2 := helpers.CreateMaster(t, db, "Anna")
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		helpers.CreateReview(t, db, m1, models.RatingExcellent, models.ReviewStatusApproved, base.Add(time.Duration(i)*time.Minute))
	}
	rejected := helpers.CreateReview(t, db, m2, models.RatingBad, models.ReviewStatusRejected, base)

	reviews, total, err := repo.FindWithFilter(db, repositories.ReviewFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(13), total)
	assert.Len(t, reviews, 10)
	assert.True(t, reviews[0].CreatedAt.After(reviews[1].CreatedAt))

	status := models.ReviewStatusRejected
	reviews, total, err = repo.FindWithFilter(db, repositories.ReviewFilter{Status: &status})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, rejected.ID, reviews[0].ID)

	reviews, total, err = repo.FindWithFilter(db, repositories.ReviewFilter{Search: "anna"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, m2.ID, reviews[0].MasterID)
}

func TestReviewRepository_BulkUpdateStatus(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewReviewRepository()

	m := helpers.CreateMaster(t, db, "Oleg")
	now := time.Now()
	r1 := helpers.CreateReview(t, db, m, models.RatingGood, models.ReviewStatusRejected, now)
	r2 := helpers.CreateReview(t, db, m, models.RatingGood, models.ReviewStatusRejected, now)
	helpers.CreateReview(t, db, m, models.RatingGood, models.ReviewStatusRejected, now)

	updated, err := repo.BulkUpdateStatus(db, []uint{r1.ID, r2.ID, 9999}, models.ReviewStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	got, err := repo.FindByID(db, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPublished, got.Status)

	visible, err := repo.FindVisible(db, 10)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
}
