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

func TestVisitRepository_List_QueryMatchesNameOrPhone(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVisitRepository()

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	helpers.CreateVisit(t, db, "Ivan Petrov", "+71111111111", m, base, cut)
	helpers.CreateVisit(t, db, "Petr", "+7222ivan", m, base.Add(time.Hour), cut)
	helpers.CreateVisit(t, db, "Sergey", "+73333333333", m, base.Add(2*time.Hour), cut)
	helpers.CreateVisit(t, db, "ivanka", "+74444444444", m, base.Add(3*time.Hour), cut)

	visits, total, err := repo.List(db, repositories.VisitListFilter{Query: "Ivan", Page: 1, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	require.Len(t, visits, 3)
	// свежие сверху
	assert.Equal(t, "ivanka", visits[0].Name)
	assert.Equal(t, "Petr", visits[1].Name)
	assert.Equal(t, "Ivan Petrov", visits[2].Name)
	for _, v := range visits {
		assert.NotEqual(t, "Sergey", v.Name)
	}
}

func TestVisitRepository_List_WildcardsAreLiteral(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVisitRepository()

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	helpers.CreateVisit(t, db, "Ivan", "+71111111111", m, base, cut)
	helpers.CreateVisit(t, db, "Sergey", "+72222222222", m, base.Add(time.Hour), cut)
	helpers.CreateVisit(t, db, "100% Anna!", "+73333333333", m, base.Add(2*time.Hour), cut)

	for _, q := range []string{"%", "!", "0% a"} {
		visits, total, err := repo.List(db, repositories.VisitListFilter{Query: q, Page: 1, PageSize: 5})
		require.NoError(t, err, q)
		assert.Equal(t, int64(1), total, q)
		require.Len(t, visits, 1, q)
		assert.Equal(t, "100% Anna!", visits[0].Name, q)
	}

	for _, q := range []string{"_", "i_an", "iv%"} {
		_, total, err := repo.List(db, repositories.VisitListFilter{Query: q, Page: 1, PageSize: 5})
		require.NoError(t, err, q)
		assert.Zero(t, total, q)
	}

	_, total, err := repo.AdminList(db, repositories.VisitAdminFilter{Search: "%", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestVisitRepository_List_MasterFilterAndPaging(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVisitRepository()

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m1 := helpers.CreateMaster(t, db, "Oleg", cut)
	m2 := helpers.CreateMaster(t, db, "Anna", cut)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		helpers.CreateVisit(t, db, "Client", "+7000", m1, base.Add(time.Duration(i)*time.Minute), cut)
	}
	helpers.CreateVisit(t, db, "Other", "+7001", m2, base, cut)

	visits, total, err := repo.List(db, repositories.VisitListFilter{MasterID: m1.ID, Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, visits, 2)
	for _, v := range visits {
		assert.Equal(t, m1.ID, v.MasterID)
	}
}

func TestVisitRepository_AdminList_RegularClients(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVisitRepository()

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		helpers.CreateVisit(t, db, "Regular", "+7333", m, base.Add(time.Duration(i)*time.Hour), cut)
	}
	for i := 0; i < 2; i++ {
		helpers.CreateVisit(t, db, "Rare", "+7222", m, base.Add(time.Duration(i)*time.Hour), cut)
	}

	yes := true
	visits, total, err := repo.AdminList(db, repositories.VisitAdminFilter{IsRegular: &yes, RegularMinVisits: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, v := range visits {
		assert.Equal(t, "+7333", v.Phone)
	}

	no := false
	visits, total, err = repo.AdminList(db, repositories.VisitAdminFilter{IsRegular: &no, RegularMinVisits: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, v := range visits {
		assert.Equal(t, "+7222", v.Phone)
	}
}

func TestVisitRepository_AdminList_PriceRange(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVisitRepository()

	cheap := helpers.CreateService(t, db, "Beard", 500)
	mid := helpers.CreateService(t, db, "Haircut", 1500)
	pricey := helpers.CreateService(t, db, "Coloring", 2500)
	m := helpers.CreateMaster(t, db, "Oleg", cheap, mid, pricey)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	low := helpers.CreateVisit(t, db, "Low", "+71", m, base, cheap)
	medium := helpers.CreateVisit(t, db, "Medium", "+72", m, base, cheap, pricey)
	high := helpers.CreateVisit(t, db, "High", "+73", m, base, mid, pricey)
	helpers.CreateVisit(t, db, "Empty", "+74", m, base)

	tests := []struct {
		rangeName string
		want      uint
	}{
		{repositories.PriceRangeLow, low.ID},
		{repositories.PriceRangeMedium, medium.ID},
		{repositories.PriceRangeHigh, high.ID},
	}

	for _, tt := range tests {
		t.Run(tt.rangeName, func(t *testing.T) {
			visits, total, err := repo.AdminList(db, repositories.VisitAdminFilter{
				PriceRange:     tt.rangeName,
				PriceLowMax:    1000,
				PriceMediumMax: 3000,
			})
			require.NoError(t, err)
			require.Equal(t, int64(1), total)
			assert.Equal(t, tt.want, visits[0].ID)
		})
	}
}

func TestVisitRepository_AdminList_SearchByServiceNameAndOrdering(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVisitRepository()

	beard := helpers.CreateService(t, db, "Beard trim", 500)
	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", beard, cut)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	later := helpers.CreateVisit(t, db, "B", "+72", m, base.Add(time.Hour), beard)
	earlier := helpers.CreateVisit(t, db, "A", "+71", m, base, beard, cut)
	helpers.CreateVisit(t, db, "C", "+73", m, base, cut)

	visits, total, err := repo.AdminList(db, repositories.VisitAdminFilter{Search: "BEARD"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	assert.Equal(t, earlier.ID, visits[0].ID)
	assert.Equal(t, later.ID, visits[1].ID)
	assert.Equal(t, 1300.0, visits[0].TotalPrice())
}

func TestVisitRepository_UpdateStatusAndDelete(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVisitRepository()

	cut := helpers.CreateService(t, db, "Haircut", 800)
	m := helpers.CreateMaster(t, db, "Oleg", cut)
	v := helpers.CreateVisit(t, db, "A", "+71", m, time.Now(), cut)

	require.NoError(t, repo.UpdateStatus(db, v.ID, models.VisitStatusConfirmed))
	got, err := repo.FindByID(db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitStatusConfirmed, got.Status)

	require.NoError(t, repo.Delete(db, v.ID))
	_, err = repo.FindByID(db, v.ID)
	assert.ErrorIs(t, err, repositories.ErrVisitNotFound)
}
