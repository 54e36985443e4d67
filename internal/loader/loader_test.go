package loader

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"barber_backend/internal/auth"
	"barber_backend/internal/config"
	"barber_backend/internal/models"
	"barber_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
)

func djangoHash(password string) string {
	key := pbkdf2.Key([]byte(password), []byte("salt1234"), 1000, 32, sha256.New)
	return "pbkdf2_sha256$1000$salt1234$" + base64.StdEncoding.EncodeToString(key)
}

func fullDump(t *testing.T) string {
	t.Helper()
	dump := []map[string]interface{}{
		{"model": "admin.logentry", "pk": 1, "fields": map[string]interface{}{"action_flag": 1}},
		{"model": "auth.permission", "pk": 1, "fields": map[string]interface{}{"name": "Can add visit", "codename": "add_visit"}},
		{"model": "auth.user", "pk": 7, "fields": map[string]interface{}{
			"username": "barber", "password": djangoHash("barber123"), "email": "barber@example.com",
			"is_staff": true, "is_active": true, "is_superuser": true,
			"last_login": nil, "date_joined": "2024-01-10T09:00:00Z", "groups": []int{}, "user_permissions": []int{},
		}},
		{"model": "core.service", "pk": 3, "fields": map[string]interface{}{"name": "Стрижка", "description": "Мужская стрижка", "price": "1200.00"}},
		{"model": "core.service", "pk": 5, "fields": map[string]interface{}{"name": "Борода", "description": "Оформление бороды", "price": "800.50"}},
		{"model": "core.master", "pk": 2, "fields": map[string]interface{}{
			"first_name": "Иван", "last_name": "Бритвин", "phone": "+79001112233",
			"address": "ул. Ленина, 1", "photo": "masters/ivan.jpg", "services": []int{3, 5},
		}},
		{"model": "core.visit", "pk": 11, "fields": map[string]interface{}{
			"name": "Петр", "phone": "+79005554433", "comment": nil,
			"created_at": "2024-03-01T12:30:00.123Z", "status": 3, "master": 2, "services": []int{3, 5},
		}},
		{"model": "core.review", "pk": 4, "fields": map[string]interface{}{
			"name": "Петр", "text": "Очень доволен стрижкой, приду еще раз обязательно!",
			"master": 2, "rating": 5, "created_at": "2024-03-02T10:00:00Z", "status": 0,
		}},
	}
	raw, err := json.Marshal(dump)
	require.NoError(t, err)
	return string(raw)
}

func TestLoad_FullDumpPreservesKeys(t *testing.T) {
	db := helpers.NewTestDB(t)

	records, err := ReadDump(strings.NewReader(fullDump(t)))
	require.NoError(t, err)

	report, err := New(config.DefaultLoadOrder).Load(context.Background(), db, "dump.json", records)
	require.NoError(t, err)
	assert.False(t, report.Failed())

	for _, model := range []string{"auth.user", "core.service", "core.master", "core.visit", "core.review"} {
		seg, ok := report.Segment(model)
		require.True(t, ok, model)
		assert.Equal(t, StatusLoaded, seg.Status, model)
	}
	perm, _ := report.Segment("auth.permission")
	assert.Equal(t, StatusSkipped, perm.Status)
	_, attempted := report.Segment("contenttypes.contenttype")
	assert.False(t, attempted)
	assert.Equal(t, map[string]int{"admin.logentry": 1}, report.Ignored)

	var master models.Master
	require.NoError(t, db.Preload("Services").First(&master, 2).Error)
	assert.Len(t, master.Services, 2)
	require.NotNil(t, master.Photo)
	assert.Equal(t, "masters/ivan.jpg", *master.Photo)

	var service models.Service
	require.NoError(t, db.First(&service, 5).Error)
	assert.InDelta(t, 800.50, service.Price, 0.001)

	var visit models.Visit
	require.NoError(t, db.Preload("Services").First(&visit, 11).Error)
	assert.Equal(t, models.VisitStatusCompleted, visit.Status)
	assert.Equal(t, 2024, visit.CreatedAt.Year())
	assert.InDelta(t, 2000.50, visit.TotalPrice(), 0.001)

	// статус из дампа сохраняется, модерация не запускается
	var review models.Review
	require.NoError(t, db.First(&review, 4).Error)
	assert.Equal(t, models.ReviewStatusPublished, review.Status)

	var user models.User
	require.NoError(t, db.First(&user, 7).Error)
	assert.True(t, auth.CheckPasswordHash("barber123", user.PasswordHash))

	var run models.ImportRun
	require.NoError(t, db.First(&run).Error)
	assert.Equal(t, "dump.json", run.Source)
	assert.False(t, run.Failed)
	assert.Contains(t, string(run.Results), `"core.visit"`)
}

func TestLoad_FailedMasterSegmentDoesNotBlockServices(t *testing.T) {
	db := helpers.NewTestDB(t)

	dump := `[
		{"model": "core.service", "pk": 1, "fields": {"name": "Стрижка", "description": "-", "price": "1000.00"}},
		{"model": "core.master", "pk": 1, "fields": {"first_name": "Иван", "last_name": "Бритвин", "phone": "+7900", "address": "-", "services": [1]}},
		{"model": "core.master", "pk": 2, "fields": {"first_name": 42, "last_name": "Broken"}},
		{"model": "core.visit", "pk": 1, "fields": {"name": "Петр", "phone": "+7901", "status": 0, "master": 1, "services": [1]}}
	]`
	records, err := ReadDump(strings.NewReader(dump))
	require.NoError(t, err)

	report, err := New(config.DefaultLoadOrder).Load(context.Background(), db, "broken.json", records)
	require.NoError(t, err)
	assert.True(t, report.Failed())

	svc, _ := report.Segment("core.service")
	assert.Equal(t, StatusLoaded, svc.Status)
	master, _ := report.Segment("core.master")
	assert.Equal(t, StatusFailed, master.Status)
	assert.NotEmpty(t, master.Error)
	// визит ссылается на мастера из откатившегося сегмента
	visit, _ := report.Segment("core.visit")
	assert.Equal(t, StatusFailed, visit.Status)

	var services, masters, visits int64
	require.NoError(t, db.Model(&models.Service{}).Count(&services).Error)
	require.NoError(t, db.Model(&models.Master{}).Count(&masters).Error)
	require.NoError(t, db.Model(&models.Visit{}).Count(&visits).Error)
	assert.EqualValues(t, 1, services)
	assert.Zero(t, masters, "segment must be rolled back as a whole")
	assert.Zero(t, visits)

	var run models.ImportRun
	require.NoError(t, db.First(&run).Error)
	assert.True(t, run.Failed)
}

func TestLoad_IsRepeatable(t *testing.T) {
	db := helpers.NewTestDB(t)
	l := New(config.DefaultLoadOrder)

	for i := 0; i < 2; i++ {
		records, err := ReadDump(strings.NewReader(fullDump(t)))
		require.NoError(t, err)
		report, err := l.Load(context.Background(), db, "dump.json", records)
		require.NoError(t, err)
		require.False(t, report.Failed(), "run %d: %+v", i, report.Segments)
	}

	var services, links int64
	require.NoError(t, db.Model(&models.Service{}).Count(&services).Error)
	require.NoError(t, db.Table("visit_services").Count(&links).Error)
	assert.EqualValues(t, 2, services)
	assert.EqualValues(t, 2, links)
}

func TestLoad_CustomOrderAndSegment(t *testing.T) {
	db := helpers.NewTestDB(t)

	var seen []string
	l := New([]string{"core.review", "core.service"})
	l.Register("core.review", Segment{Load: func(_ *gorm.DB, records []Record) error {
		seen = append(seen, "core.review")
		return nil
	}})
	l.Register("core.service", Segment{Load: func(_ *gorm.DB, records []Record) error {
		seen = append(seen, "core.service")
		return nil
	}})

	records := []Record{
		{Model: "core.service", PK: 1, Fields: json.RawMessage(`{}`)},
		{Model: "core.review", PK: 1, Fields: json.RawMessage(`{}`)},
	}
	_, err := l.Load(context.Background(), db, "custom", records)
	require.NoError(t, err)
	assert.Equal(t, []string{"core.review", "core.service"}, seen)
}

func TestReadDump_Invalid(t *testing.T) {
	_, err := ReadDump(strings.NewReader(`{"model": "core.service"}`))
	assert.Error(t, err)
}

func TestDecimalAndTimestamp(t *testing.T) {
	var f struct {
		A decimal   `json:"a"`
		B decimal   `json:"b"`
		T timestamp `json:"t"`
		N timestamp `json:"n"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "99.90", "b": 15, "t": "2024-03-01T12:30:00", "n": null}`), &f))
	assert.InDelta(t, 99.90, float64(f.A), 0.001)
	assert.InDelta(t, 15.0, float64(f.B), 0.001)
	assert.True(t, f.T.Valid)
	assert.Equal(t, 12, f.T.Hour())
	assert.False(t, f.N.Valid)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "abc"}`), &f))
}
