package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"barber_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func sampleVisit() *models.Visit {
	v := &models.Visit{
		Name:    "Иван",
		Phone:   "+79001234567",
		Comment: "после обеда",
		Master:  models.Master{FirstName: "Олег", LastName: "Ножницын"},
		Services: []models.Service{
			{Name: "Стрижка", Price: 1200},
			{Name: "Борода", Price: 600.5},
		},
	}
	v.Master.ID = 1
	return v
}

func TestFormatVisitMessage(t *testing.T) {
	msg := FormatVisitMessage(sampleVisit())

	assert.Contains(t, msg, "Имя: Иван")
	assert.Contains(t, msg, "Мастер: Олег Ножницын")
	assert.Contains(t, msg, "Услуги: Стрижка, Борода")
	assert.Contains(t, msg, "Сумма: 1800.50 ₽")
	assert.Contains(t, msg, "Комментарий: после обеда")
}

type stubNotifier struct {
	channel string
	err     error
	calls   int
}

func (s *stubNotifier) Channel() string { return s.channel }

func (s *stubNotifier) NotifyNewVisit(context.Context, *models.Visit) error {
	s.calls++
	return s.err
}

func TestMulti_ContinuesAfterFailure(t *testing.T) {
	failing := &stubNotifier{channel: "telegram", err: errors.New("network down")}
	ok := &stubNotifier{channel: "email"}

	err := NewMulti(failing, ok).NotifyNewVisit(context.Background(), sampleVisit())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	assert.NoError(t, NewMulti().NotifyNewVisit(context.Background(), sampleVisit()))
}

func TestEmailNotifier_BuildsMessage(t *testing.T) {
	var (
		mu   sync.Mutex
		to   []string
		body bytes.Buffer
	)
	sender := gomail.SendFunc(func(from string, rcpt []string, msg io.WriterTo) error {
		mu.Lock()
		defer mu.Unlock()
		to = rcpt
		_, err := msg.WriteTo(&body)
		return err
	})

	n := NewEmailNotifier(EmailOptions{
		Host:      "smtp.test.local",
		Port:      587,
		FromEmail: "noreply@barber.local",
		FromName:  "Barber",
		To:        "owner@barber.local",
	}).WithSender(sender)

	require.NoError(t, n.NotifyNewVisit(context.Background(), sampleVisit()))
	assert.Equal(t, []string{"owner@barber.local"}, to)
	assert.Contains(t, body.String(), "Subject:")
	assert.Equal(t, "email", n.Channel())
}

func TestTelegramNotifier_SendsToChat(t *testing.T) {
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"barber","username":"barber_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			sent = append(sent, r.PostForm.Get("chat_id")+":"+r.PostForm.Get("text"))
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":10,"date":0,"chat":{"id":777,"type":"private"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	n, err := NewTelegramNotifierWithEndpoint("TOKEN", srv.URL+"/bot%s/%s", srv.Client(), 777)
	require.NoError(t, err)

	require.NoError(t, n.NotifyNewVisit(context.Background(), sampleVisit()))
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0], "777:Новая запись"))
}
