// Package notify сообщает сотрудникам о новых записях.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"barber_backend/internal/config"
	"barber_backend/internal/logger"
	"barber_backend/internal/metrics"
	"barber_backend/internal/models"
)

// Notifier отправляет уведомление о новой записи
type Notifier interface {
	Channel() string
	NotifyNewVisit(ctx context.Context, visit *models.Visit) error
}

// Multi рассылает уведомление по всем каналам.
// Ошибка одного канала не мешает остальным.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Channel() string { return "multi" }

func (m *Multi) Len() int { return len(m.notifiers) }

func (m *Multi) NotifyNewVisit(ctx context.Context, visit *models.Visit) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.NotifyNewVisit(ctx, visit); err != nil {
			metrics.NotificationsSent.WithLabelValues(n.Channel(), "error").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", n.Channel(), err))
			continue
		}
		metrics.NotificationsSent.WithLabelValues(n.Channel(), "ok").Inc()
	}
	return errors.Join(errs...)
}

// FromConfig собирает каналы, для которых есть настройки
func FromConfig(cfg *config.Config) *Multi {
	var notifiers []Notifier

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Error("telegram notifier disabled", "error", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	if cfg.Email.SMTPHost != "" && cfg.Email.NotifyTo != "" {
		notifiers = append(notifiers, NewEmailNotifier(EmailOptions{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			To:        cfg.Email.NotifyTo,
		}))
	}

	if len(notifiers) == 0 {
		logger.Warn("no staff notification channels configured")
	}
	return NewMulti(notifiers...)
}

// FormatVisitMessage - текст уведомления о записи
func FormatVisitMessage(visit *models.Visit) string {
	names := make([]string, 0, len(visit.Services))
	for _, s := range visit.Services {
		names = append(names, s.Name)
	}

	var b strings.Builder
	b.WriteString("Новая запись на стрижку\n")
	fmt.Fprintf(&b, "Имя: %s\n", visit.Name)
	fmt.Fprintf(&b, "Телефон: %s\n", visit.Phone)
	if visit.Master.ID != 0 {
		fmt.Fprintf(&b, "Мастер: %s\n", visit.Master.FullName())
	}
	fmt.Fprintf(&b, "Услуги: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Сумма: %.2f ₽\n", visit.TotalPrice())
	if c := strings.TrimSpace(visit.Comment); c != "" {
		fmt.Fprintf(&b, "Комментарий: %s\n", c)
	}
	return b.String()
}
