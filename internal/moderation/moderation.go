// Package moderation - автоматическая проверка отзывов при создании.
package moderation

import (
	"context"
	"time"

	"barber_backend/internal/config"
	"barber_backend/internal/logger"
	"barber_backend/internal/metrics"
	"barber_backend/internal/models"
)

// Classifier решает, можно ли публиковать текст отзыва
type Classifier interface {
	CheckReview(ctx context.Context, text string) (bool, error)
}

// ClassifierFunc - адаптер функции к Classifier
type ClassifierFunc func(ctx context.Context, text string) (bool, error)

func (f ClassifierFunc) CheckReview(ctx context.Context, text string) (bool, error) {
	return f(ctx, text)
}

// Moderator переводит вердикт классификатора в статус отзыва
type Moderator struct {
	classifier Classifier
}

func NewModerator(classifier Classifier) *Moderator {
	return &Moderator{classifier: classifier}
}

// Moderate возвращает одобрен или отклонен, других исходов нет.
// Ошибка классификатора означает отклонение: сотрудник может одобрить отзыв вручную.
func (m *Moderator) Moderate(ctx context.Context, text string) models.ReviewStatus {
	ok, err := m.classifier.CheckReview(ctx, text)
	if err != nil {
		logger.CtxWithError(ctx, "review classifier failed, rejecting review", err)
		metrics.ReviewsModerated.WithLabelValues("error").Inc()
		return models.ReviewStatusRejected
	}
	if ok {
		metrics.ReviewsModerated.WithLabelValues("approved").Inc()
		return models.ReviewStatusApproved
	}
	metrics.ReviewsModerated.WithLabelValues("rejected").Inc()
	return models.ReviewStatusRejected
}

// NewClassifier выбирает Mistral при наличии ключа, иначе офлайн-фильтр по стоп-словам
func NewClassifier(cfg *config.Config) Classifier {
	mc := cfg.Moderation
	if mc.APIKey == "" {
		logger.Warn("moderation api key is not set, using keyword classifier")
		return NewKeywordClassifier(mc.StopWords)
	}
	return NewMistralClassifier(MistralOptions{
		APIKey:  mc.APIKey,
		Model:   mc.Model,
		BaseURL: mc.BaseURL,
		Timeout: time.Duration(mc.TimeoutSeconds) * time.Second,
	})
}
