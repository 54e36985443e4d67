package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"barber_backend/internal/logger"
	"barber_backend/internal/metrics"

	"github.com/sony/gobreaker/v2"
)

const (
	defaultMistralBaseURL = "https://api.mistral.ai/v1"
	defaultMistralModel   = "mistral-small-latest"
	breakerName           = "mistral"
)

// ErrUnclearVerdict - модель ответила не "да"/"нет"
var ErrUnclearVerdict = errors.New("classifier returned an unclear verdict")

type MistralOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// Параметры circuit breaker; нули заменяются значениями по умолчанию
	BreakerTimeout     time.Duration
	BreakerMinRequests uint32
	BreakerFailRatio   float64

	HTTPClient *http.Client
}

// MistralClassifier проверяет отзыв через chat completions API.
// Запросы идут через circuit breaker: при недоступном провайдере
// отзыв сразу отклоняется, а не ждет таймаута.
type MistralClassifier struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[bool]
}

func NewMistralClassifier(opts MistralOptions) *MistralClassifier {
	if opts.Model == "" {
		opts.Model = defaultMistralModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultMistralBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	if opts.BreakerMinRequests == 0 {
		opts.BreakerMinRequests = 5
	}
	if opts.BreakerFailRatio == 0 {
		opts.BreakerFailRatio = 0.5
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= opts.BreakerFailRatio
		},
		// неясный ответ модели - не поломка провайдера
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnclearVerdict)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &MistralClassifier{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: client,
		breaker:    gobreaker.NewCircuitBreaker[bool](settings),
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *MistralClassifier) CheckReview(ctx context.Context, text string) (bool, error) {
	start := time.Now()
	ok, err := c.breaker.Execute(func() (bool, error) {
		return c.call(ctx, text)
	})
	metrics.ClassifierDuration.WithLabelValues("mistral").Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.ClassifierRequests.WithLabelValues("mistral", "error").Inc()
		return false, err
	case ok:
		metrics.ClassifierRequests.WithLabelValues("mistral", "approved").Inc()
	default:
		metrics.ClassifierRequests.WithLabelValues("mistral", "rejected").Inc()
	}
	return ok, nil
}

func (c *MistralClassifier) call(ctx context.Context, text string) (bool, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: moderationSystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0,
		MaxTokens:   5,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("mistral request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("mistral request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode mistral response: %w", err)
	}
	if len(out.Choices) == 0 {
		return false, fmt.Errorf("%w: empty choices", ErrUnclearVerdict)
	}
	return parseVerdict(out.Choices[0].Message.Content)
}

// parseVerdict смотрит только на первое слово ответа целиком: "да"/"нет" или yes/no.
// Все остальное, в том числе обрезанная фраза, - ErrUnclearVerdict.
func parseVerdict(content string) (bool, error) {
	words := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) > 0 {
		switch words[0] {
		case "да", "yes", "true":
			return true, nil
		case "нет", "no", "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %q", ErrUnclearVerdict, content)
}
