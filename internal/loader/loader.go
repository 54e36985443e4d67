// Package loader загружает дамп данных по сегментам в порядке зависимостей моделей.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"barber_backend/internal/logger"
	"barber_backend/internal/metrics"
	"barber_backend/internal/models"
	"barber_backend/internal/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SegmentStatus string

const (
	StatusLoaded  SegmentStatus = "loaded"
	StatusFailed  SegmentStatus = "failed"
	StatusSkipped SegmentStatus = "skipped"
)

// SegmentResult - итог по одной модели
type SegmentResult struct {
	Model      string        `json:"model"`
	Status     SegmentStatus `json:"status"`
	Count      int           `json:"count"`
	Error      string        `json:"error,omitempty"`
	DurationMS int64         `json:"duration_ms"`
}

// Report - итог загрузки дампа
type Report struct {
	Source     string          `json:"source"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Segments   []SegmentResult `json:"segments"`
	// Ignored - записи моделей, которых нет в порядке загрузки
	Ignored map[string]int `json:"ignored,omitempty"`
}

func (r *Report) Failed() bool {
	for _, s := range r.Segments {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Segment возвращает итог по модели
func (r *Report) Segment(model string) (SegmentResult, bool) {
	for _, s := range r.Segments {
		if s.Model == model {
			return s, true
		}
	}
	return SegmentResult{}, false
}

type Loader struct {
	order    []string
	segments map[string]Segment
	runs     repositories.ImportRunRepository
}

// New - порядок загрузки задается конфигом (loader.order)
func New(order []string) *Loader {
	return &Loader{
		order:    append([]string(nil), order...),
		segments: DefaultSegments(),
		runs:     repositories.NewImportRunRepository(),
	}
}

// Register добавляет или заменяет загрузчик модели
func (l *Loader) Register(model string, segment Segment) {
	l.segments[model] = segment
}

// Load загружает записи. Каждый сегмент - своя транзакция: ошибка откатывает
// только его, загрузка продолжается со следующего. Ошибка возвращается лишь
// если не удалось сохранить журнал ImportRun.
func (l *Loader) Load(ctx context.Context, db *gorm.DB, source string, records []Record) (*Report, error) {
	report := &Report{
		Source:    source,
		StartedAt: time.Now().UTC(),
		Ignored:   map[string]int{},
	}

	groups := make(map[string][]Record)
	for _, rec := range records {
		groups[rec.Model] = append(groups[rec.Model], rec)
	}

	inOrder := make(map[string]bool, len(l.order))
	for _, model := range l.order {
		inOrder[model] = true
	}
	for model, recs := range groups {
		if !inOrder[model] {
			report.Ignored[model] = len(recs)
			logger.CtxWarn(ctx, "Dump model is not in load order, ignored", "model", model, "count", len(recs))
		}
	}

	for _, model := range l.order {
		recs := groups[model]
		if len(recs) == 0 {
			continue
		}
		result := l.loadSegment(ctx, db, model, recs)
		metrics.LoaderSegments.WithLabelValues(model, string(result.Status)).Inc()
		if result.Status == StatusLoaded {
			metrics.LoaderRecords.WithLabelValues(model).Add(float64(result.Count))
		}
		report.Segments = append(report.Segments, result)
	}

	report.FinishedAt = time.Now().UTC()

	if err := l.saveRun(db.WithContext(ctx), report); err != nil {
		return report, err
	}
	return report, nil
}

func (l *Loader) loadSegment(ctx context.Context, db *gorm.DB, model string, recs []Record) SegmentResult {
	result := SegmentResult{Model: model, Count: len(recs)}

	segment, ok := l.segments[model]
	if !ok {
		result.Status = StatusSkipped
		logger.CtxInfo(ctx, "No loader registered for model, skipped", "model", model, "count", len(recs))
		return result
	}

	start := time.Now()
	err := runInTx(db.WithContext(ctx), func(tx *gorm.DB) error {
		return segment.Load(tx, recs)
	})
	duration := time.Since(start)
	result.DurationMS = duration.Milliseconds()
	logger.SegmentLog(model, len(recs), duration, err)

	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	result.Status = StatusLoaded

	if segment.Table != "" {
		if err := advanceSequence(db.WithContext(ctx), segment.Table); err != nil {
			logger.CtxWithError(ctx, "Failed to advance id sequence", err, "table", segment.Table)
		}
	}
	return result
}

func runInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit().Error
}

// advanceSequence сдвигает последовательность id после вставки явных ключей.
// Нужна только PostgreSQL: MySQL и SQLite двигают автоинкремент сами.
func advanceSequence(db *gorm.DB, table string) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return db.Exec(fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1))",
		table,
	)).Error
}

func (l *Loader) saveRun(db *gorm.DB, report *Report) error {
	results, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode import report: %w", err)
	}
	run := models.ImportRun{
		Source:     report.Source,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Failed:     report.Failed(),
		Results:    datatypes.JSON(results),
	}
	if err := l.runs.Create(db, &run); err != nil {
		return fmt.Errorf("failed to save import run: %w", err)
	}
	return nil
}
