package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-finance-copilot/backend/internal/models"
)

const narrationSchema = `CREATE TABLE IF NOT EXISTS narration_logs (
	id            UUID PRIMARY KEY,
	request_id    TEXT NOT NULL DEFAULT '',
	operation     TEXT NOT NULL,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	source        TEXT NOT NULL,
	query         TEXT NOT NULL,
	prompt        TEXT,
	trace         JSONB,
	explanation   TEXT NOT NULL,
	raw_response  TEXT,
	success       BOOLEAN NOT NULL,
	error_message TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS narration_logs_created_at_idx ON narration_logs (created_at DESC);`

type NarrationRepository struct {
	db *pgxpool.Pool
}

type NarrationFilter struct {
	Success   *bool
	Source    *string
	Operation *string
}

// NewNarrationRepository создает репозиторий журнала объяснений.
func NewNarrationRepository(db *pgxpool.Pool) *NarrationRepository {
	return &NarrationRepository{db: db}
}

// EnsureSchema создает таблицу журнала, если ее нет.
func (r *NarrationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, narrationSchema); err != nil {
		return fmt.Errorf("create narration schema: %w", err)
	}
	return nil
}

// Log сохраняет запись журнала. Пустой ID заполняется новым UUID.
func (r *NarrationRepository) Log(ctx context.Context, log models.NarrationLog) (models.NarrationLog, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO narration_logs
		 (id, request_id, operation, provider, model, source, query, prompt, trace, explanation, raw_response, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::jsonb, $10, $11, $12, $13)
		 RETURNING created_at`,
		log.ID,
		log.RequestID,
		log.Operation,
		log.Provider,
		log.Model,
		string(log.Source),
		log.Query,
		log.Prompt,
		string(log.Trace),
		log.Explanation,
		log.RawResponse,
		log.Success,
		log.ErrorMessage,
	).Scan(&log.CreatedAt)
	if err != nil {
		return log, err
	}

	return log, nil
}

// GetByID возвращает запись журнала целиком.
func (r *NarrationRepository) GetByID(ctx context.Context, id uuid.UUID) (models.NarrationLog, error) {
	var log models.NarrationLog
	var source string
	var trace []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, request_id, operation, provider, model, source, query, prompt, trace, explanation, raw_response, success, error_message, created_at
		 FROM narration_logs
		 WHERE id = $1`,
		id,
	).Scan(
		&log.ID,
		&log.RequestID,
		&log.Operation,
		&log.Provider,
		&log.Model,
		&source,
		&log.Query,
		&log.Prompt,
		&trace,
		&log.Explanation,
		&log.RawResponse,
		&log.Success,
		&log.ErrorMessage,
		&log.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return log, ErrNotFound
		}
		return log, err
	}

	log.Source = models.NarrationSource(source)
	log.Trace = trace
	return log, nil
}

// List возвращает записи журнала с фильтрацией, новые первыми.
func (r *NarrationRepository) List(ctx context.Context, filter NarrationFilter, limit, offset int) ([]models.NarrationLog, error) {
	where, args := buildNarrationWhere(filter)

	limitParam := len(args) + 1
	offsetParam := len(args) + 2
	query := fmt.Sprintf(
		"SELECT id, request_id, operation, provider, model, source, query, explanation, success, error_message, created_at FROM narration_logs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, limitParam, offsetParam,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.NarrationLog, 0)
	for rows.Next() {
		var log models.NarrationLog
		var source string
		if err := rows.Scan(
			&log.ID,
			&log.RequestID,
			&log.Operation,
			&log.Provider,
			&log.Model,
			&source,
			&log.Query,
			&log.Explanation,
			&log.Success,
			&log.ErrorMessage,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		log.Source = models.NarrationSource(source)
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// Count возвращает количество записей по фильтру.
func (r *NarrationRepository) Count(ctx context.Context, filter NarrationFilter) (int, error) {
	where, args := buildNarrationWhere(filter)

	query := fmt.Sprintf("SELECT COUNT(*) FROM narration_logs%s", where)
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Stats возвращает агрегированную статистику за N дней.
func (r *NarrationRepository) Stats(ctx context.Context, days int) (models.NarrationStats, error) {
	stats := models.NarrationStats{}
	if days <= 0 {
		return stats, ErrInvalid
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE success),
		        COUNT(*) FILTER (WHERE source = 'fallback'),
		        COUNT(*) FILTER (WHERE source = 'cache')
		 FROM narration_logs`,
	).Scan(&stats.Total, &stats.Success, &stats.Fallback, &stats.Cached); err != nil {
		return stats, err
	}

	start := time.Now().UTC().AddDate(0, 0, -days+1)
	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', created_at)::date AS day,
		        COUNT(*)
		 FROM narration_logs
		 WHERE created_at >= $1
		 GROUP BY day
		 ORDER BY day DESC`,
		start,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	stats.ByDay = make([]models.DailyCount, 0)
	for rows.Next() {
		var row models.DailyCount
		if err := rows.Scan(&row.Day, &row.Count); err != nil {
			return stats, err
		}
		stats.ByDay = append(stats.ByDay, row)
	}

	if err := rows.Err(); err != nil {
		return stats, err
	}

	return stats, nil
}

func buildNarrationWhere(filter NarrationFilter) (string, []interface{}) {
	clauses := make([]string, 0)
	args := make([]interface{}, 0)

	if filter.Success != nil {
		args = append(args, *filter.Success)
		clauses = append(clauses, fmt.Sprintf("success = $%d", len(args)))
	}

	if filter.Source != nil {
		args = append(args, *filter.Source)
		clauses = append(clauses, fmt.Sprintf("source = $%d", len(args)))
	}

	if filter.Operation != nil {
		args = append(args, *filter.Operation)
		clauses = append(clauses, fmt.Sprintf("operation = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
