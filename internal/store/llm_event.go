package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo. Events are append-only; the
// autoincrement id gives their global order.
type eventRepo struct{ s *Store }

var llmEventColumns = []string{
	"id", "created_at", "provider", "model", "purpose", "tenant_id",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := r.s.builder().Insert("llm_request_events").
		Columns(llmEventColumns[1:]...).
		Values(
			now(), data.Provider, data.Model, data.Purpose, data.TenantID,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
			data.RequestBody, data.ResponseBody,
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	b := r.s.builder()
	sel := b.Select(llmEventColumns...).
		From(b.Table("llm_request_events")).
		OrderBy(entsql.Desc("id"))
	if opts.Purpose != "" {
		sel = sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE("created_at", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE("created_at", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventRecord
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error) {
	b := r.s.builder()
	query, args := b.Select(llmEventColumns...).
		From(b.Table("llm_request_events")).
		Where(entsql.EQ("id", id)).
		Query()

	e, err := scanLLMEvent(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usageBy(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usageBy(ctx, "model")
}

func (r *eventRepo) usageBy(ctx context.Context, column string) ([]LLMUsage, error) {
	b := r.s.builder()
	query, args := b.Select(
		column,
		entsql.Count("*"),
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		entsql.Avg("latency_ms"),
	).
		From(b.Table("llm_request_events")).
		GroupBy(column).
		OrderBy(column).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		var in, outTok sql.NullInt64
		var avg sql.NullFloat64
		if err := rows.Scan(&u.Key, &u.Calls, &in, &outTok, &avg); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.InputTokens = int(in.Int64)
		u.OutputTokens = int(outTok.Int64)
		u.AvgLatencyMs = int64(avg.Float64)
		out = append(out, u)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row scanner) (*LLMRequestEventRecord, error) {
	var e LLMRequestEventRecord
	err := row.Scan(
		&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose, &e.TenantID,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	return &e, nil
}
