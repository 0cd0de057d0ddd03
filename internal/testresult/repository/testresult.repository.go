package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"newstyping/internal/ports"
	"newstyping/internal/testresult/model"
	"newstyping/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type TestResultRepository struct {
	DB *sql.DB
}

var _ ports.TestResultStore = (*TestResultRepository)(nil)

func NewTestResultRepository(db *sql.DB) *TestResultRepository {
	return &TestResultRepository{DB: db}
}

func (r *TestResultRepository) Insert(ctx context.Context, userID string, req model.SaveTestRequest) (model.TestResult, error) {
	query, args, err := psql.Insert("typing_tests").
		Columns("user_id", "topic", "article_title", "wpm", "accuracy", `"time"`).
		Values(userID, req.Topic, req.ArticleTitle, req.WPM, req.Accuracy, req.Time).
		Suffix("RETURNING id, completed_at").
		ToSql()
	if err != nil {
		return model.TestResult{}, fmt.Errorf("build insert: %w", err)
	}

	t := model.TestResult{
		UserID:       userID,
		Topic:        req.Topic,
		ArticleTitle: req.ArticleTitle,
		WPM:          req.WPM,
		Accuracy:     req.Accuracy,
		Time:         req.Time,
	}
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CompletedAt); err != nil {
		logger.Sugar.Errorf("Failed to save typing test for user %s: %v", userID, err)
		return model.TestResult{}, err
	}
	return t, nil
}

func (r *TestResultRepository) ListByUser(ctx context.Context, userID string) ([]model.TestResult, error) {
	query, args, err := psql.Select("id", "user_id", "topic", "article_title", "wpm", "accuracy", `"time"`, "completed_at").
		From("typing_tests").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("completed_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to fetch test history for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	tests := []model.TestResult{}
	for rows.Next() {
		var (
			t     model.TestResult
			title sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Topic, &title, &t.WPM, &t.Accuracy, &t.Time, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		t.ArticleTitle = title.String
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (r *TestResultRepository) MetricsByUser(ctx context.Context, userID string) ([]model.Metrics, error) {
	query, args, err := psql.Select("wpm", "accuracy", `"time"`).
		From("typing_tests").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to fetch test metrics for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var metrics []model.Metrics
	for rows.Next() {
		var m model.Metrics
		if err := rows.Scan(&m.WPM, &m.Accuracy, &m.Time); err != nil {
			return nil, fmt.Errorf("scan metrics: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
