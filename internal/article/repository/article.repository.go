package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"newstyping/internal/article/model"
	"newstyping/internal/ports"
	"newstyping/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{"id", "title", "source", "summary", "words", "url", "created_at", "expires_at"}

type ArticleRepository struct {
	DB *sql.DB
}

var _ ports.ArticleStore = (*ArticleRepository)(nil)

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{DB: db}
}

func (r *ArticleRepository) Insert(ctx context.Context, a model.NewArticle) (model.Article, error) {
	query, args, err := psql.Insert("articles").
		Columns("title", "source", "summary", "words", "url", "expires_at").
		Values(a.Title, a.Source, a.Summary, pq.StringArray(a.Words), a.URL, a.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return model.Article{}, fmt.Errorf("build insert: %w", err)
	}

	stored := model.Article{
		Title:     a.Title,
		Source:    a.Source,
		Summary:   a.Summary,
		Words:     a.Words,
		URL:       a.URL,
		ExpiresAt: a.ExpiresAt,
	}
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&stored.ID, &stored.CreatedAt); err != nil {
		logger.Sugar.Errorf("Failed to insert article %q: %v", a.Title, err)
		return model.Article{}, err
	}
	return stored, nil
}

// ListServable pushes the exclusion down for ids that are well-formed UUIDs;
// anything else could never match the uuid column and would make Postgres
// reject the whole query.
func (r *ArticleRepository) ListServable(ctx context.Context, now time.Time, excluded []string) ([]model.Article, error) {
	q := psql.Select(articleColumns...).
		From("articles").
		Where(sq.GtOrEq{"expires_at": now}).
		OrderBy("created_at DESC")

	if ids := uuidsOnly(excluded); len(ids) > 0 {
		q = q.Where(sq.NotEq{"id": ids})
	}

	articles, err := r.query(ctx, q)
	if err != nil {
		logger.Sugar.Errorf("Failed to list servable articles: %v", err)
	}
	return articles, err
}

func (r *ArticleRepository) ListAll(ctx context.Context) ([]model.Article, error) {
	articles, err := r.query(ctx, psql.Select(articleColumns...).From("articles").OrderBy("created_at DESC"))
	if err != nil {
		logger.Sugar.Errorf("Failed to list articles: %v", err)
	}
	return articles, err
}

func (r *ArticleRepository) DeleteExpired(ctx context.Context, now time.Time) ([]model.Article, error) {
	query, args, err := psql.Delete("articles").
		Where(sq.Lt{"expires_at": now}).
		Suffix("RETURNING " + strings.Join(articleColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete expired articles: %v", err)
		return nil, err
	}
	return scanArticles(rows)
}

func (r *ArticleRepository) DeleteAll(ctx context.Context) (int, error) {
	query, args, err := psql.Delete("articles").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete all articles: %v", err)
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (r *ArticleRepository) query(ctx context.Context, q sq.SelectBuilder) ([]model.Article, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var (
			a       model.Article
			summary sql.NullString
			url     sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Source, &summary, (*pq.StringArray)(&a.Words), &url, &a.CreatedAt, &a.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Summary = summary.String
		a.URL = url.String
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}

// uuidsOnly keeps ids in canonical lowercase hyphenated form, the only
// form the policy's exact-string exclusion and Postgres agree on.
func uuidsOnly(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil && u.String() == id {
			valid = append(valid, id)
		}
	}
	return valid
}
