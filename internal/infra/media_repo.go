package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/artcast/mediagen/internal/models"
	"github.com/artcast/mediagen/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxPromptLen = 500

type PostgresMediaRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMediaRepo(pool *pgxpool.Pool) ports.MediaRepository {
	return &PostgresMediaRepo{pool: pool}
}

// truncate bounds s to max characters. Runes, not bytes: a byte
// slice could cut a multi-byte rune in half and Postgres rejects
// invalid UTF-8 on insert.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func (r *PostgresMediaRepo) InsertArticle(ctx context.Context, article *models.Article) (*models.Article, error) {
	query := `
		INSERT INTO articles (url, title)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	row := r.pool.QueryRow(ctx, query, article.URL, article.Title)
	if err := row.Scan(&article.ID, &article.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return article, nil
}

func (r *PostgresMediaRepo) InsertMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	query := `
		INSERT INTO media (article_id, prompt, style, media_type, media_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	row := r.pool.QueryRow(ctx, query,
		media.ArticleID,
		truncate(media.Prompt, maxPromptLen),
		media.Style,
		media.Type,
		media.URL,
	)
	if err := row.Scan(&media.ID, &media.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}
	return media, nil
}

func (r *PostgresMediaRepo) GetMediaByID(ctx context.Context, id int) (*models.Media, error) {
	query := `
		SELECT id, article_id, prompt, style, media_type, media_url, created_at
		FROM media
		WHERE id = $1
	`

	var m models.Media

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.ArticleID,
		&m.Prompt,
		&m.Style,
		&m.Type,
		&m.URL,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media by id: %w", err)
	}

	return &m, nil
}

func (r *PostgresMediaRepo) GetMediaURLsByArticle(ctx context.Context, articleID int, mediaType string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT media_url
		 FROM media
		 WHERE article_id = $1 AND media_type = $2 AND media_url <> ''
		 ORDER BY id ASC`,
		articleID, mediaType,
	)
	if err != nil {
		return nil, fmt.Errorf("get media urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}

func (r *PostgresMediaRepo) GetMediaWithArticleInfo(ctx context.Context, limit int) ([]models.MediaWithArticle, error) {
	query := `
		SELECT m.id, m.article_id, m.prompt, m.style, m.media_type, m.media_url, m.created_at,
		       COALESCE(a.url, ''), COALESCE(a.title, '')
		FROM media m
		LEFT JOIN articles a ON a.id = m.article_id
		ORDER BY m.id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	return scanMediaWithArticle(rows)
}

func (r *PostgresMediaRepo) SearchMedia(ctx context.Context, term string, limit int) ([]models.MediaWithArticle, error) {
	query := `
		SELECT m.id, m.article_id, m.prompt, m.style, m.media_type, m.media_url, m.created_at,
		       COALESCE(a.url, ''), COALESCE(a.title, '')
		FROM media m
		LEFT JOIN articles a ON a.id = m.article_id
		WHERE m.prompt ILIKE '%' || $1 || '%'
		   OR m.style ILIKE '%' || $1 || '%'
		   OR a.title ILIKE '%' || $1 || '%'
		ORDER BY m.id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search media: %w", err)
	}
	defer rows.Close()

	return scanMediaWithArticle(rows)
}

func scanMediaWithArticle(rows pgx.Rows) ([]models.MediaWithArticle, error) {
	var out []models.MediaWithArticle
	for rows.Next() {
		var m models.MediaWithArticle
		err := rows.Scan(
			&m.ID,
			&m.ArticleID,
			&m.Prompt,
			&m.Style,
			&m.Type,
			&m.URL,
			&m.CreatedAt,
			&m.ArticleURL,
			&m.ArticleTitle,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresMediaRepo) DeleteMedia(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete media: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresMediaRepo) DeleteArticle(ctx context.Context, id int) (bool, error) {
	// cascade: media rows first, then the article itself
	if _, err := r.pool.Exec(ctx, `DELETE FROM media WHERE article_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete article media: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete article: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
