// Package repository is the persistence boundary for the portal's records:
// the service catalog, applications and their status lifecycle, complaints,
// offices and users.
package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"govportal/internal/common/database"
	"govportal/internal/common/errors"
	"govportal/internal/common/logger"
	"govportal/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	serviceCacheKeyPrefix = "service:"
	serviceCacheTTL       = 5 * time.Minute
)

// ServiceRepository reads the service catalog. Lookups go through a Redis
// read-through cache; full-text search uses Elasticsearch when configured
// and falls back to SQL matching otherwise.
type ServiceRepository struct {
	db     *sql.DB
	cache  *database.RedisClient
	search *database.ElasticsearchClient
	logger logger.Logger
}

// NewServiceRepository creates a ServiceRepository. cache and search are
// optional; pass nil to disable them.
func NewServiceRepository(db *sql.DB, cache *database.RedisClient, search *database.ElasticsearchClient, log logger.Logger) *ServiceRepository {
	return &ServiceRepository{
		db:     db,
		cache:  cache,
		search: search,
		logger: log.WithFields(map[string]interface{}{"repository": "services"}),
	}
}

const serviceColumns = `id, category, name, COALESCE(description, ''), COALESCE(requirements, ''),
	COALESCE(fees, 0), COALESCE(processing_time, ''), COALESCE(department, ''),
	COALESCE(department_contact, ''), COALESCE(department_email, ''), form_fields, created_at`

func scanService(row interface{ Scan(...interface{}) error }) (*models.Service, error) {
	var s models.Service
	var formFields []byte
	err := row.Scan(&s.ID, &s.Category, &s.Name, &s.Description, &s.Requirements,
		&s.Fees, &s.ProcessingTime, &s.Department, &s.DepartmentContact,
		&s.DepartmentEmail, &formFields, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(formFields) > 0 {
		s.FormFields = json.RawMessage(formFields)
	}
	return &s, nil
}

// Get returns one service by id, consulting the cache first.
func (r *ServiceRepository) Get(ctx context.Context, id int64) (*models.Service, error) {
	if cached := r.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	svc, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewServiceNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewStorageError(err)
	}

	r.toCache(ctx, svc)
	return svc, nil
}

func (r *ServiceRepository) fromCache(ctx context.Context, id int64) *models.Service {
	if r.cache == nil {
		return nil
	}
	data, err := r.cache.Get(ctx, serviceCacheKeyPrefix+strconv.FormatInt(id, 10))
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("Service cache read failed", map[string]interface{}{
				"service_id": id,
				"error":      err.Error(),
			})
		}
		return nil
	}
	var svc models.Service
	if err := json.Unmarshal([]byte(data), &svc); err != nil {
		return nil
	}
	return &svc
}

func (r *ServiceRepository) toCache(ctx context.Context, svc *models.Service) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(svc)
	if err != nil {
		return
	}
	key := serviceCacheKeyPrefix + strconv.FormatInt(svc.ID, 10)
	if err := r.cache.Set(ctx, key, data, serviceCacheTTL); err != nil {
		r.logger.Warn("Service cache write failed", map[string]interface{}{
			"service_id": svc.ID,
			"error":      err.Error(),
		})
	}
}

// List returns the whole catalog ordered by category then name.
func (r *ServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY category, name`)
}

// ListByCategory returns the services in one category.
func (r *ServiceRepository) ListByCategory(ctx context.Context, category string) ([]models.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services WHERE category = $1 ORDER BY name`, category)
}

func (r *ServiceRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Service, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	defer rows.Close()

	var out []models.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, errors.NewStorageError(err)
		}
		out = append(out, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(err)
	}
	return out, nil
}

// Search matches services by name, description or department. With
// Elasticsearch configured the query runs there; any search-side failure
// falls back to SQL so the catalog stays browsable.
func (r *ServiceRepository) Search(ctx context.Context, query string) ([]models.Service, error) {
	if r.search != nil {
		if results, err := r.searchES(ctx, query); err == nil {
			return results, nil
		} else {
			r.logger.Warn("Elasticsearch query failed, falling back to SQL", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
		}
	}

	pattern := "%" + query + "%"
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services
		WHERE name ILIKE $1 OR description ILIKE $1 OR department ILIKE $1
		ORDER BY name`, pattern)
}

func (r *ServiceRepository) searchES(ctx context.Context, query string) ([]models.Service, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^2", "description", "department"},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := r.search.Client.Search(
		r.search.Client.Search.WithContext(ctx),
		r.search.Client.Search.WithIndex(r.search.Index),
		r.search.Client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Service `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	out := make([]models.Service, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}

// IndexAll mirrors the catalog into the search index. Called at startup;
// failures are logged and never fatal.
func (r *ServiceRepository) IndexAll(ctx context.Context) {
	if r.search == nil {
		return
	}

	services, err := r.List(ctx)
	if err != nil {
		r.logger.Warn("Skipping search indexing, catalog read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for i := range services {
		doc, err := json.Marshal(services[i])
		if err != nil {
			continue
		}
		res, err := r.search.Client.Index(
			r.search.Index,
			bytes.NewReader(doc),
			r.search.Client.Index.WithContext(ctx),
			r.search.Client.Index.WithDocumentID(strconv.FormatInt(services[i].ID, 10)),
		)
		if err != nil {
			r.logger.Warn("Failed to index service", map[string]interface{}{
				"service_id": services[i].ID,
				"error":      err.Error(),
			})
			continue
		}
		res.Body.Close()
	}

	r.logger.Info("Service catalog indexed", map[string]interface{}{
		"count": len(services),
	})
}
