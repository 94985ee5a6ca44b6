package repos

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Keys mirrored into the local cache.
const (
	KeyToken        = "cartify_token"
	KeyUser         = "cartify_user"
	KeyApplications = "cartify_applications"
	KeyCategories   = "cartify_categories"
	KeyCategoryMap  = "cartify_category_map"
)

// KVRepo stores JSON values by key. Last write wins.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

// Load decodes the value stored under key into v. It reports false when the
// key is absent.
func (r *KVRepo) Load(key string, v any) (bool, error) {
	var raw string
	err := r.db.Get(&raw, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, errors.Wrapf(err, "decode cached %s", key)
	}
	return true, nil
}

func (r *KVRepo) Save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	_, err = r.db.Exec(`
		INSERT INTO kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, string(b))
	return err
}

func (r *KVRepo) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Keys lists stored keys in name order.
func (r *KVRepo) Keys() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT key FROM kv ORDER BY key`)
	return out, err
}
