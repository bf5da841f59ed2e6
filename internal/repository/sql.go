package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/kahvecikaan/shopping-list/internal/database"
	"github.com/kahvecikaan/shopping-list/internal/domain"
)

const (
	selectItems = `SELECT id, description, is_done FROM shopping_list_items ORDER BY id`
	selectItem  = `SELECT id, description, is_done FROM shopping_list_items WHERE id = ?`
	insertItem  = `INSERT INTO shopping_list_items (description, is_done) VALUES (?, ?) RETURNING id`
	updateItem  = `UPDATE shopping_list_items SET description = ?, is_done = ? WHERE id = ?`
	deleteItem  = `DELETE FROM shopping_list_items WHERE id = ?`
	existsItem  = `SELECT EXISTS (SELECT 1 FROM shopping_list_items WHERE id = ?)`
)

type sqlItemRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLItemRepository stores items in the shopping_list_items table of db.
// The schema must already be migrated.
func NewSQLItemRepository(db *sql.DB, dialect database.Dialect) ItemRepository {
	return &sqlItemRepository{db: db, dialect: dialect}
}

func (r *sqlItemRepository) GetAll(ctx context.Context) (domain.Items, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	rows, err := r.db.QueryContext(ctx, selectItems)
	if err != nil {
		return nil, r.storeError(ctx, "list items", err)
	}
	defer rows.Close()

	items := domain.Items{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Description, &item.IsDone); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(ctx, "list items", err)
	}

	return items, nil
}

func (r *sqlItemRepository) GetByID(ctx context.Context, id int) (*domain.Item, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	var item domain.Item
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectItem), id).
		Scan(&item.ID, &item.Description, &item.IsDone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, r.storeError(ctx, "get item", err)
	}

	return &item, nil
}

func (r *sqlItemRepository) Add(ctx context.Context, item *domain.Item) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	var id int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertItem), item.Description, item.IsDone).Scan(&id)
	if err != nil {
		return r.storeError(ctx, "insert item", err)
	}

	item.ID = id
	return nil
}

func (r *sqlItemRepository) Update(ctx context.Context, item *domain.Item) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(updateItem), item.Description, item.IsDone, item.ID)
	if err != nil {
		return r.storeError(ctx, "update item", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return r.storeError(ctx, "update item", err)
	}
	if n == 0 {
		return domain.ErrConcurrencyConflict
	}

	return nil
}

func (r *sqlItemRepository) Delete(ctx context.Context, id int) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteItem), id)
	if err != nil {
		return r.storeError(ctx, "delete item", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return r.storeError(ctx, "delete item", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *sqlItemRepository) Exists(ctx context.Context, id int) (bool, error) {
	if r.db == nil {
		return false, domain.ErrStoreUnavailable
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(existsItem), id).Scan(&exists); err != nil {
		return false, r.storeError(ctx, "check item", err)
	}
	return exists, nil
}

// storeError tags failures caused by a pool that can no longer serve queries
// so the transport can tell them apart from query bugs. A pool that still
// answers a ping means the query itself failed.
func (r *sqlItemRepository) storeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || r.db.PingContext(ctx) != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
