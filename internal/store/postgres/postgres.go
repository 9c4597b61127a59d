package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"gasbook/backend/internal/domain"
	"gasbook/backend/internal/store"
	"gasbook/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SeedAccounts(ctx context.Context, storeID string, accounts []domain.Account) (bool, error) {
	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return false, err
	}
	defer func() { _ = pgTx.Rollback() }()

	var count int
	if err := pgTx.QueryRowContext(ctx, `
		SELECT count(*) FROM accounts WHERE store_id = $1
	`, storeID).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for _, account := range accounts {
		if account.Code == "" || account.StoreID != storeID {
			return false, store.ErrValidation
		}
		_, err := pgTx.ExecContext(ctx, `
			INSERT INTO accounts (store_id, code, name, type, created_at)
			VALUES ($1,$2,$3,$4,now())
		`, account.StoreID, account.Code, account.Name, account.Type)
		if err != nil {
			return false, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListAccounts(ctx context.Context, storeID string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT store_id, code, name, type
		FROM accounts
		WHERE store_id = $1
		ORDER BY code
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, 16)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.StoreID, &account.Code, &account.Name, &account.Type); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) GetAccount(ctx context.Context, storeID string, code string) (*domain.Account, error) {
	var account domain.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT store_id, code, name, type
		FROM accounts
		WHERE store_id = $1 AND code = $2
	`, storeID, code).Scan(&account.StoreID, &account.Code, &account.Name, &account.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) SeedCategories(ctx context.Context, storeID string, categories []domain.TxCategory) (bool, error) {
	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return false, err
	}
	defer func() { _ = pgTx.Rollback() }()

	var count int
	if err := pgTx.QueryRowContext(ctx, `
		SELECT count(*) FROM tx_categories WHERE store_id = $1
	`, storeID).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for _, category := range categories {
		if category.Code == "" || category.StoreID != storeID {
			return false, store.ErrValidation
		}
		placeholders, err := json.Marshal(category.Placeholders)
		if err != nil {
			return false, err
		}
		_, err = pgTx.ExecContext(ctx, `
			INSERT INTO tx_categories (
				store_id, code, name, debit_account_code, credit_account_code,
				description_template, placeholders, category_type, is_active, created_at
			)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
		`, category.StoreID, category.Code, category.Name, category.DebitAccountCode,
			category.CreditAccountCode, category.DescriptionTemplate, placeholders,
			category.CategoryType, category.IsActive)
		if err != nil {
			return false, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListCategories(ctx context.Context, storeID string) ([]domain.TxCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT store_id, code, name, debit_account_code, credit_account_code,
		       description_template, placeholders, category_type, is_active
		FROM tx_categories
		WHERE store_id = $1
		ORDER BY code
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.TxCategory, 0, 16)
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, storeID string, code string) (*domain.TxCategory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT store_id, code, name, debit_account_code, credit_account_code,
		       description_template, placeholders, category_type, is_active
		FROM tx_categories
		WHERE store_id = $1 AND code = $2
	`, storeID, code)
	category, err := scanCategory(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func scanCategory(scan func(dest ...any) error) (*domain.TxCategory, error) {
	var category domain.TxCategory
	var placeholders []byte
	err := scan(&category.StoreID, &category.Code, &category.Name,
		&category.DebitAccountCode, &category.CreditAccountCode,
		&category.DescriptionTemplate, &placeholders,
		&category.CategoryType, &category.IsActive)
	if err != nil {
		return nil, err
	}
	if len(placeholders) > 0 {
		if err := json.Unmarshal(placeholders, &category.Placeholders); err != nil {
			return nil, err
		}
	}
	return &category, nil
}

// CreateTransaction is the atomic unit of the ledger: one serializable
// transaction spans the side effect's counter mutations and the ledger
// insert. Counter updates are conditional in SQL (never read-then-write)
// so concurrent postings against the same item or shop cannot lose
// updates; a constraint miss distinguishes "row absent" from "would go
// negative" and rolls back everything.
func (s *Store) CreateTransaction(ctx context.Context, tx domain.Transaction, effect domain.SideEffect) (*domain.Transaction, error) {
	if tx.StoreID == "" || tx.CategoryCode == "" || tx.AmountCents < 1 {
		return nil, store.ErrValidation
	}
	if tx.DebitAccountCode == "" || tx.CreditAccountCode == "" || tx.DebitAccountCode == tx.CreditAccountCode {
		return nil, store.ErrValidation
	}

	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	for _, delta := range effect.Stock {
		res, err := pgTx.ExecContext(ctx, `
			UPDATE inventory_items
			SET full_count = full_count + $1,
			    empty_count = empty_count + $2,
			    defected_count = defected_count + $3,
			    updated_at = now()
			WHERE store_id = $4 AND sku = $5
			  AND full_count + $1 >= 0
			  AND empty_count + $2 >= 0
			  AND defected_count + $3 >= 0
		`, delta.FullDelta, delta.EmptyDelta, delta.DefectedDelta, tx.StoreID, delta.SKU)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			var exists bool
			err := pgTx.QueryRowContext(ctx, `
				SELECT EXISTS (SELECT 1 FROM inventory_items WHERE store_id = $1 AND sku = $2)
			`, tx.StoreID, delta.SKU).Scan(&exists)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, store.ErrNotFound
			}
			return nil, store.ErrInsufficientStock
		}
	}

	if effect.Due != nil {
		res, err := pgTx.ExecContext(ctx, `
			UPDATE shops
			SET total_due_cents = total_due_cents + $1, updated_at = now()
			WHERE store_id = $2 AND id = $3
			  AND total_due_cents + $1 >= 0
		`, effect.Due.DeltaCents, tx.StoreID, effect.Due.ShopID)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			var exists bool
			err := pgTx.QueryRowContext(ctx, `
				SELECT EXISTS (SELECT 1 FROM shops WHERE store_id = $1 AND id = $2)
			`, tx.StoreID, effect.Due.ShopID).Scan(&exists)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, store.ErrNotFound
			}
			return nil, store.ErrDueExceeded
		}
	}

	if tx.ID == "" {
		tx.ID = xid.New("tx")
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	var relatedRefs []byte
	if !tx.RelatedRefs.IsZero() {
		relatedRefs, err = json.Marshal(tx.RelatedRefs)
		if err != nil {
			return nil, err
		}
	}

	_, err = pgTx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, store_id, category_code, category_type, debit_account_code,
			credit_account_code, amount_cents, description, related_refs,
			created_by, created_at, reversal_of
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, tx.ID, tx.StoreID, tx.CategoryCode, tx.CategoryType, tx.DebitAccountCode,
		tx.CreditAccountCode, tx.AmountCents, tx.Description, relatedRefs,
		tx.CreatedBy, tx.CreatedAt, nullIfEmpty(tx.ReversalOf))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, storeID string, id string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, store_id, category_code, category_type, debit_account_code,
		       credit_account_code, amount_cents, description, related_refs,
		       created_by, created_at, reversal_of
		FROM transactions
		WHERE store_id = $1 AND id = $2
	`, storeID, id)
	tx, err := scanTransaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, storeID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `
		SELECT id, store_id, category_code, category_type, debit_account_code,
		       credit_account_code, amount_cents, description, related_refs,
		       created_by, created_at, reversal_of
		FROM transactions
		WHERE store_id = $1
	`
	args := []any{storeID}
	if filter.CategoryCode != "" {
		args = append(args, filter.CategoryCode)
		query += ` AND category_code = $2`
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND created_at >= $` + itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND created_at < $` + itoa(len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	limit := filter.Limit
	if limit < 1 {
		limit = 200
	}
	args = append(args, limit)
	query += ` LIMIT $` + itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, 64)
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func scanTransaction(scan func(dest ...any) error) (*domain.Transaction, error) {
	var tx domain.Transaction
	var relatedRefs []byte
	var reversalOf sql.NullString
	err := scan(&tx.ID, &tx.StoreID, &tx.CategoryCode, &tx.CategoryType,
		&tx.DebitAccountCode, &tx.CreditAccountCode, &tx.AmountCents,
		&tx.Description, &relatedRefs, &tx.CreatedBy, &tx.CreatedAt, &reversalOf)
	if err != nil {
		return nil, err
	}
	if len(relatedRefs) > 0 {
		if err := json.Unmarshal(relatedRefs, &tx.RelatedRefs); err != nil {
			return nil, err
		}
	}
	if reversalOf.Valid {
		tx.ReversalOf = reversalOf.String
	}
	return &tx, nil
}

func (s *Store) CashFlowSummary(ctx context.Context, storeID string, from time.Time, to time.Time) (domain.CashFlowSummary, error) {
	summary := domain.CashFlowSummary{StoreID: storeID}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE category_type = $4), 0),
			COALESCE(SUM(amount_cents) FILTER (WHERE category_type = $5), 0)
		FROM transactions
		WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
	`, storeID, from, to, domain.CategoryCashInflow, domain.CategoryCashOutflow).
		Scan(&summary.InflowCents, &summary.OutflowCents)
	if err != nil {
		return domain.CashFlowSummary{}, err
	}
	summary.NetCents = summary.InflowCents - summary.OutflowCents
	return summary, nil
}

func (s *Store) CreateShop(ctx context.Context, shop domain.Shop) (*domain.Shop, error) {
	if shop.StoreID == "" || shop.Name == "" {
		return nil, store.ErrValidation
	}
	if shop.ID == "" {
		shop.ID = xid.New("shop")
	}
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shops (id, store_id, name, phone, area, total_due_cents, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
	`, shop.ID, shop.StoreID, shop.Name, shop.Phone, shop.Area, shop.TotalDueCents, shop.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	created := shop
	return &created, nil
}

func (s *Store) GetShop(ctx context.Context, storeID string, id string) (*domain.Shop, error) {
	var shop domain.Shop
	err := s.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, phone, area, total_due_cents, created_at
		FROM shops
		WHERE store_id = $1 AND id = $2
	`, storeID, id).Scan(&shop.ID, &shop.StoreID, &shop.Name, &shop.Phone, &shop.Area, &shop.TotalDueCents, &shop.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func (s *Store) ListShops(ctx context.Context, storeID string) ([]domain.Shop, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, name, phone, area, total_due_cents, created_at
		FROM shops
		WHERE store_id = $1
		ORDER BY name
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := make([]domain.Shop, 0, 32)
	for rows.Next() {
		var shop domain.Shop
		if err := rows.Scan(&shop.ID, &shop.StoreID, &shop.Name, &shop.Phone, &shop.Area, &shop.TotalDueCents, &shop.CreatedAt); err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shops, nil
}

func (s *Store) CreateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.StoreID == "" || item.SKU == "" || item.Name == "" {
		return nil, store.ErrValidation
	}
	if item.FullCount < 0 || item.EmptyCount < 0 || item.DefectedCount < 0 {
		return nil, store.ErrValidation
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_items (store_id, sku, kind, name, full_count, empty_count, defected_count, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
	`, item.StoreID, item.SKU, item.Kind, item.Name, item.FullCount, item.EmptyCount, item.DefectedCount, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	created := item
	return &created, nil
}

func (s *Store) GetItem(ctx context.Context, storeID string, sku string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.QueryRowContext(ctx, `
		SELECT store_id, sku, kind, name, full_count, empty_count, defected_count, created_at
		FROM inventory_items
		WHERE store_id = $1 AND sku = $2
	`, storeID, sku).Scan(&item.StoreID, &item.SKU, &item.Kind, &item.Name,
		&item.FullCount, &item.EmptyCount, &item.DefectedCount, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, storeID string) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT store_id, sku, kind, name, full_count, empty_count, defected_count, created_at
		FROM inventory_items
		WHERE store_id = $1
		ORDER BY sku
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0, 32)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.StoreID, &item.SKU, &item.Kind, &item.Name,
			&item.FullCount, &item.EmptyCount, &item.DefectedCount, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, store_id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, entry.ID, entry.StoreID, entry.ActorUsername, entry.ActorRole, entry.Action,
		entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, storeID string, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4
	`, storeID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.StoreID, &entry.ActorUsername, &entry.ActorRole,
			&entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" {
		return store.ErrValidation
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $1 WHERE username = $2
	`, password, username)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
