package repositories

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wavemedia/internal/models"
)

type ProductRepository struct {
	DB *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(p *models.Product) (int64, error) {
	var id int64
	err := r.DB.QueryRow(`
		INSERT INTO products (name, description, price_cents, image_url, stock)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, p.Name, p.Description, p.PriceCents, p.ImageURL, p.Stock).Scan(&id)
	return id, err
}

func (r *ProductRepository) GetByID(id int64) (*models.Product, error) {
	p := &models.Product{}
	if err := r.DB.Get(p, `SELECT * FROM products WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Update(id int64, p *models.Product) error {
	_, err := r.DB.Exec(`
		UPDATE products
		SET name=$1, description=$2, price_cents=$3, image_url=$4, stock=$5, updated_at=NOW()
		WHERE id=$6
	`, p.Name, p.Description, p.PriceCents, p.ImageURL, p.Stock, id)
	return err
}

func (r *ProductRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *ProductRepository) List(limit, offset int) ([]models.Product, error) {
	var out []models.Product
	err := r.DB.Select(&out, `SELECT * FROM products ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	return out, err
}

type OrderRepository struct {
	DB *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(o *models.Order) (int64, error) {
	var id int64
	err := r.DB.QueryRow(`
		INSERT INTO orders (number, user_id, product_id, quantity, total_cents, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, o.Number, o.UserID, o.ProductID, o.Quantity, o.TotalCents, o.Status).Scan(&id)
	return id, err
}

func (r *OrderRepository) GetByID(id int64) (*models.Order, error) {
	o := &models.Order{}
	if err := r.DB.Get(o, `SELECT * FROM orders WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) Update(id int64, o *models.Order) error {
	_, err := r.DB.Exec(`
		UPDATE orders
		SET product_id=$1, quantity=$2, total_cents=$3, status=$4, updated_at=NOW()
		WHERE id=$5
	`, o.ProductID, o.Quantity, o.TotalCents, o.Status, id)
	return err
}

func (r *OrderRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *OrderRepository) List(limit, offset int) ([]models.Order, error) {
	var out []models.Order
	err := r.DB.Select(&out, `SELECT * FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return out, err
}

func (r *OrderRepository) ListByUser(userID int64, limit, offset int) ([]models.Order, error) {
	var out []models.Order
	err := r.DB.Select(&out, `
		SELECT * FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return out, err
}

func (r *OrderRepository) Count() (int, error) {
	var c int
	err := r.DB.Get(&c, `SELECT COUNT(*) FROM orders`)
	return c, err
}

type PaymentRepository struct {
	DB *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(p *models.Payment) (int64, error) {
	var id int64
	err := r.DB.QueryRow(`
		INSERT INTO payments (order_id, amount_cents, method, status, provider_ref)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, p.OrderID, p.AmountCents, p.Method, p.Status, p.ProviderRef).Scan(&id)
	return id, err
}

func (r *PaymentRepository) GetByID(id int64) (*models.Payment, error) {
	p := &models.Payment{}
	if err := r.DB.Get(p, `SELECT * FROM payments WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) Update(id int64, p *models.Payment) error {
	_, err := r.DB.Exec(`
		UPDATE payments
		SET amount_cents=$1, method=$2, status=$3, provider_ref=$4, updated_at=NOW()
		WHERE id=$5
	`, p.AmountCents, p.Method, p.Status, p.ProviderRef, id)
	return err
}

func (r *PaymentRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *PaymentRepository) List(limit, offset int) ([]models.Payment, error) {
	var out []models.Payment
	err := r.DB.Select(&out, `SELECT * FROM payments ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return out, err
}
