package repository

import (
	"context"
	"database/sql"
	"time"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCreditCard = "CreditCard"
	PaymentMethodDebitCard  = "DebitCard"
	PaymentMethodPayPal     = "PayPal"
)

// Payment statuses as stored in payment.payment_state.
const (
	PaymentUnpaid    = "UNPAID"
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentDeclined  = "DECLINED"
	PaymentRefunded  = "REFUNDED"
)

// ValidPaymentMethod reports whether m is an accepted checkout method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal:
		return true
	}
	return false
}

// Payment is a row of the payment table. The flight it paid for is linked
// through flight_payment.
type Payment struct {
	ID     uint64
	Amount float64
	Method string
	Date   time.Time
	UserID uint64
	Status string
}

type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts the payment row inside the booking confirmation
// transaction. On success the payment's ID is populated.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *Payment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payment (payment_amount, payment_method, payment_date, user_id, payment_state)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Amount, p.Method, p.Date, p.UserID, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// LinkFlightTx records which flight a payment covered.
func (r *PaymentRepo) LinkFlightTx(ctx context.Context, tx *sql.Tx, paymentID, flightID uint64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO flight_payment (payment_id, flight_id) VALUES (?, ?)`,
		paymentID, flightID)
	return err
}

// ListByUser returns a user's payment history, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]Payment, error) {
	const q = `SELECT id, payment_amount, payment_method, payment_date, user_id, payment_state
	           FROM payment WHERE user_id = ?
	           ORDER BY payment_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.Method, &p.Date, &p.UserID, &p.Status); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
