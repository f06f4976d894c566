package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) Insert(ctx context.Context, txn *model.Transaction) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (amount, currency, merchant_id, customer_id, txn_timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, txn.Amount, txn.Currency, txn.MerchantID, txn.CustomerID, txn.Timestamp).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) InsertBatch(ctx context.Context, txns []*model.Transaction) error {
	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(`
			INSERT INTO transactions (amount, currency, merchant_id, customer_id, txn_timestamp)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, txn.Amount, txn.Currency, txn.MerchantID, txn.CustomerID, txn.Timestamp)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, txn := range txns {
		if err := results.QueryRow().Scan(&txn.ID, &txn.CreatedAt); err != nil {
			return fmt.Errorf("insert transaction batch: %w", err)
		}
	}
	return nil
}
