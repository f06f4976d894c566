package service

import (
	"context"
	"time"

	"github.com/quantumpay/gateway-optimizer/internal/dto"
	"github.com/quantumpay/gateway-optimizer/internal/model"
	"github.com/quantumpay/gateway-optimizer/internal/repository"
)

type TransactionService struct {
	txnRepo *repository.TransactionRepository
	gwRepo  *repository.GatewayRepository
	feeRepo *repository.FeeHistoryRepository
}

func NewTransactionService(
	txnRepo *repository.TransactionRepository,
	gwRepo *repository.GatewayRepository,
	feeRepo *repository.FeeHistoryRepository,
) *TransactionService {
	return &TransactionService{txnRepo: txnRepo, gwRepo: gwRepo, feeRepo: feeRepo}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*model.Transaction, error) {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	txn := &model.Transaction{
		Amount:     req.Amount,
		Currency:   req.Currency,
		MerchantID: req.MerchantID,
		CustomerID: req.CustomerID,
		Timestamp:  ts,
	}

	if err := s.txnRepo.Insert(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// CreateTransactionBatch persists a whole batch in one round trip.
func (s *TransactionService) CreateTransactionBatch(ctx context.Context, req *dto.CreateTransactionBatchRequest) ([]*model.Transaction, error) {
	now := time.Now().UTC()

	txns := make([]*model.Transaction, len(req.Transactions))
	for i, in := range req.Transactions {
		ts := in.Timestamp
		if ts.IsZero() {
			ts = now
		}
		txns[i] = &model.Transaction{
			Amount:     in.Amount,
			Currency:   in.Currency,
			MerchantID: in.MerchantID,
			CustomerID: in.CustomerID,
			Timestamp:  ts,
		}
	}

	if err := s.txnRepo.InsertBatch(ctx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// RecordFeeSample ingests one observed fee for a known gateway, feeding
// both the forecaster and the baseline policy.
func (s *TransactionService) RecordFeeSample(ctx context.Context, req *dto.CreateFeeSampleRequest) (*model.FeeSample, error) {
	if _, err := s.gwRepo.GetSnapshot(ctx, req.GatewayID); err != nil {
		return nil, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	sample := &model.FeeSample{
		GatewayID: req.GatewayID,
		Fee:       req.Fee,
		LatencyMs: req.LatencyMs,
		Timestamp: ts,
	}

	if err := s.feeRepo.InsertSample(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}
