package dto

import "time"

type TransactionInput struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Currency   string    `json:"currency" binding:"required"`
	MerchantID string    `json:"merchant_id"`
	CustomerID string    `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type WeightsInput struct {
	Fee         float64 `json:"fee" binding:"gte=0"`
	Latency     float64 `json:"latency" binding:"gte=0"`
	Reliability float64 `json:"reliability" binding:"gte=0"`
	Pressure    float64 `json:"pressure" binding:"gte=0"`
}

type OptimizeRequest struct {
	Transactions []TransactionInput `json:"transactions" binding:"required,min=1,max=500,dive"`
	Weights      *WeightsInput      `json:"weights"`
	Mode         string             `json:"mode" binding:"omitempty,oneof=auto quantum classical"`
}

type CreateTransactionRequest struct {
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Currency   string    `json:"currency" binding:"required"`
	MerchantID string    `json:"merchant_id"`
	CustomerID string    `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type CreateTransactionBatchRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=1,max=500,dive"`
}

type CreateFeeSampleRequest struct {
	GatewayID string    `json:"gateway_id" binding:"required"`
	Fee       float64   `json:"fee" binding:"gte=0"`
	LatencyMs float64   `json:"latency_ms" binding:"gte=0"`
	Timestamp time.Time `json:"timestamp"`
}
