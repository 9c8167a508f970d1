package port

import "context"

// Tx exposes the repositories bound to one open transaction.
type Tx interface {
	Series() SeriesTxRepository
	Documents() DocumentTxRepository
}

// TxFunc runs inside a transaction. Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, tx Tx) error

// Store is the persistence root handed to services.
type Store interface {
	Series() SeriesRepository
	Documents() DocumentRepository
	Jurisdictions() JurisdictionRepository
	// WithTx commits when fn returns nil and rolls back otherwise, releasing every row lock taken inside.
	WithTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close() error
}
