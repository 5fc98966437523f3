package capital

import "context"

// TransactionStore persists the transactions of each owner.
//
// ListTransactions returns them in the order they were created, an update
// keeping the rank of the transaction. Update and Delete return ErrNotFound
// for unknown ids.
type TransactionStore interface {
	ListTransactions(ctx context.Context, owner string) ([]Transaction, error)
	CreateTransaction(ctx context.Context, owner string, tx Transaction) error
	UpdateTransaction(ctx context.Context, owner string, tx Transaction) error
	DeleteTransaction(ctx context.Context, owner, id string) error
}

// SummaryStore persists the close history of each owner.
//
// CreateMonthSummary must reject a second summary for the same month with ErrDuplicateMonth.
type SummaryStore interface {
	ListMonthSummaries(ctx context.Context, owner string) ([]MonthSummary, error)
	CreateMonthSummary(ctx context.Context, owner string, s MonthSummary) error
}

// CapitalStore persists the initial capital of each owner. An unset value reads as zero.
type CapitalStore interface {
	GetInitialCapital(ctx context.Context, owner string) (Money, error)
	SetInitialCapital(ctx context.Context, owner string, value Money) error
}

// Store groups the three stores a Book reads from.
type Store interface {
	TransactionStore
	SummaryStore
	CapitalStore
}
