package repository

import "context"

type LockMode int

const (
	LockShare LockMode = iota
	LockUpdate
)

// TxRepositories содержит репозитории, привязанные к одной транзакции.
type TxRepositories interface {
	Gigs() GigTxRepository
	Bids() BidTxRepository
}

// Transactor выполняет fn в транзакции: commit, если fn вернула nil, иначе rollback.
// Rollback также выполняется при панике и при отмене ctx до коммита.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store объединяет всё, что нужно use case'ам от хранилища.
type Store interface {
	Transactor
	Pinger
	Gigs() GigRepository
	Bids() BidRepository
	Users() UserRepository
}
