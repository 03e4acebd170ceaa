package repository

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Sales     SaleRepository
	Credits   CreditRepository
	Payments  PaymentRepository
	Histories HistoryRepository
	Clients   ClientRepository
}
