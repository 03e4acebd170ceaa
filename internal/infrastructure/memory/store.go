// Package memory implementa los repositorios del motor en memoria, para desarrollo y tests.
// Cada Run trabaja sobre una copia de los datos y solo la publica si fn termina sin error,
// así que un fallo a mitad de camino no deja escrituras parciales.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type data struct {
	products  map[string]entity.Product
	movements map[string]entity.StockMovement
	sales     map[string]entity.Sale
	items     map[string][]entity.SaleItem
	charges   map[string][]entity.ExtraCharge
	credits   map[string]entity.Credit
	payments  []entity.PaymentRecord
	histories []entity.History
	clients   map[string]entity.Client
}

func newData() *data {
	return &data{
		products:  make(map[string]entity.Product),
		movements: make(map[string]entity.StockMovement),
		sales:     make(map[string]entity.Sale),
		items:     make(map[string][]entity.SaleItem),
		charges:   make(map[string][]entity.ExtraCharge),
		credits:   make(map[string]entity.Credit),
		clients:   make(map[string]entity.Client),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.movements {
		c.movements[k] = v
	}
	for k, v := range d.sales {
		c.sales[k] = v
	}
	for k, v := range d.items {
		c.items[k] = append([]entity.SaleItem(nil), v...)
	}
	for k, v := range d.charges {
		c.charges[k] = append([]entity.ExtraCharge(nil), v...)
	}
	for k, v := range d.credits {
		c.credits[k] = v
	}
	for k, v := range d.clients {
		c.clients[k] = v
	}
	c.payments = append([]entity.PaymentRecord(nil), d.payments...)
	c.histories = append([]entity.History(nil), d.histories...)
	return c
}

// Store guarda todas las entidades del motor. Las transacciones se serializan con mu,
// equivalente a bloquear todas las filas a la vez.
type Store struct {
	mu   sync.Mutex
	data *data
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newData()}
}

// Run ejecuta fn sobre una copia de los datos y la confirma si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.NewLedgerError(domain.ErrTransactionAborted, "", err.Error())
	}
	work := s.data.clone()
	if err := fn(repositoriesFor(work)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.NewLedgerError(domain.ErrTransactionAborted, "", err.Error())
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.NewLedgerError(domain.ErrTransactionAborted, "", err.Error())
	}
	s.data = work
	return nil
}

// SeedProduct inserta o reemplaza un producto fuera de toda transacción.
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = p
}

// SeedClient inserta o reemplaza un cliente.
func (s *Store) SeedClient(c entity.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.clients[c.ID] = c
}

func repositoriesFor(d *data) repository.Repositories {
	return repository.Repositories{
		Products:  &productRepo{d: d},
		Movements: &movementRepo{d: d},
		Sales:     &saleRepo{d: d},
		Credits:   &creditRepo{d: d},
		Payments:  &paymentRepo{d: d},
		Histories: &historyRepo{d: d},
		Clients:   &clientRepo{d: d},
	}
}
