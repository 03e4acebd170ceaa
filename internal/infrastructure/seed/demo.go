// Package seed contiene el catálogo de demostración que cargan cmd/migrate -seed y el
// driver en memoria. Los productos nacen con stock 0; el stock inicial entra como
// movimiento IN para que el historial cuadre con stock_quantity.
package seed

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Product producto de demo con su stock inicial.
type Product struct {
	entity.Product
	InitialStock int64
}

// Products catálogo de demo.
func Products() []Product {
	now := time.Now()
	mk := func(id, name, sku, purchase, sale, unit string, stock int64) Product {
		return Product{
			Product: entity.Product{
				ID:            id,
				Name:          name,
				SKU:           sku,
				PurchasePrice: decimal.RequireFromString(purchase),
				SalePrice:     decimal.RequireFromString(sale),
				Unit:          unit,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
			InitialStock: stock,
		}
	}
	return []Product{
		mk("demo-martillo", "Martillo de uña 16oz", "HER-001", "45.00", "79.90", "pieza", 25),
		mk("demo-tornillo", "Tornillo 1/4 x 2in (caja 100)", "TOR-014", "38.50", "65.00", "caja", 40),
		mk("demo-pintura", "Pintura vinílica blanca 19L", "PIN-190", "890.00", "1299.00", "cubeta", 8),
		mk("demo-cemento", "Cemento gris 50kg", "CEM-050", "185.00", "245.00", "bulto", 0),
	}
}

// Clients clientes de demo.
func Clients() []entity.Client {
	now := time.Now()
	return []entity.Client{
		{ID: "demo-cliente-1", Name: "Ferretería El Tornillo Feliz", Phone: "5551234567", CreatedAt: now},
		{ID: "demo-cliente-2", Name: "Construcciones Rivera", Phone: "5559876543", CreatedAt: now},
	}
}

// LoadInitialStock registra la entrada inicial de cada producto. Si ya existe un
// movimiento con la referencia de seed se asume cargado y se omite.
func LoadInitialStock(ctx context.Context, ledger *inventory.MovementLedger, products []Product, userID string) (int, error) {
	loaded := 0
	for _, p := range products {
		if p.InitialStock <= 0 {
			continue
		}
		list, err := ledger.ListMovements(ctx, p.ID, nil, nil, 1, 0)
		if err != nil {
			return loaded, err
		}
		if len(list) > 0 {
			continue
		}
		_, err = ledger.CreateMovement(ctx, inventory.MovementInput{
			ProductID:   p.ID,
			Type:        entity.MovementTypeIN,
			Quantity:    p.InitialStock,
			Reference:   "seed",
			Description: "inventario inicial",
			UserID:      userID,
		})
		if err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}
