// Package memory implementa los puertos de persistencia del núcleo de
// inventario sobre estructuras en memoria. Se usa en tests y entornos de
// desarrollo sin PostgreSQL: mismo contrato transaccional (commit/rollback),
// con las transacciones serializadas por un mutex global que modela el
// bloqueo exclusivo de fila.
package memory

import (
	"strings"
	"sync"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// Store contiene el estado compartido. Solo TxRunner toca mu.
type Store struct {
	mu sync.Mutex

	records    map[string]*entity.StockRecord // clave: tupla
	recordIDs  map[string]string              // id -> clave de tupla
	movements  []*entity.MovementEntry
	history    []*entity.HistorySnapshot
	transfers  map[string]*entity.WarehouseTransfer
	orders     map[string]*entity.Order
	supReturns map[string]*entity.SupplierReturn
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		records:    make(map[string]*entity.StockRecord),
		recordIDs:  make(map[string]string),
		transfers:  make(map[string]*entity.WarehouseTransfer),
		orders:     make(map[string]*entity.Order),
		supReturns: make(map[string]*entity.SupplierReturn),
	}
}

func recordKey(accountID, productID, variantID, warehouseID string) string {
	return strings.Join([]string{accountID, productID, variantID, warehouseID}, "|")
}

// SeedStockRecord inserta o reemplaza un registro de stock (solo tests/seed).
func (s *Store) SeedStockRecord(rec *entity.StockRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	key := recordKey(rec.AccountID, rec.ProductID, rec.VariantID, rec.WarehouseID)
	s.records[key] = &cp
	s.recordIDs[rec.ID] = key
}

// SeedOrder inserta o reemplaza un pedido (solo tests/seed).
func (s *Store) SeedOrder(order *entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = copyOrder(order)
}

// snapshot es la copia profunda del estado para rollback.
type snapshot struct {
	records    map[string]*entity.StockRecord
	recordIDs  map[string]string
	movements  []*entity.MovementEntry
	history    []*entity.HistorySnapshot
	transfers  map[string]*entity.WarehouseTransfer
	orders     map[string]*entity.Order
	supReturns map[string]*entity.SupplierReturn
}

func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		records:    make(map[string]*entity.StockRecord, len(s.records)),
		recordIDs:  make(map[string]string, len(s.recordIDs)),
		movements:  make([]*entity.MovementEntry, len(s.movements)),
		history:    make([]*entity.HistorySnapshot, len(s.history)),
		transfers:  make(map[string]*entity.WarehouseTransfer, len(s.transfers)),
		orders:     make(map[string]*entity.Order, len(s.orders)),
		supReturns: make(map[string]*entity.SupplierReturn, len(s.supReturns)),
	}
	for k, v := range s.records {
		cp := *v
		snap.records[k] = &cp
	}
	for k, v := range s.recordIDs {
		snap.recordIDs[k] = v
	}
	for i, m := range s.movements {
		cp := *m
		snap.movements[i] = &cp
	}
	for i, h := range s.history {
		cp := *h
		snap.history[i] = &cp
	}
	for k, v := range s.transfers {
		cp := *v
		snap.transfers[k] = &cp
	}
	for k, v := range s.orders {
		snap.orders[k] = copyOrder(v)
	}
	for k, v := range s.supReturns {
		cp := *v
		snap.supReturns[k] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.records = snap.records
	s.recordIDs = snap.recordIDs
	s.movements = snap.movements
	s.history = snap.history
	s.transfers = snap.transfers
	s.orders = snap.orders
	s.supReturns = snap.supReturns
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = make([]entity.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}
