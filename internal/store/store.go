package store

import (
	"context"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Batch() Batch
	Catalog() Catalog
	Supersession() Supersession
	Order() Order
	OrderStatus() OrderStatus
	Audit() Audit
	InitialMigration(ctx context.Context) error
	Statistics(ctx context.Context) (model.IngestStats, error)
	Close() error
}

type DataStore struct {
	db           *gorm.DB
	batch        Batch
	catalog      Catalog
	supersession Supersession
	order        Order
	orderStatus  OrderStatus
	audit        Audit
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		batch:        NewBatchStore(db),
		catalog:      NewCatalogStore(db),
		supersession: NewSupersessionStore(db),
		order:        NewOrderStore(db),
		orderStatus:  NewOrderStatusStore(db),
		audit:        NewAuditStore(db),
		db:           db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Batch() Batch {
	return s.batch
}

func (s *DataStore) Catalog() Catalog {
	return s.catalog
}

func (s *DataStore) Supersession() Supersession {
	return s.supersession
}

func (s *DataStore) Order() Order {
	return s.order
}

func (s *DataStore) OrderStatus() OrderStatus {
	return s.orderStatus
}

func (s *DataStore) Audit() Audit {
	return s.audit
}

// InitialMigration creates the schema from the models. Deployments that manage the
// schema with SQL migrations run those instead.
func (s *DataStore) InitialMigration(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&model.Batch{},
		&model.StagedRow{},
		&model.CatalogPart{},
		&model.Supersession{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderLineStatus{},
		&model.AuditLog{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
