package store

import (
	"github.com/dealerportal/partsfeed/internal/store/model"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type BatchQueryFilter BaseQuerier

func NewBatchQueryFilter() *BatchQueryFilter {
	return &BatchQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *BatchQueryFilter) ByType(t model.BatchType) *BatchQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("type = ?", t)
	})
	return f
}

func (f *BatchQueryFilter) ByStatus(status model.BatchStatus) *BatchQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

func (f *BatchQueryFilter) ByUploader(user string) *BatchQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("uploaded_by = ?", user)
	})
	return f
}

type BatchQueryOptions BaseQuerier

func NewBatchQueryOptions() *BatchQueryOptions {
	return &BatchQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

// Limit results
func (o *BatchQueryOptions) WithLimit(limit int) *BatchQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

// Newest first
func (o *BatchQueryOptions) WithNewestFirst() *BatchQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at DESC")
	})
	return o
}
