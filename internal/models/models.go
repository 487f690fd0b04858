package models

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// StartingNumber is the root of a calculation tree. Rows are written once
// and never updated or deleted.
type StartingNumber struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Number    float64   `gorm:"not null" json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// Operation is a value derived from its parent. Exactly one of ParentID
// (a starting number) and ParentOperationID is set. Result was computed
// from the parent's value at creation time and is never recomputed; that
// is sound because parents are immutable.
type Operation struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	UserID            int64     `gorm:"not null;index" json:"user_id"`
	ParentID          *int64    `gorm:"index" json:"parent_id"`
	ParentOperationID *int64    `gorm:"index" json:"parent_operation_id"`
	OperationType     string    `gorm:"not null" json:"operation_type"`
	RightOperand      float64   `gorm:"not null" json:"right_operand"`
	Result            float64   `gorm:"not null" json:"result"`
	CreatedAt         time.Time `json:"created_at"`
}
