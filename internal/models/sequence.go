package models

import (
	"fmt"
	"time"
)

// EntityKind names an entity that carries a business id.
type EntityKind string

const (
	KindClient   EntityKind = "client"
	KindProject  EntityKind = "project"
	KindEmployee EntityKind = "employee"
)

// Kinds lists every kind with an id sequence row.
var Kinds = []EntityKind{KindClient, KindProject, KindEmployee}

// Prefix returns the business id prefix of the kind.
func (k EntityKind) Prefix() string {
	if k == KindEmployee {
		return "JTC"
	}
	return string(k)
}

// Format renders n as a business id of the kind, e.g. client-007.
func (k EntityKind) Format(n uint64) string {
	return fmt.Sprintf("%s-%03d", k.Prefix(), n)
}

// IDSequence is the lock target and high-water mark for business id issue.
type IDSequence struct {
	Kind       EntityKind `gorm:"primaryKey;size:16"`
	LastIssued uint64     `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName overrides the table name for IDSequence
func (IDSequence) TableName() string {
	return "id_sequences"
}

// All returns every model managed by migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
		&ContactPerson{},
		&Project{},
		&Employee{},
		&EmployeeProject{},
		&IDSequence{},
	}
}
