// Package models holds the GORM table mappings. Domain aggregates stay
// free of ORM tags; each model carries the annotations and a pair of
// converters to and from its domain type.
//
// base.go defines the shared column set (id, version, audit and
// soft-delete fields), sales.go maps the sale and its line items,
// finance.go maps ledger entries and payments.
package models
