package models

import "github.com/shopspring/decimal"

// AccountKind groups account ledgers by counterparty.
type AccountKind string

const (
	AccountBank     AccountKind = "bank"
	AccountSupplier AccountKind = "supplier"
	AccountCustomer AccountKind = "customer"
	AccountManager  AccountKind = "manager"
)

// AccountEntry is a single debit or credit line of an account ledger.
type AccountEntry struct {
	ID          string          `bson:"_id" json:"id"`
	Account     string          `bson:"account" json:"account" validate:"required"`
	Kind        AccountKind     `bson:"kind" json:"kind" validate:"required,oneof=bank supplier customer manager"`
	Date        string          `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `bson:"description" json:"description"`
	Debit       decimal.Decimal `bson:"debit" json:"debit" validate:"gte=0"`
	Credit      decimal.Decimal `bson:"credit" json:"credit" validate:"gte=0"`
	Reference   string          `bson:"reference,omitempty" json:"reference,omitempty"`
}

// LedgerLine is an account entry with the balance after it was applied.
type LedgerLine struct {
	AccountEntry
	Balance decimal.Decimal `json:"balance"`
}
