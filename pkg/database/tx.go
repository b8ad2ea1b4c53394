package database

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

// Transactor runs a function inside one database transaction.
// Repositories that resolve their connection through Conn join it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// GormTransactor implements Transactor on top of gorm.DB.Transaction
type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction starts a transaction, or joins the one already carried by ctx
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// InTransaction reports whether ctx carries an open transaction
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// Conn returns the transaction carried by ctx or the base session
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// ForUpdate returns a session that adds SELECT ... FOR UPDATE when a transaction is open.
// Outside a transaction the lock would be released immediately, so it is skipped.
func ForUpdate(ctx context.Context, db *gorm.DB) *gorm.DB {
	conn := Conn(ctx, db)
	if InTransaction(ctx) {
		return conn.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return conn
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ContainsPattern builds a LIKE/ILIKE pattern matching s anywhere, with wildcards in s escaped
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
