// Package persist serializes ledger state into a storage.Store.
//
// Every failure is swallowed: a value that cannot be encoded or written is
// simply not persisted, and a value that cannot be read or decoded loads as
// absent. Failures are logged at warn level so data loss is at least visible
// in the logs.
package persist

import (
	"context"
	"encoding/json"

	"budgetbuddy/internal/log"
	"budgetbuddy/internal/storage"
)

// UsersKey holds the registry of all users, shared across emails.
const UsersKey = "users"

func ExpensesKey(email string) string { return email + "_expenses" }
func IncomeKey(email string) string   { return email + "_income" }
func CurrencyKey(email string) string { return email + "_currency" }

// Adapter is the JSON codec in front of a Store.
type Adapter struct {
	store  storage.Store
	logger *log.Logger
}

func NewAdapter(store storage.Store, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Adapter{
		store:  store,
		logger: logger.WithComponent(log.ComponentPersist),
	}
}

// Save encodes value as JSON and writes it under key. It does not report
// failure to the caller.
func (a *Adapter) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		a.warn(ctx, "Encode failed, value not persisted", log.OpSave, key, err)
		return
	}
	if err := a.store.Set(ctx, key, data); err != nil {
		a.warn(ctx, "Write failed, value not persisted", log.OpSave, key, err)
		return
	}
	a.logger.DebugContext(ctx, "Value persisted", log.FieldKey, key, log.FieldBytes, len(data))
}

// Load reads and decodes the value under key. ok is false when the key is
// missing or the stored blob cannot be read or decoded.
func Load[T any](ctx context.Context, a *Adapter, key string) (value T, ok bool) {
	data, found, err := a.store.Get(ctx, key)
	if err != nil {
		a.warn(ctx, "Read failed, treating as absent", log.OpLoad, key, err)
		return value, false
	}
	if !found {
		return value, false
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		a.warn(ctx, "Decode failed, treating as absent", log.OpLoad, key, err)
		return value, false
	}
	return decoded, true
}

func (a *Adapter) warn(ctx context.Context, msg, op, key string, err error) {
	fields := log.NewFields().WithOperation(op).WithKey(key).WithError(err)
	a.logger.WarnContext(ctx, msg, fields.ToSlice()...)
}
