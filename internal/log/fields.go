package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldEmail     = "email"
	FieldKey       = "key"
	FieldBytes     = "bytes"
	FieldRecordID  = "record_id"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldCurrency  = "currency"
	FieldCount     = "count"
	FieldBackend   = "backend"
	FieldEvent     = "event"
	FieldCommand   = "command"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentAccount = "account"
	ComponentLedger  = "ledger"
	ComponentPersist = "persist"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentAMQP    = "amqp"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
	ComponentShell   = "shell"
	ComponentAudit   = "audit"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpSignup   = "signup"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpAppend   = "append"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field, skipping nil errors
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithKey adds the store key an operation touched
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	return f
}

// WithRecord adds ledger record fields. Category is skipped when empty (income).
func (f LogFields) WithRecord(email, id, amount, category string) LogFields {
	f[FieldEmail] = email
	f[FieldRecordID] = id
	f[FieldAmount] = amount
	if category != "" {
		f[FieldCategory] = category
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
