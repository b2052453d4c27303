package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldBackend   = "backend"
	FieldSheet     = "sheet"
	FieldSheetIdx  = "sheet_index"
	FieldAmount    = "amount"
	FieldEntryType = "entry_type"
	FieldItem      = "item"
	FieldOrderID   = "order_id"
	FieldTotal     = "total"
	FieldTendered  = "tendered"
	FieldChange    = "change"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentCart     = "cart"
	ComponentCheckout = "checkout"
	ComponentStorage  = "storage"
	ComponentBackend  = "backend"
	ComponentAMQP     = "amqp"
	ComponentKafka    = "kafka"
	ComponentCLI      = "cli"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRename   = "rename"
	OpDelete   = "delete"
	OpSelect   = "select"
	OpAppend   = "append"
	OpClear    = "clear"
	OpCheckout = "checkout"
	OpSave     = "save"
	OpLoad     = "load"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation  = "validation_error"
	ErrorTypeNotFound    = "not_found_error"
	ErrorTypeEmptyCart   = "empty_cart_error"
	ErrorTypeFunds       = "insufficient_funds_error"
	ErrorTypePersistence = "persistence_error"
	ErrorTypeConfig      = "configuration_error"
	ErrorTypeNetwork     = "network_error"
	ErrorTypeInternal    = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSheet adds the sheet index and name
func (f LogFields) WithSheet(index int, name string) LogFields {
	f[FieldSheetIdx] = index
	f[FieldSheet] = name
	return f
}

// WithEntry adds entry fields; amount is the decimal's string form
func (f LogFields) WithEntry(amount, entryType string) LogFields {
	f[FieldAmount] = amount
	f[FieldEntryType] = entryType
	return f
}

// WithOrder adds order fields
func (f LogFields) WithOrder(id int64, total, tendered, change string) LogFields {
	f[FieldOrderID] = id
	f[FieldTotal] = total
	f[FieldTendered] = tendered
	f[FieldChange] = change
	return f
}

// With adds an arbitrary field
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
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
