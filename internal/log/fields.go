package log

import "arha/internal/core"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldTransactionID = "id"
	FieldPlate         = "plate"
	FieldServiceType   = "service_type"
	FieldProfit        = "profit"
	FieldRecords       = "records"
	FieldSetupRequired = "setup_required"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentGateway  = "gateway"
	ComponentStorage  = "storage"
	ComponentRemote   = "remote"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentInsight  = "insight"
	ComponentSecurity = "security"
	ComponentTrace    = "trace"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpRefresh  = "refresh"
	OpRestore  = "restore"
	OpExport   = "export"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	if requestID != "" {
		f[FieldRequestID] = requestID
	}
	return f
}

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

// WithTransaction adds the fields that identify a record in the logs.
// Amounts other than profit are left out.
func (f LogFields) WithTransaction(t core.Transaction) LogFields {
	f[FieldTransactionID] = t.ID
	f[FieldPlate] = t.Plate
	f[FieldServiceType] = string(t.ServiceType)
	f[FieldProfit] = t.Profit.String()
	return f
}

func (f LogFields) WithFilter(spec core.FilterSpec) LogFields {
	f[FieldMonth] = int(spec.Month)
	f[FieldYear] = spec.Year
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
