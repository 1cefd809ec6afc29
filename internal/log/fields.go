package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldDate       = "date"
	FieldDeviceID   = "device_id"
	FieldDeviceName = "device_name"
	FieldRole       = "role"
	FieldKWh        = "kwh"
	FieldCost       = "cost"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentPipeline = "pipeline"
	ComponentPowerfox = "powerfox"
	ComponentMeteo    = "meteo"
	ComponentExport   = "export"
)

// Operations defines standard operation names
const (
	OpClassify = "classify"
	OpFetch    = "fetch"
	OpUpsert   = "upsert"
	OpRead     = "read"
	OpUpdate   = "update"
	OpPublish  = "publish"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
