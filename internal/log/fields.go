package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldSessionID    = "session_id"
	FieldUserID       = "user_id"
	FieldUsername     = "username"
	FieldCategoryID   = "category_id"
	FieldCategoryName = "category_name"
	FieldCategoryType = "category_type"
	FieldAmount       = "amount"
	FieldDate         = "date"
	FieldDriver       = "driver"
	FieldRowsAffected = "rows_affected"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldPath         = "path"
	FieldScheme       = "password_scheme"
	FieldActionID     = "action_id"
	FieldDurationMs   = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentStorage     = "storage"
	ComponentAuth        = "auth"
	ComponentCategory    = "category"
	ComponentTransaction = "transaction"
	ComponentSummary     = "summary"
	ComponentMenu        = "menu"
	ComponentCache       = "cache"
	ComponentChart       = "chart"
)

// Operations defines standard operation names
const (
	OpCreate           = "create"
	OpRead             = "read"
	OpUpdate           = "update"
	OpDelete           = "delete"
	OpList             = "list"
	OpRegister         = "register"
	OpLogin            = "login"
	OpLogout           = "logout"
	OpChangePassword   = "change_password"
	OpAddCategory      = "add_category"
	OpUpdateCategory   = "update_category"
	OpDeleteCategory   = "delete_category"
	OpLogTransaction   = "log_transaction"
	OpListTransactions = "list_transactions"
	OpSummarize        = "summarize"
	OpRender           = "render"
	OpMigrate          = "migrate"
	OpStartup          = "startup"
	OpShutdown         = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithUser adds the acting user
func (f LogFields) WithUser(userID int64) LogFields {
	f[FieldUserID] = userID
	return f
}

// WithCategory adds category-related fields
func (f LogFields) WithCategory(id int64, name, categoryType string) LogFields {
	f[FieldCategoryID] = id
	if name != "" {
		f[FieldCategoryName] = name
	}
	if categoryType != "" {
		f[FieldCategoryType] = categoryType
	}
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
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
