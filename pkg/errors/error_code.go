package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

// Category groups error codes by the range they live in.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryConfiguration Category = "configuration"
	CategoryData          Category = "data"
	CategoryIndicator     Category = "indicator"
	CategoryStrategy      Category = "strategy"
	CategoryOptions       Category = "options"
	CategoryBacktest      Category = "backtest"
)

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidType          ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104
	ErrCodeInvalidVersion       ErrorCode = 105
	ErrCodeInvalidMultiplier    ErrorCode = 106
	ErrCodeInvalidThreshold     ErrorCode = 107

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeInvalidMarketData     ErrorCode = 203
	ErrCodeUnsupportedDataFormat ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeUnknownIndicatorField  ErrorCode = 302
	ErrCodeUnknownIndicatorParam  ErrorCode = 303
	ErrCodeInvalidIndicatorParam  ErrorCode = 304
	ErrCodeIndicatorNotComparable ErrorCode = 305

	// Strategy errors (400-499)
	ErrCodeInvalidStrategy     ErrorCode = 400
	ErrCodeStrategyParseFailed ErrorCode = 401
	ErrCodeUnsupportedOperator ErrorCode = 402
	ErrCodeInvalidRule         ErrorCode = 403
	ErrCodeNoEntryRules        ErrorCode = 404
	ErrCodeVersionMismatch     ErrorCode = 405

	// Options errors (500-599)
	ErrCodeInvalidOptionSpec     ErrorCode = 500
	ErrCodeUnsupportedOptionKind ErrorCode = 501
	ErrCodeImpliedVolNotFound    ErrorCode = 502

	// Backtest errors (600-699)
	ErrCodeBacktestNotInitialized ErrorCode = 600
	ErrCodeBacktestConfigError    ErrorCode = 601
	ErrCodeBacktestCancelled      ErrorCode = 602
	ErrCodeCallbackFailed         ErrorCode = 603
)

// Category returns the category the code belongs to.
func (c ErrorCode) Category() Category {
	switch {
	case c >= 100 && c < 200:
		return CategoryConfiguration
	case c >= 200 && c < 300:
		return CategoryData
	case c >= 300 && c < 400:
		return CategoryIndicator
	case c >= 400 && c < 500:
		return CategoryStrategy
	case c >= 500 && c < 600:
		return CategoryOptions
	case c == ErrCodeBacktestConfigError:
		return CategoryConfiguration
	case c >= 600 && c < 700:
		return CategoryBacktest
	default:
		return CategoryGeneral
	}
}
