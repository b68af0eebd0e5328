package errors

// ErrorCode identifies a failure; the hundreds digit is its Category.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = 1

	// Validation: the input or configuration is wrong.
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMalformedInput       ErrorCode = 102
	ErrCodeDuplicateDate        ErrorCode = 103
	ErrCodeUnorderedDate        ErrorCode = 104
	ErrCodeNegativeValue        ErrorCode = 105
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidStdDev        ErrorCode = 110
	ErrCodeNonFiniteValue       ErrorCode = 111

	// Data: bar files and DuckDB.
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeUnsupportedFormat     ErrorCode = 203
	ErrCodeMissingColumn         ErrorCode = 204

	ErrCodeIndicatorCalculation ErrorCode = 300

	ErrCodeForecastFailed ErrorCode = 400

	// Market data: remote providers.
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 704
)

// Category groups error codes by the layer that raised them.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryValidation Category = "validation"
	CategoryData       Category = "data"
	CategoryIndicator  Category = "indicator"
	CategoryForecast   Category = "forecast"
	CategoryMarketData Category = "market_data"
)

// Category returns the group of c.
func (c ErrorCode) Category() Category {
	switch c / 100 {
	case 1:
		return CategoryValidation
	case 2:
		return CategoryData
	case 3:
		return CategoryIndicator
	case 4:
		return CategoryForecast
	case 7:
		return CategoryMarketData
	default:
		return CategoryGeneral
	}
}
