package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidPeriod, "period must be positive")
	suite.Equal(ErrCodeInvalidPeriod, err.Code)
	suite.Equal("period must be positive", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeDuplicateDate, "duplicate bar date %s", "2024-01-02")
	suite.Equal(ErrCodeDuplicateDate, err.Code)
	suite.Equal("duplicate bar date 2024-01-02", err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("io failure")
	err := Wrap(ErrCodeQueryFailed, "failed to read bars", cause)
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal(cause, err.Cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("timeout")
	err := Wrapf(ErrCodeMarketDataFetchFailed, cause, "failed to fetch %s", "2330")
	suite.Equal("failed to fetch 2330", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	suite.Equal("[102] bad bar", New(ErrCodeMalformedInput, "bad bar").Error())

	wrapped := Wrap(ErrCodeDataNotFound, "no bars", errors.New("empty file"))
	suite.Equal("[200] no bars: empty file", wrapped.Error())
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeNegativeValue, GetCode(New(ErrCodeNegativeValue, "negative close")))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))

	// outermost coded error wins
	inner := New(ErrCodeDataNotFound, "no bars")
	outer := Wrap(ErrCodeQueryFailed, "query", inner)
	suite.Equal(ErrCodeQueryFailed, GetCode(outer))
}

func (suite *ErrorTestSuite) TestGetCodeInsufficientData() {
	err := Insufficient("forecast", 20, 10, "2330")
	suite.Equal(ErrCodeInsufficientData, GetCode(err))
	suite.True(HasCode(fmt.Errorf("forecast: %w", err), ErrCodeInsufficientData))
	suite.Equal(ErrorCode(0), GetCode(nil))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeUnorderedDate, "dates out of order")
	suite.True(HasCode(err, ErrCodeUnorderedDate))
	suite.False(HasCode(err, ErrCodeDuplicateDate))
}

func (suite *ErrorTestSuite) TestIsMatchesCode() {
	err := fmt.Errorf("load: %w", Wrap(ErrCodeMissingColumn, "no volume column", errors.New("describe")))

	suite.True(errors.Is(err, New(ErrCodeMissingColumn, "")))
	suite.False(errors.Is(err, New(ErrCodeDataNotFound, "")))
	suite.False(errors.Is(err, errors.New("no volume column")))
}

func (suite *ErrorTestSuite) TestAs() {
	cause := errors.New("underlying")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.True(Is(err, cause))

	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeDataNotFound, coded.Code)
}

func (suite *ErrorTestSuite) TestCategory() {
	tests := []struct {
		code     ErrorCode
		expected Category
	}{
		{ErrCodeUnknown, CategoryGeneral},
		{ErrCodeMalformedInput, CategoryValidation},
		{ErrCodeNonFiniteValue, CategoryValidation},
		{ErrCodeMissingColumn, CategoryData},
		{ErrCodeIndicatorCalculation, CategoryIndicator},
		{ErrCodeForecastFailed, CategoryForecast},
		{ErrCodeInvalidProvider, CategoryMarketData},
	}

	for _, tc := range tests {
		suite.Equal(tc.expected, tc.code.Category(), "code %d", tc.code)
	}
}

func (suite *ErrorTestSuite) TestIsValidation() {
	suite.True(IsValidation(New(ErrCodeNegativeValue, "negative close")))
	suite.True(IsValidation(fmt.Errorf("request: %w", New(ErrCodeMissingParameter, "symbol"))))
	suite.False(IsValidation(Insufficient("forecast", 20, 3, "")))
	suite.False(IsValidation(New(ErrCodeQueryFailed, "duckdb")))
	suite.False(IsValidation(errors.New("plain")))
	suite.False(IsValidation(nil))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := Insufficient("forecast", 20, 5, "2330")
	suite.Equal(20, err.Required)
	suite.Equal(5, err.Actual)
	suite.Equal("2330", err.Symbol)
	suite.Equal("forecast", err.Component)
	suite.Equal("cannot compute forecast of 2330: need at least 20 bars, got 5", err.Error())
	suite.Equal("cannot compute forecast: need at least 20 bars, got 5", Insufficient("forecast", 20, 5, "").Error())
}

func (suite *ErrorTestSuite) TestIsInsufficientDataError() {
	suite.True(IsInsufficientDataError(Insufficient("forecast", 20, 5, "")))
	suite.True(IsInsufficientDataError(fmt.Errorf("wrapped: %w", Insufficient("signals", 20, 5, ""))))
	suite.False(IsInsufficientDataError(errors.New("standard error")))
	suite.False(IsInsufficientDataError(New(ErrCodeInvalidParameter, "invalid")))
	suite.False(IsInsufficientDataError(nil))
}
