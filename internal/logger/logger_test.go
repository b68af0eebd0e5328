package logger

import (
	"testing"

	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(zapcore.InfoLevel))
	suite.False(logger.Core().Enabled(zapcore.DebugLevel))
}

func (suite *LoggerTestSuite) TestNewLoggerWithLevel() {
	logger, err := NewLoggerWithLevel("debug")
	suite.Require().NoError(err)
	suite.True(logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLoggerWithLevel("warn")
	suite.Require().NoError(err)
	suite.False(logger.Core().Enabled(zapcore.InfoLevel))
}

func (suite *LoggerTestSuite) TestNewLoggerWithInvalidLevel() {
	logger, err := NewLoggerWithLevel("loud")
	suite.Nil(logger)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *LoggerTestSuite) TestFormats() {
	tests := []struct {
		format  Format
		wantErr bool
	}{
		{FormatJSON, false},
		{FormatConsole, false},
		{Format("xml"), true},
	}

	for _, tc := range tests {
		suite.Run(string(tc.format), func() {
			logger, err := New("info", tc.format)
			if tc.wantErr {
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

				return
			}

			suite.Require().NoError(err)
			suite.True(logger.Core().Enabled(zapcore.InfoLevel))
			suite.False(logger.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func (suite *LoggerTestSuite) TestSyncWithoutInnerLogger() {
	suite.NoError((&Logger{}).Sync())
}

func (suite *LoggerTestSuite) TestNopLogger() {
	logger := NewNopLogger()

	logger.Info("test info message")
	logger.Debug("test debug message")
	logger.Warn("test warn message")
	logger.Error("test error message")
	suite.NoError(logger.Sync())
}

func (suite *LoggerTestSuite) TestLoggerWithFields() {
	logger := NewNopLogger().With(zap.String("symbol", "2330"))
	suite.NotNil(logger.Logger)
	logger.Info("test message with fields")
}
