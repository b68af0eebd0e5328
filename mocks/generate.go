package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-insight/internal/datasource DataSource
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-insight/internal/marketdata/provider Provider
//go:generate mockgen -destination=./mock_bar_writer.go -package=mocks github.com/rxtech-lab/argo-insight/internal/marketdata/writer BarWriter
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-insight/internal/indicator Indicator
