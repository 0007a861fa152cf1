// Package observability wires the process-wide slog default. Plain stderr
// logging is the default; logs can instead flow through the OpenTelemetry
// log pipeline to stdout or an OTLP collector.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// instrumentationName identifies this module in emitted log records.
const instrumentationName = "github.com/qilbeedb/qilbee-go"

// Instrument installs the default slog logger according to the exporter and
// format. The returned shutdown function flushes buffered records and must be
// called before exit; it is a no-op for the plain stderr path.
func Instrument(ctx context.Context, level slog.Level, format, exporter string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	// Plain handler path: no pipeline to manage
	if exporter == "stderr" || exporter == "" {
		opts := &slog.HandlerOptions{Level: level}
		var handler slog.Handler
		if format == "json" {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			handler = slog.NewTextHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
		return noop, nil
	}

	var (
		exp sdklog.Exporter
		err error
	)
	switch exporter {
	case "stdout":
		var stdoutOpts []stdoutlog.Option
		if format == "text" {
			stdoutOpts = append(stdoutOpts, stdoutlog.WithPrettyPrint())
		}
		exp, err = stdoutlog.New(stdoutOpts...)
	case "otlp-http":
		// Endpoint et al. come from the standard OTEL_EXPORTER_OTLP_* env vars
		exp, err = otlploghttp.New(ctx)
	case "otlp-grpc":
		exp, err = otlploggrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported log exporter: %s", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exp), severity(level))
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))

	global.SetLoggerProvider(provider)
	slog.SetDefault(otelslog.NewLogger(instrumentationName, otelslog.WithLoggerProvider(provider)))

	return provider.Shutdown, nil
}

// severity maps slog levels onto the minimum-severity filter.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
