package tracing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(DefaultConfig())
	require.NoError(t, err)
	require.False(t, p.Enabled())
	require.NotNil(t, p.Tracer())

	_, span := p.Tracer().Start(context.Background(), "x")
	require.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "none", cfg: Config{Enabled: true, Exporter: ExporterNone}},
		{name: "empty exporter", cfg: Config{Enabled: true}},
		{name: "stdout", cfg: Config{Enabled: true, Exporter: ExporterStdout}},
		{name: "file", cfg: Config{Enabled: true, Exporter: ExporterFile, FilePath: filepath.Join(t.TempDir(), "t.jsonl")}},
		{name: "file without path", cfg: Config{Enabled: true, Exporter: ExporterFile}, wantErr: "file_path required"},
		{name: "unknown", cfg: Config{Enabled: true, Exporter: "zipkin"}, wantErr: "unsupported exporter type: zipkin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, p.Enabled())

			_, span := p.Tracer().Start(context.Background(), "x")
			require.True(t, span.SpanContext().IsValid())
			span.End()
			require.NoError(t, p.Shutdown(context.Background()))
		})
	}
}
