package observability

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExporterOptions verifies endpoint, TLS and header settings per signal.
func TestExporterOptions(t *testing.T) {
	t.Parallel()

	endpoint := func(s string) string { return "endpoint=" + s }
	insecure := func() string { return "insecure" }
	headers := func(h map[string]string) string { return "headers=" + strconv.Itoa(len(h)) }

	cfg := Config{OTLPEndpoint: "localhost:4317"}
	assert.Equal(t, []string{"endpoint=localhost:4317"}, exporterOptions(cfg, endpoint, insecure, headers))

	cfg.OTLPInsecure = true
	cfg.OTLPHeaders = map[string]string{"x-token": "abc", "x-org": "1"}
	assert.Equal(t, []string{"endpoint=localhost:4317", "insecure", "headers=2"},
		exporterOptions(cfg, endpoint, insecure, headers))
}
