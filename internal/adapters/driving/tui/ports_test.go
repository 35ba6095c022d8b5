package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/services"
	"github.com/custodia-labs/findable/internal/page"
)

const testPage = `<html><head><title>Pets</title></head>` +
	`<body><p>The cat sat on the mat.</p><p>Another cat slept.</p></body></html>`

func newTestPorts(t *testing.T) *Ports {
	t.Helper()
	p, err := page.ParseString(testPage)
	require.NoError(t, err)
	return &Ports{
		Find:     services.NewFindService(services.NewFrameService(p.Units()...), domain.DefaultAppSettings().Find),
		Page:     p,
		Analyzer: services.NewAnalyzerService(p),
	}
}

func TestPorts_Validate(t *testing.T) {
	ports := newTestPorts(t)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingFind(t *testing.T) {
	ports := newTestPorts(t)
	ports.Find = nil
	assert.ErrorIs(t, ports.Validate(), ErrMissingFindService)
}

func TestPorts_Validate_MissingPage(t *testing.T) {
	ports := newTestPorts(t)
	ports.Page = nil
	assert.ErrorIs(t, ports.Validate(), ErrMissingPage)
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports
	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}

func TestPorts_AnalyzerIsOptional(t *testing.T) {
	ports := newTestPorts(t)
	ports.Analyzer = nil
	assert.NoError(t, ports.Validate())
}
