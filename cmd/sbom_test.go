package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/vendoring/internal/model"
)

func TestSBOMCmd(t *testing.T) {
	mockWorkflow, _ := useMockWorkflow(t)

	cmd, out, _ := newTestRoot(newSBOMCmd())

	mockWorkflow.On("SBOM", anyReporter, absPath(t, "project")).
		Return(m.Path("/project/vendor.cdx.json"), nil).Once()

	cmd.SetArgs([]string{"sbom", "project"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Wrote /project/vendor.cdx.json")
}

func TestSBOMCmd_NotConfigured(t *testing.T) {
	mockWorkflow, _ := useMockWorkflow(t)

	cmd, _, errOut := newTestRoot(newSBOMCmd())

	mockWorkflow.On("SBOM", anyReporter, absPath(t, ".")).
		Return(m.Path(""), errors.New("no 'sbom-file' configured")).Once()

	cmd.SetArgs([]string{"sbom"})
	require.Error(t, cmd.Execute())

	assert.Contains(t, errOut.String(), "no 'sbom-file' configured")
}
