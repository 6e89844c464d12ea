package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/vendoring/internal/model"
)

const expectedSBOM = `{
  "$schema": "http://cyclonedx.org/schema/bom-1.4.schema.json",
  "bomFormat": "CycloneDX",
  "components": [
    {
      "bom-ref": "pkg:pypi/idna@3.4",
      "name": "idna",
      "purl": "pkg:pypi/idna@3.4",
      "type": "library",
      "version": "3.4"
    },
    {
      "bom-ref": "pkg:pypi/six@1.16.0",
      "name": "six",
      "purl": "pkg:pypi/six@1.16.0",
      "type": "library",
      "version": "1.16.0"
    }
  ],
  "dependencies": [
    {
      "dependsOn": [
        "pkg:pypi/idna@3.4",
        "pkg:pypi/six@1.16.0"
      ],
      "ref": "bom-ref:pkg"
    },
    {
      "ref": "pkg:pypi/idna@3.4"
    },
    {
      "ref": "pkg:pypi/six@1.16.0"
    }
  ],
  "metadata": {
    "component": {
      "bom-ref": "bom-ref:pkg",
      "name": "pkg",
      "type": "library"
    },
    "tools": [
      {
        "name": "vendoring",
        "version": "1.2.3"
      }
    ]
  },
  "specVersion": "1.4",
  "version": 1
}
`

func TestSBOM(t *testing.T) {
	f := newFixture(t, projectPyproject+`sbom-file = "src/pkg/_vendor/vendor.cdx.json"`+"\n")
	writeFile(t, f.vendor("vendor.txt"), "six==1.16.0\nidna==3.4\n")

	reporter := newRecordingReporter()

	path, err := f.wf.SBOM(reporter, f.root)
	require.NoError(t, err)

	assert.Equal(t, m.Path(f.vendor("vendor.cdx.json")), path)
	assert.Equal(t, expectedSBOM, readFile(t, string(path)))
	assert.Equal(t, []string{"Load configuration", "Generate SBOM"}, reporter.tasks)
}

func TestSBOM_NotConfigured(t *testing.T) {
	f := newFixture(t, projectPyproject)

	_, err := f.wf.SBOM(newRecordingReporter(), f.root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no 'sbom-file' configured")
}

func TestRenderSBOM_Empty(t *testing.T) {
	out, err := renderSBOM("pkg._vendor", "dev", nil)
	require.NoError(t, err)

	assert.Contains(t, string(out), `"components": [],`)
	assert.Contains(t, string(out), `"dependsOn": [],`)
}

func TestPackageURL(t *testing.T) {
	assert.Equal(t, "pkg:pypi/requests@2.31.0", packageURL("requests", "2.31.0"))
	assert.Equal(t, "pkg:pypi/foo%2Bbar@1.0%2Blocal", packageURL("foo+bar", "1.0+local"))
	assert.Equal(t, "pkg:pypi/a~b_c@1", packageURL("a~b_c", "1"))
}
