package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HazWaste-Intelligence/internal/application/hazclass"
)

const sampleSDS = `SAFETY DATA SHEET

SECTION 1: Identification
Product Name: Universal Thinner 40
Supplier: Example Chemical Co.

SECTION 3: Composition/Information on Ingredients
Acetone                          67-64-1        40-60%
Toluene                          108-88-3       20-30%
Methyl ethyl ketone              78-93-3        10%

SECTION 9: Physical and Chemical Properties
Physical State: Liquid
pH: 7.2
Flash Point: -18 °C (closed cup)
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sds.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleSDS), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand_JSON(t *testing.T) {
	out, err := execute(t, "", "classify", writeSample(t), "-o", "json")
	require.NoError(t, err)

	var doc hazclass.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "Universal Thinner 40", doc.ProductName)
	assert.Equal(t, "liquid", doc.PhysicalState)
	assert.Contains(t, doc.WasteCodes, "U002", "acetone is toxic-listed")
	assert.Contains(t, doc.WasteCodes, "D001", "flash point below the ignitability cutoff")
	assert.False(t, doc.Emergency)
}

func TestClassifyCommand_Summary(t *testing.T) {
	out, err := execute(t, "", "classify", writeSample(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Product:        Universal Thinner 40")
	assert.Contains(t, out, "Waste codes:")
	assert.Contains(t, out, "U002")
	assert.Contains(t, out, "Reasoning:")
}

func TestClassifyCommand_Stdin(t *testing.T) {
	out, err := execute(t, sampleSDS, "classify", "-", "-o", "json")
	require.NoError(t, err)

	var doc hazclass.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Universal Thinner 40", doc.ProductName)
}

func TestClassifyCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "", "classify", "/nonexistent/sds.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read document")
}

func TestClassifyCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "", "classify", writeSample(t), "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRootCommand_Version(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
