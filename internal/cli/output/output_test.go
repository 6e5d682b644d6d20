package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleLen(t *testing.T) {
	assert.Equal(t, 5, visibleLen("hello"))
	assert.Equal(t, 5, visibleLen("\x1b[32mhello\x1b[0m"))
	assert.Equal(t, 6, visibleLen("città!"))
	assert.Equal(t, 0, visibleLen(""))
}

func TestTable_Render(t *testing.T) {
	table := NewTable([]string{"ID", "Name"})
	table.AddRow([]string{"1", "Vasco Live"})
	table.AddRow([]string{"12", "Jazz"})

	var buf bytes.Buffer
	table.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "Name")
	assert.Equal(t, "--  ----------  ", lines[1])
	assert.Equal(t, "1   Vasco Live  ", lines[2])
	assert.Equal(t, "12  Jazz        ", lines[3])
}

func TestLicenseStatus(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	assert.Equal(t, "licensed", LicenseStatus(true))
	assert.Equal(t, "unlicensed", LicenseStatus(false))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, map[string]int{"count": 2}))
	assert.JSONEq(t, `{"count":2}`, buf.String())
}
