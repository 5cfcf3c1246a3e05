package helpers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestData is a test struct with header tags.
type TestData struct {
	Name  string `header:"Name" json:"name" yaml:"name"`
	Value int    `header:"Value" json:"value" yaml:"value"`
	Extra string `json:"-" yaml:"-"` // No header tag, should be ignored
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  OutputFormat
		wantErr bool
	}{
		{name: "table formatter", format: FormatTable},
		{name: "json formatter", format: FormatJSON},
		{name: "csv formatter", format: FormatCSV},
		{name: "yaml formatter", format: FormatYAML},
		{name: "text has no generic formatter", format: FormatText, wantErr: true},
		{name: "unsupported format", format: OutputFormat("unsupported"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFormatter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	err := (&JSONFormatter{}).Format([]TestData{
		{Name: "test1", Value: 1, Extra: "ignored"},
		{Name: "test2", Value: 2},
	}, buf)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "test1", got[0]["name"])
	assert.NotContains(t, got[0], "Extra")
}

func TestYAMLFormatter_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, (&YAMLFormatter{}).Format(TestData{Name: "single", Value: 42}, buf))
	assert.Equal(t, "name: single\nvalue: 42\n", buf.String())
}

func TestTableFormatter_Format(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		wantErr bool
		want    []string
	}{
		{
			name: "slice of structs",
			data: []TestData{
				{Name: "test1", Value: 1, Extra: "ignored"},
				{Name: "test2", Value: 2, Extra: "ignored"},
			},
			want: []string{"Name", "Value", "test1", "1", "test2", "2"},
		},
		{
			name: "slice of pointers",
			data: []*TestData{{Name: "ptr", Value: 3}},
			want: []string{"Name", "ptr", "3"},
		},
		{
			name: "empty slice prints headers",
			data: []TestData{},
			want: []string{"Name", "Value"},
		},
		{
			name:    "non-slice data",
			data:    TestData{Name: "single", Value: 42},
			wantErr: true,
		},
		{
			name:    "slice of scalars",
			data:    []int{1, 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			err := (&TableFormatter{}).Format(tt.data, buf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
			assert.NotContains(t, buf.String(), "ignored")
		})
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	err := (&CSVFormatter{}).Format([]TestData{
		{Name: "test1", Value: 1, Extra: "ignored"},
		{Name: "with,comma", Value: 2},
	}, buf)
	require.NoError(t, err)
	assert.Equal(t, "Name,Value\ntest1,1\n\"with,comma\",2\n", buf.String())

	buf.Reset()
	require.NoError(t, (&CSVFormatter{}).Format([]TestData{}, buf))
	assert.Equal(t, "Name,Value\n", buf.String())

	assert.Error(t, (&CSVFormatter{}).Format("nope", buf))
}

func TestValidateFormat(t *testing.T) {
	supported := []OutputFormat{FormatText, FormatJSON}

	assert.NoError(t, ValidateFormat("json", supported))

	err := ValidateFormat("table", supported)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text, json")
}

func TestAddFormatFlag(t *testing.T) {
	var format string
	cmd := &cobra.Command{Use: "x"}
	AddFormatFlag(cmd, &format, FormatText, []OutputFormat{FormatText, FormatJSON})

	require.NoError(t, cmd.Flags().Parse([]string{"-o", "json"}))
	assert.Equal(t, "json", format)
	assert.Contains(t, cmd.Flags().Lookup("output").Usage, "text, json")
}
