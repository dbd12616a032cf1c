package common

import (
	"encoding/csv"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderReader_ResolvesColumnsByName(t *testing.T) {
	input := "b,a\n2,1\n4,3\n"
	h, err := NewHeaderReader(strings.NewReader(input))
	require.NoError(t, err)

	var got []string
	for {
		rec, err := h.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec.Get("a")+rec.Get("b"))
	}
	assert.Equal(t, []string{"12", "34"}, got)
}

func TestHeaderReader_StripsBOM(t *testing.T) {
	h, err := NewHeaderReader(strings.NewReader("\ufeffstop_id,stop_name\nS1,Central\n"))
	require.NoError(t, err)
	assert.True(t, h.Has("stop_id"))

	rec, err := h.Next()
	require.NoError(t, err)
	assert.Equal(t, "S1", rec.Get("stop_id"))
	assert.Equal(t, 2, rec.Line)
}

func TestHeaderReader_EmptyInput(t *testing.T) {
	h, err := NewHeaderReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, h.Header())
	assert.Equal(t, []string{"x"}, h.Missing("x"))

	_, err = h.Next()
	assert.Equal(t, io.EOF, err)
}

func TestRecord_ShortRow(t *testing.T) {
	h, err := NewHeaderReader(strings.NewReader("a,b,c\n1\n"))
	require.NoError(t, err)

	rec, err := h.Next()
	require.NoError(t, err)

	v, ok := rec.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, map[string]string{"a": "1"}, rec.Map())
	assert.Equal(t, "", rec.Get("missing"))
}

func TestHeaderReader_StrayQuoteIsAnError(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "unterminated quoted field", input: "a,b\n1,\"2\n3,4\n5,6\n", wantErr: csv.ErrQuote},
		{name: "bare quote in field", input: "a,b\n1,2\"x\n3,4\n", wantErr: csv.ErrBareQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHeaderReader(strings.NewReader(tt.input))
			require.NoError(t, err)

			_, err = h.Next()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
