package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgVectorRoundTrip(t *testing.T) {
	v := NewPgVector([]float64{1, -0.5, 0.25})

	val, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,-0.5,0.25]", val)

	var scanned PgVector
	require.NoError(t, scanned.Scan(val))
	assert.Equal(t, []float64{1, -0.5, 0.25}, scanned.Floats())
}

func TestPgVectorScan(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []float64
		wantErr bool
	}{
		{name: "nil", input: nil, want: nil},
		{name: "empty brackets", input: "[]", want: []float64{}},
		{name: "bytes", input: []byte("[0.1,0.2]"), want: []float64{0.1, 0.2}},
		{name: "spaces", input: "[ 1 , 2 ]", want: []float64{1, 2}},
		{name: "bad element", input: "[1,x]", wantErr: true},
		{name: "wrong type", input: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v PgVector
			err := v.Scan(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Floats())
		})
	}
}

func TestPgVectorCopiesInput(t *testing.T) {
	src := []float64{1, 2}
	v := NewPgVector(src)
	src[0] = 99

	assert.Equal(t, []float64{1, 2}, v.Floats())
	assert.Equal(t, 2, v.Dimension())
}

func TestParseDialector(t *testing.T) {
	_, err := parseDialector("mysql://localhost/db")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	d, err := parseDialector("sqlite:///tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = parseDialector("postgres://u:p@h/db")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}
