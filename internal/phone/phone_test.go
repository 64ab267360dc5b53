package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{name: "local with default region", raw: "0803 123 4567", want: "+2348031234567"},
		{name: "international", raw: "+44 20 7031 3000", want: "+442070313000"},
		{name: "explicit region", raw: "(202) 456-1111", region: "us", want: "+12024561111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	_, err := Normalize("not a number", "")
	assert.Error(t, err)

	_, err = Normalize("", "")
	assert.Error(t, err)

	_, err = Normalize("+234 1", "")
	assert.Error(t, err)
}
