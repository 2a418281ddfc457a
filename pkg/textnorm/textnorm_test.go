package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kajamart/admin-api/pkg/textnorm"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Café":          "cafe",
		"INACTIVO":      "inactivo",
		"  Jabón Rey  ": "jabon rey",
		"Pañales":       "panales",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, textnorm.Normalize(in), "entrada %q", in)
	}
}

func TestContains_IgnoraTildesYMayusculas(t *testing.T) {
	assert.True(t, textnorm.Contains("Arroz Diana Élite", "elite"))
	assert.True(t, textnorm.Contains("arroz", ""))
	assert.False(t, textnorm.Contains("Arroz", "frijol"))
}
