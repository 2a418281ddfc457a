// Package textnorm normaliza texto para búsquedas insensibles a tildes y mayúsculas.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize descompone s en NFD, elimina las marcas diacríticas combinantes y pasa a minúsculas.
// Ej: "Inactívo" → "inactivo", "Café" → "cafe".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain no es seguro para uso concurrente: se construye uno por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Contains informa si needle (normalizado) es subcadena de haystack (normalizado).
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
