// Package backend traduce las respuestas JSON del backend heredado (formas variables según
// el endpoint y la versión) a los registros canónicos del dominio. La traducción ocurre una
// sola vez, en el borde de lectura.
package backend

import (
	"errors"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
)

// ErrInvalidJSON el cuerpo no es JSON válido.
var ErrInvalidJSON = errors.New("backend: JSON inválido")

// Rutas alternativas por campo, en orden de prioridad.
var (
	detailNamePaths    = []string{"detalle_productos.productos.nombre", "productos.nombre", "producto.nombre", "nombre", "product_name"}
	detailIDPaths      = []string{"id_detalle_producto", "id_detalle", "id"}
	detailProductPaths = []string{"id_producto", "productos.id_producto", "product_id"}
	barcodePaths       = []string{"codigo_barras", "barcode", "codigoBarras"}
	stockPaths         = []string{"stock", "cantidad", "stock_actual"}
	expiresPaths       = []string{"fecha_vencimiento", "fecha_vencimiento_producto", "expires_at"}
	statusPaths        = []string{"estado", "status"}
)

// ProductDetailFromJSON lee un lote de producto desde cualquiera de las formas conocidas.
func ProductDetailFromJSON(raw []byte) (entity.ProductDetail, error) {
	if !gjson.ValidBytes(raw) {
		return entity.ProductDetail{}, ErrInvalidJSON
	}
	return productDetailFrom(gjson.ParseBytes(raw)), nil
}

// ProductDetailsFromJSON lee un arreglo de lotes; acepta el arreglo directo o envuelto en data.
func ProductDetailsFromJSON(raw []byte) ([]entity.ProductDetail, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	list := unwrap(gjson.ParseBytes(raw))
	out := make([]entity.ProductDetail, 0, len(list.Array()))
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, productDetailFrom(v))
		return true
	})
	return out, nil
}

func productDetailFrom(v gjson.Result) entity.ProductDetail {
	d := entity.ProductDetail{
		ID:          firstString(v, detailIDPaths),
		ProductID:   firstString(v, detailProductPaths),
		ProductName: firstString(v, detailNamePaths),
		Barcode:     firstString(v, barcodePaths),
		Stock:       int(first(v, stockPaths).Int()),
		Status:      canonicalStatus(first(v, statusPaths)),
	}
	if s := firstString(v, expiresPaths); s != "" {
		if t, ok := parseDate(s); ok {
			d.ExpiresAt = &t
		}
	}
	return d
}

// PermissionsFromJSON lee un arreglo de permisos: cadenas heredadas ("productos:ver") u objetos
// ({id_permiso, modulo, accion} o {id, module, action}). Acepta también {permisos: [...]}.
func PermissionsFromJSON(raw []byte) ([]rbac.PermissionRef, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(raw)
	list := root
	if root.IsObject() {
		list = first(root, []string{"permisos", "permissions", "data"})
	}
	if !list.IsArray() {
		return nil, ErrInvalidJSON
	}
	var out []rbac.PermissionRef
	list.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			out = append(out, rbac.LegacyRef(v.String()))
			return true
		}
		if name := firstString(v, []string{"nombre", "name"}); name != "" && !v.Get("modulo").Exists() && !v.Get("module").Exists() {
			out = append(out, rbac.LegacyRef(name))
			return true
		}
		out = append(out, rbac.StructuredRef(
			firstString(v, []string{"id_permiso", "id"}),
			firstString(v, []string{"modulo", "module"}),
			firstString(v, []string{"accion", "action"}),
		))
		return true
	})
	return out, nil
}

// ErrorMessage extrae el mensaje de error de un cuerpo {error} o {message}; si no hay, fallback.
func ErrorMessage(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	root := gjson.ParseBytes(body)
	for _, path := range []string{"error", "message", "error.message", "mensaje"} {
		if v := root.Get(path); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			return v.String()
		}
	}
	return fallback
}

func unwrap(v gjson.Result) gjson.Result {
	if v.IsObject() {
		if data := v.Get("data"); data.IsArray() {
			return data
		}
	}
	return v
}

func first(v gjson.Result, paths []string) gjson.Result {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() && r.Type != gjson.Null && r.String() != "" {
			return r
		}
	}
	return gjson.Result{}
}

func firstString(v gjson.Result, paths []string) string {
	return strings.TrimSpace(first(v, paths).String())
}

// canonicalStatus acepta booleanos, 1/0 o texto y devuelve Activo/Inactivo.
func canonicalStatus(v gjson.Result) string {
	switch v.Type {
	case gjson.True:
		return entity.StatusActive
	case gjson.False:
		return entity.StatusInactive
	case gjson.Number:
		if v.Int() == 0 {
			return entity.StatusInactive
		}
		return entity.StatusActive
	case gjson.String:
		if strings.EqualFold(strings.TrimSpace(v.String()), "inactivo") {
			return entity.StatusInactive
		}
		return entity.StatusActive
	}
	return entity.StatusActive
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
