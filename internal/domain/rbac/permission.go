// Package rbac define la matriz de permisos por rol (módulo x acción) y la forma canónica
// de los permisos recibidos del backend.
package rbac

import (
	"errors"
	"sort"
	"strings"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/pkg/textnorm"
)

// Acciones de la matriz. ActionView es la lectura; las demás son escritura.
const (
	ActionView   = "ver"
	ActionCreate = "crear"
	ActionEdit   = "editar"
	ActionDelete = "eliminar"
)

// Actions en el orden de las columnas de la matriz.
var Actions = []string{ActionView, ActionCreate, ActionEdit, ActionDelete}

// Módulos de la matriz.
const (
	ModuleProducts   = "productos"
	ModuleCategories = "categorias"
	ModuleClients    = "clientes"
	ModuleSuppliers  = "proveedores"
	ModuleSales      = "ventas"
	ModulePurchases  = "compras"
	ModuleReturns    = "devoluciones"
	ModuleLows       = "bajas"
	ModuleUsers      = "usuarios"
	ModuleRoles      = "roles"
)

// Modules en el orden de las filas de la matriz.
var Modules = []string{
	ModuleProducts, ModuleCategories, ModuleClients, ModuleSuppliers, ModuleSales,
	ModulePurchases, ModuleReturns, ModuleLows, ModuleUsers, ModuleRoles,
}

var (
	ErrUnknownModule = errors.New("rbac: módulo desconocido")
	ErrUnknownAction = errors.New("rbac: acción desconocida")
	ErrMalformedRef  = errors.New("rbac: permiso con formato inválido")
)

// RefKind discrimina la unión de PermissionRef.
type RefKind int

const (
	RefLegacy     RefKind = iota + 1 // "productos:ver" o "ver_productos"
	RefStructured                    // {id, modulo, accion}
)

// PermissionRef unión etiquetada entre el permiso heredado (cadena) y el estructurado.
// Se resuelve una sola vez en el borde de lectura (ver backend.PermissionsFromJSON).
type PermissionRef struct {
	Kind   RefKind
	Legacy string
	ID     string
	Module string
	Action string
}

// LegacyRef construye una referencia a partir de la cadena heredada.
func LegacyRef(name string) PermissionRef {
	return PermissionRef{Kind: RefLegacy, Legacy: name}
}

// StructuredRef construye una referencia estructurada.
func StructuredRef(id, module, action string) PermissionRef {
	return PermissionRef{Kind: RefStructured, ID: id, Module: module, Action: action}
}

// Resolve devuelve el permiso canónico. Los heredados aceptan "modulo:accion",
// "modulo.accion" y "accion_modulo"; su ID pasa a ser "modulo:accion".
func (r PermissionRef) Resolve() (entity.Permission, error) {
	var module, action, id string
	switch r.Kind {
	case RefStructured:
		module, action, id = r.Module, r.Action, r.ID
	case RefLegacy:
		var ok bool
		module, action, ok = splitLegacy(r.Legacy)
		if !ok {
			return entity.Permission{}, ErrMalformedRef
		}
	default:
		return entity.Permission{}, ErrMalformedRef
	}
	module, action = textnorm.Normalize(module), textnorm.Normalize(action)
	if !contains(Modules, module) {
		return entity.Permission{}, ErrUnknownModule
	}
	if !contains(Actions, action) {
		return entity.Permission{}, ErrUnknownAction
	}
	p := entity.Permission{ID: id, Module: module, Action: action}
	if p.ID == "" {
		p.ID = p.Key()
	}
	return p, nil
}

func splitLegacy(s string) (module, action string, ok bool) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{":", "."} {
		if m, a, found := strings.Cut(s, sep); found {
			return m, a, m != "" && a != ""
		}
	}
	if a, m, found := strings.Cut(s, "_"); found {
		return m, a, m != "" && a != ""
	}
	return "", "", false
}

// Matrix conjunto de permisos otorgados a un rol.
// Invariante: ninguna acción de escritura sin ActionView en el mismo módulo.
type Matrix struct {
	granted map[string]map[string]bool
}

// NewMatrix construye una matriz vacía.
func NewMatrix() *Matrix {
	return &Matrix{granted: make(map[string]map[string]bool)}
}

// MatrixFrom construye la matriz aplicando Grant a cada permiso (normaliza permisos sin lectura).
func MatrixFrom(perms []entity.Permission) (*Matrix, error) {
	m := NewMatrix()
	for _, p := range perms {
		if err := m.Grant(p.Module, p.Action); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Grant otorga la acción; cualquier escritura otorga también ActionView.
func (m *Matrix) Grant(module, action string) error {
	module, action, err := validate(module, action)
	if err != nil {
		return err
	}
	row := m.row(module)
	row[action] = true
	if action != ActionView {
		row[ActionView] = true
	}
	return nil
}

// Revoke retira la acción; retirar ActionView retira todas las escrituras del módulo.
func (m *Matrix) Revoke(module, action string) error {
	module, action, err := validate(module, action)
	if err != nil {
		return err
	}
	row, ok := m.granted[module]
	if !ok {
		return nil
	}
	if action == ActionView {
		delete(m.granted, module)
		return nil
	}
	delete(row, action)
	return nil
}

// Toggle invierte la casilla (módulo, acción) respetando el invariante.
func (m *Matrix) Toggle(module, action string) error {
	if m.Has(module, action) {
		return m.Revoke(module, action)
	}
	return m.Grant(module, action)
}

// Has informa si la acción está otorgada.
func (m *Matrix) Has(module, action string) bool {
	module, action = textnorm.Normalize(module), textnorm.Normalize(action)
	return m.granted[module][action]
}

// Permissions devuelve los permisos otorgados en orden de filas y columnas.
func (m *Matrix) Permissions() []entity.Permission {
	var out []entity.Permission
	for _, module := range Modules {
		for _, action := range Actions {
			if m.granted[module][action] {
				p := entity.Permission{Module: module, Action: action}
				p.ID = p.Key()
				out = append(out, p)
			}
		}
	}
	return out
}

// Keys devuelve "modulo:accion" ordenados alfabéticamente.
func (m *Matrix) Keys() []string {
	perms := m.Permissions()
	keys := make([]string, 0, len(perms))
	for _, p := range perms {
		keys = append(keys, p.Key())
	}
	sort.Strings(keys)
	return keys
}

func (m *Matrix) row(module string) map[string]bool {
	row, ok := m.granted[module]
	if !ok {
		row = make(map[string]bool, len(Actions))
		m.granted[module] = row
	}
	return row
}

func validate(module, action string) (string, string, error) {
	module, action = textnorm.Normalize(module), textnorm.Normalize(action)
	if !contains(Modules, module) {
		return "", "", ErrUnknownModule
	}
	if !contains(Actions, action) {
		return "", "", ErrUnknownAction
	}
	return module, action, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
