// Package returns modela el flujo de registro de devoluciones de clientes y bajas de inventario.
//
// Estados:
//
//	Idle → Searching → ProductSelected → QuantityAdjusted → ReasonAssigned → Confirmed | Cancelled
//
// Cada candidato cumple 0 <= RequestedQuantity <= StockAvailable después de cualquier operación.
// Intentar superar el stock no desborda: la cantidad queda en el máximo y se emite una alerta
// por cada intento bloqueado.
package returns

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/pkg/eventbus"
	"github.com/kajamart/admin-api/pkg/textnorm"
)

// State estado del flujo.
type State string

const (
	StateIdle             State = "idle"
	StateSearching        State = "searching"
	StateProductSelected  State = "product_selected"
	StateQuantityAdjusted State = "quantity_adjusted"
	StateReasonAssigned   State = "reason_assigned"
	StateConfirmed        State = "confirmed"
	StateCancelled        State = "cancelled"
)

// MaxMatches tope de coincidencias del desplegable de búsqueda.
const MaxMatches = 10

var (
	ErrUnknownKind         = errors.New("returns: tipo de registro desconocido")
	ErrNotOpen             = errors.New("returns: el registro no está abierto")
	ErrCandidateNotFound   = errors.New("returns: el producto no está en la lista")
	ErrStockExceeded       = errors.New("returns: la cantidad supera el stock disponible")
	ErrInvalidReason       = errors.New("returns: motivo no permitido")
	ErrNoCandidates        = errors.New("returns: agregue al menos un producto")
	ErrReasonRequired      = errors.New("returns: todos los productos requieren un motivo")
	ErrZeroQuantity        = errors.New("returns: todos los productos requieren cantidad mayor a cero")
	ErrResponsibleRequired = errors.New("returns: el responsable es obligatorio")
)

// Motivos admitidos por tipo de registro.
var (
	ClientReasons = []string{"defectuoso", "vencido", "equivocado", "insatisfecho"}
	LowReasons    = []string{"dañado", "vencido", "perdida", "robo"}
)

// ReasonsFor devuelve los motivos del tipo indicado.
func ReasonsFor(kind string) []string {
	switch kind {
	case entity.ReturnKindClient:
		return ClientReasons
	case entity.ReturnKindLow:
		return LowReasons
	}
	return nil
}

// AlertKind tipo de alerta bloqueante.
type AlertKind string

const (
	AlertStockExceeded AlertKind = "stock_exceeded"
	AlertNoCandidates  AlertKind = "no_candidates"
)

// Alert se publica en el bus cuando una operación es bloqueada.
type Alert struct {
	Kind      AlertKind
	ProductID string
	Max       int
	Message   string
}

// Candidate producto agregado al registro en curso.
type Candidate struct {
	ProductID         string
	Name              string
	StockAvailable    int
	RequestedQuantity int
	Reason            string
}

// ConfirmInput datos generales del registro.
type ConfirmInput struct {
	Responsible string
	ClientName  string
	Reason      string
	Note        string
}

// Sink recibe el registro confirmado (normalmente agrega a la colección dueña del listado).
// Si devuelve error el flujo conserva su estado.
type Sink func(ctx context.Context, record entity.ReturnRecord) (entity.ReturnRecord, error)

// View foto del flujo para serializar.
type View struct {
	Kind       string
	State      State
	Term       string
	Matches    []entity.Product
	Candidates []Candidate
	Reasons    []string
	CanConfirm bool
}

// Workflow no es seguro para uso concurrente; el registro de sesiones lo protege.
type Workflow struct {
	kind       string
	state      State
	term       string
	matches    []entity.Product
	candidates []Candidate
	alerts     *eventbus.Bus[Alert]
	now        func() time.Time
}

// New construye un flujo cerrado (Idle). alerts puede ser nil.
func New(kind string, alerts *eventbus.Bus[Alert]) (*Workflow, error) {
	if ReasonsFor(kind) == nil {
		return nil, ErrUnknownKind
	}
	return &Workflow{kind: kind, state: StateIdle, alerts: alerts, now: time.Now}, nil
}

// Kind tipo de registro.
func (w *Workflow) Kind() string { return w.kind }

// State estado actual.
func (w *Workflow) State() State { return w.state }

// Open abre el modal: Idle, Confirmed o Cancelled → Searching.
func (w *Workflow) Open() {
	if w.isOpen() {
		return
	}
	w.reset()
	w.state = StateSearching
}

// Search filtra el catálogo por nombre, código de barras o categoría.
func (w *Workflow) Search(term string, catalog []entity.Product) ([]entity.Product, error) {
	if !w.isOpen() {
		return nil, ErrNotOpen
	}
	w.term = term
	w.matches = w.matches[:0]
	needle := textnorm.Normalize(term)
	if needle != "" {
		for _, p := range catalog {
			if textnorm.Contains(p.Name, needle) || textnorm.Contains(p.Barcode, needle) ||
				textnorm.Contains(p.CategoryName, needle) {
				w.matches = append(w.matches, p)
				if len(w.matches) == MaxMatches {
					break
				}
			}
		}
	}
	if len(w.candidates) == 0 {
		w.state = StateSearching
	}
	out := make([]entity.Product, len(w.matches))
	copy(out, w.matches)
	return out, nil
}

// Select agrega el producto como candidato (cantidad 1, o 0 sin stock). Si ya estaba,
// actualiza su stock y suma una unidad respetando el máximo.
func (w *Workflow) Select(ctx context.Context, p entity.Product) (Candidate, error) {
	if !w.isOpen() {
		return Candidate{}, ErrNotOpen
	}
	stock := p.Stock
	if stock < 0 {
		stock = 0
	}
	w.term = ""
	w.matches = w.matches[:0]
	if i := w.index(p.ID); i >= 0 {
		w.candidates[i].Name = p.Name
		w.candidates[i].StockAvailable = stock
		w.state = StateProductSelected
		return w.setQuantity(ctx, i, w.candidates[i].RequestedQuantity+1)
	}
	qty := 1
	if stock == 0 {
		qty = 0
	}
	c := Candidate{ProductID: p.ID, Name: p.Name, StockAvailable: stock, RequestedQuantity: qty}
	w.candidates = append(w.candidates, c)
	w.state = StateProductSelected
	return c, nil
}

// Increment suma una unidad.
func (w *Workflow) Increment(ctx context.Context, productID string) (Candidate, error) {
	return w.adjust(ctx, productID, func(q int) int { return q + 1 })
}

// Decrement resta una unidad sin bajar de cero.
func (w *Workflow) Decrement(ctx context.Context, productID string) (Candidate, error) {
	return w.adjust(ctx, productID, func(q int) int { return q - 1 })
}

// SetQuantity fija la cantidad, ajustada a [0, stock].
func (w *Workflow) SetQuantity(ctx context.Context, productID string, qty int) (Candidate, error) {
	return w.adjust(ctx, productID, func(int) int { return qty })
}

func (w *Workflow) adjust(ctx context.Context, productID string, next func(int) int) (Candidate, error) {
	if !w.isOpen() {
		return Candidate{}, ErrNotOpen
	}
	i := w.index(productID)
	if i < 0 {
		return Candidate{}, ErrCandidateNotFound
	}
	c, err := w.setQuantity(ctx, i, next(w.candidates[i].RequestedQuantity))
	if w.allReasoned() {
		w.state = StateReasonAssigned
	} else {
		w.state = StateQuantityAdjusted
	}
	return c, err
}

func (w *Workflow) setQuantity(ctx context.Context, i, qty int) (Candidate, error) {
	c := &w.candidates[i]
	var err error
	switch {
	case qty < 0:
		qty = 0
	case qty > c.StockAvailable:
		qty = c.StockAvailable
		err = ErrStockExceeded
		w.alerts.Publish(ctx, Alert{
			Kind:      AlertStockExceeded,
			ProductID: c.ProductID,
			Max:       c.StockAvailable,
			Message:   "La cantidad de " + c.Name + " no puede superar el stock disponible",
		})
	}
	c.RequestedQuantity = qty
	return *c, err
}

// AssignReason asigna el motivo de un candidato. Con todos los candidatos con motivo → ReasonAssigned.
func (w *Workflow) AssignReason(productID, reason string) (Candidate, error) {
	if !w.isOpen() {
		return Candidate{}, ErrNotOpen
	}
	i := w.index(productID)
	if i < 0 {
		return Candidate{}, ErrCandidateNotFound
	}
	canonical, ok := w.canonicalReason(reason)
	if !ok {
		return Candidate{}, ErrInvalidReason
	}
	w.candidates[i].Reason = canonical
	if w.allReasoned() {
		w.state = StateReasonAssigned
	}
	return w.candidates[i], nil
}

// Remove quita un candidato.
func (w *Workflow) Remove(productID string) error {
	if !w.isOpen() {
		return ErrNotOpen
	}
	i := w.index(productID)
	if i < 0 {
		return ErrCandidateNotFound
	}
	w.candidates = append(w.candidates[:i], w.candidates[i+1:]...)
	if len(w.candidates) == 0 {
		w.state = StateSearching
	} else if w.allReasoned() {
		w.state = StateReasonAssigned
	}
	return nil
}

// CanConfirm es falso sin candidatos, con algún candidato sin motivo o con cantidad cero.
func (w *Workflow) CanConfirm() bool {
	return w.isOpen() && w.confirmError() == nil
}

func (w *Workflow) confirmError() error {
	if len(w.candidates) == 0 {
		return ErrNoCandidates
	}
	for _, c := range w.candidates {
		if c.Reason == "" {
			return ErrReasonRequired
		}
	}
	for _, c := range w.candidates {
		if c.RequestedQuantity <= 0 {
			return ErrZeroQuantity
		}
	}
	return nil
}

// Confirm construye el registro, lo entrega a sink y reinicia el flujo (Confirmed).
// Sin candidatos publica AlertNoCandidates. Ningún error invoca sink.
func (w *Workflow) Confirm(ctx context.Context, in ConfirmInput, sink Sink) (entity.ReturnRecord, error) {
	if !w.isOpen() {
		return entity.ReturnRecord{}, ErrNotOpen
	}
	if err := w.confirmError(); err != nil {
		if errors.Is(err, ErrNoCandidates) {
			w.alerts.Publish(ctx, Alert{Kind: AlertNoCandidates, Message: "Agregue al menos un producto"})
		}
		return entity.ReturnRecord{}, err
	}
	in.Responsible = strings.TrimSpace(in.Responsible)
	if in.Responsible == "" {
		return entity.ReturnRecord{}, ErrResponsibleRequired
	}

	record := entity.ReturnRecord{
		Kind:        w.kind,
		Responsible: in.Responsible,
		ClientName:  strings.TrimSpace(in.ClientName),
		Reason:      strings.TrimSpace(in.Reason),
		Note:        strings.TrimSpace(in.Note),
		Date:        w.now(),
		Items:       make([]entity.ReturnItem, 0, len(w.candidates)),
	}
	for _, c := range w.candidates {
		record.Items = append(record.Items, entity.ReturnItem{
			ProductID: c.ProductID,
			Name:      c.Name,
			Quantity:  c.RequestedQuantity,
			Reason:    c.Reason,
		})
	}
	if record.Reason == "" {
		record.Reason = joinReasons(record.Items)
	}

	saved := record
	if sink != nil {
		var err error
		saved, err = sink(ctx, record)
		if err != nil {
			return entity.ReturnRecord{}, err
		}
	}
	w.reset()
	w.state = StateConfirmed
	return saved, nil
}

// Cancel descarta el estado local sin invocar ningún callback.
func (w *Workflow) Cancel() {
	w.reset()
	w.state = StateCancelled
}

// Candidates copia de los candidatos en orden de selección.
func (w *Workflow) Candidates() []Candidate {
	out := make([]Candidate, len(w.candidates))
	copy(out, w.candidates)
	return out
}

// Snapshot foto inmutable del flujo.
func (w *Workflow) Snapshot() View {
	matches := make([]entity.Product, len(w.matches))
	copy(matches, w.matches)
	return View{
		Kind:       w.kind,
		State:      w.state,
		Term:       w.term,
		Matches:    matches,
		Candidates: w.Candidates(),
		Reasons:    ReasonsFor(w.kind),
		CanConfirm: w.CanConfirm(),
	}
}

func (w *Workflow) isOpen() bool {
	switch w.state {
	case StateIdle, StateConfirmed, StateCancelled:
		return false
	}
	return true
}

func (w *Workflow) reset() {
	w.term = ""
	w.matches = nil
	w.candidates = nil
}

func (w *Workflow) index(productID string) int {
	for i, c := range w.candidates {
		if c.ProductID == productID {
			return i
		}
	}
	return -1
}

func (w *Workflow) allReasoned() bool {
	if len(w.candidates) == 0 {
		return false
	}
	for _, c := range w.candidates {
		if c.Reason == "" {
			return false
		}
	}
	return true
}

// canonicalReason acepta el motivo sin importar tildes ni mayúsculas y devuelve la forma del catálogo.
func (w *Workflow) canonicalReason(reason string) (string, bool) {
	norm := textnorm.Normalize(reason)
	if norm == "" {
		return "", false
	}
	for _, r := range ReasonsFor(w.kind) {
		if textnorm.Normalize(r) == norm {
			return r, true
		}
	}
	return "", false
}

func joinReasons(items []entity.ReturnItem) string {
	seen := make(map[string]struct{}, len(items))
	var parts []string
	for _, it := range items {
		if _, ok := seen[it.Reason]; ok {
			continue
		}
		seen[it.Reason] = struct{}{}
		parts = append(parts, it.Reason)
	}
	return strings.Join(parts, ", ")
}
