// Package returns mantiene en el servidor los registros de devolución y baja abiertos por cada
// usuario y confirma cada uno de forma atómica (ajuste de stock y registro).
package returns

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/usecase"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
	domreturns "github.com/kajamart/admin-api/internal/domain/returns"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

// DefaultSessionTTL inactividad tras la cual un registro abierto se descarta.
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	mu      sync.Mutex
	id      string
	ownerID string
	wf      *domreturns.Workflow
	alerts  []domreturns.Alert
	touched time.Time
}

// UseCase registro de sesiones abiertas, una por id (uuid) y dueño.
type UseCase struct {
	mu        sync.Mutex
	sessions  map[string]*session
	products  repository.ProductRepository
	tx        TxRunner
	confirmed *eventbus.Bus[domain.ReturnConfirmed]
	log       zerolog.Logger
	ttl       time.Duration
	now       func() time.Time
}

// NewUseCase construye el registro. confirmed puede ser nil; ttl <= 0 usa DefaultSessionTTL.
func NewUseCase(products repository.ProductRepository, tx TxRunner, confirmed *eventbus.Bus[domain.ReturnConfirmed], log zerolog.Logger, ttl time.Duration) *UseCase {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &UseCase{
		sessions:  make(map[string]*session),
		products:  products,
		tx:        tx,
		confirmed: confirmed,
		log:       log,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Open abre un registro del tipo indicado (client|low) para ownerID.
func (uc *UseCase) Open(ctx context.Context, ownerID, kind string) (*dto.SessionResponse, error) {
	s := &session{id: uuid.New().String(), ownerID: ownerID, touched: uc.now()}
	alerts := eventbus.New[domreturns.Alert]()
	// Publish corre en la goroutine de la operación, que ya tiene s.mu.
	alerts.Subscribe(func(_ context.Context, a domreturns.Alert) {
		s.alerts = append(s.alerts, a)
	})
	wf, err := domreturns.New(kind, alerts)
	if err != nil {
		return nil, mapWorkflowError(err)
	}
	wf.Open()
	s.wf = wf

	uc.mu.Lock()
	uc.sessions[s.id] = s
	uc.mu.Unlock()

	uc.log.Debug().Str("session", s.id).Str("kind", kind).Str("owner", ownerID).Msg("registro abierto")
	return uc.respond(s), nil
}

// Get estado actual del registro.
func (uc *UseCase) Get(ctx context.Context, ownerID, sessionID string) (*dto.SessionResponse, error) {
	return uc.with(ownerID, sessionID, func(*session) error { return nil })
}

// Search busca en el catálogo de productos activos por nombre, código o categoría.
func (uc *UseCase) Search(ctx context.Context, ownerID, sessionID, term string) (*dto.SessionResponse, error) {
	catalog, err := uc.products.All(ctx)
	if err != nil {
		return nil, err
	}
	active := catalog[:0:0]
	for _, p := range catalog {
		if p.Status == entity.StatusActive {
			active = append(active, p)
		}
	}
	return uc.with(ownerID, sessionID, func(s *session) error {
		_, err := s.wf.Search(term, active)
		return err
	})
}

// Select agrega el producto como candidato con el stock actual.
func (uc *UseCase) Select(ctx context.Context, ownerID, sessionID, productID string) (*dto.SessionResponse, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return uc.with(ownerID, sessionID, func(s *session) error {
		_, err := s.wf.Select(ctx, *product)
		return err
	})
}

// Increment suma una unidad. Superar el stock no es error: queda en el máximo con una alerta.
func (uc *UseCase) Increment(ctx context.Context, ownerID, sessionID, productID string) (*dto.SessionResponse, error) {
	return uc.with(ownerID, sessionID, func(s *session) error {
		_, err := s.wf.Increment(ctx, productID)
		return err
	})
}

// Decrement resta una unidad sin bajar de cero.
func (uc *UseCase) Decrement(ctx context.Context, ownerID, sessionID, productID string) (*dto.SessionResponse, error) {
	return uc.with(ownerID, sessionID, func(s *session) error {
		_, err := s.wf.Decrement(ctx, productID)
		return err
	})
}

// SetQuantity fija la cantidad ajustada a [0, stock].
func (uc *UseCase) SetQuantity(ctx context.Context, ownerID, sessionID, productID string, qty int) (*dto.SessionResponse, error) {
	return uc.with(ownerID, sessionID, func(s *session) error {
		_, err := s.wf.SetQuantity(ctx, productID, qty)
		return err
	})
}

// AssignReason asigna el motivo de un candidato.
func (uc *UseCase) AssignReason(ctx context.Context, ownerID, sessionID, productID, reason string) (*dto.SessionResponse, error) {
	return uc.with(ownerID, sessionID, func(s *session) error {
		_, err := s.wf.AssignReason(productID, reason)
		return err
	})
}

// Remove quita un candidato.
func (uc *UseCase) Remove(ctx context.Context, ownerID, sessionID, productID string) (*dto.SessionResponse, error) {
	return uc.with(ownerID, sessionID, func(s *session) error {
		return s.wf.Remove(productID)
	})
}

// Confirm registra la devolución o baja: ajusta el stock de cada línea y agrega el registro en
// una sola transacción, y cierra la sesión. Si algo falla el registro sigue abierto con sus candidatos.
// responsible vacío usa defaultResponsible (el usuario autenticado).
func (uc *UseCase) Confirm(ctx context.Context, ownerID, sessionID string, in dto.ConfirmRequest, defaultResponsible string) (*dto.ConfirmResponse, error) {
	if in.Responsible == "" {
		in.Responsible = defaultResponsible
	}
	var saved entity.ReturnRecord
	res, err := uc.with(ownerID, sessionID, func(s *session) error {
		record, err := s.wf.Confirm(ctx, domreturns.ConfirmInput{
			Responsible: in.Responsible,
			ClientName:  in.ClientName,
			Reason:      in.Reason,
			Note:        in.Note,
		}, uc.sink)
		saved = record
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.mu.Lock()
	delete(uc.sessions, sessionID)
	uc.mu.Unlock()

	uc.confirmed.Publish(ctx, domain.ReturnConfirmed{Record: saved})
	uc.log.Info().
		Str("session", sessionID).
		Str("record", saved.ID).
		Str("kind", saved.Kind).
		Int("number", saved.Number).
		Int("quantity", saved.TotalQuantity()).
		Msg("registro confirmado")

	return &dto.ConfirmResponse{Record: usecase.ToReturnRecordResponse(saved), Session: *res}, nil
}

// sink aplica el efecto de stock (bajas restan, devoluciones de cliente suman) y agrega el registro.
func (uc *UseCase) sink(ctx context.Context, record entity.ReturnRecord) (entity.ReturnRecord, error) {
	record.ID = uuid.New().String()
	sign := 1
	if record.Kind == entity.ReturnKindLow {
		sign = -1
	}
	err := uc.tx.RunReturn(ctx, func(products repository.ProductRepository, returns repository.ReturnRepository) error {
		for _, it := range record.Items {
			if err := products.AdjustStock(ctx, it.ProductID, sign*it.Quantity); err != nil {
				return fmt.Errorf("stock de %s: %w", it.Name, err)
			}
		}
		return returns.Append(ctx, &record)
	})
	if err != nil {
		return entity.ReturnRecord{}, err
	}
	return record, nil
}

// Cancel descarta el registro sin efectos.
func (uc *UseCase) Cancel(ctx context.Context, ownerID, sessionID string) error {
	s, err := uc.session(ownerID, sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.wf.Cancel()
	s.mu.Unlock()

	uc.mu.Lock()
	delete(uc.sessions, sessionID)
	uc.mu.Unlock()
	return nil
}

// Sweep descarta los registros inactivos por más del TTL; devuelve cuántos.
func (uc *UseCase) Sweep() int {
	limit := uc.now().Add(-uc.ttl)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	n := 0
	for id, s := range uc.sessions {
		s.mu.Lock()
		idle := s.touched.Before(limit)
		s.mu.Unlock()
		if idle {
			delete(uc.sessions, id)
			n++
		}
	}
	return n
}

// Run ejecuta Sweep periódicamente hasta que ctx termine.
func (uc *UseCase) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := uc.Sweep(); n > 0 {
				uc.log.Info().Int("sessions", n).Msg("registros abiertos expirados")
			}
		}
	}
}

// Len cantidad de registros abiertos.
func (uc *UseCase) Len() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.sessions)
}

func (uc *UseCase) session(ownerID, sessionID string) (*session, error) {
	uc.mu.Lock()
	s, ok := uc.sessions[sessionID]
	uc.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: registro %s", domain.ErrNotFound, sessionID)
	}
	if s.ownerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// with ejecuta op con el registro bloqueado y responde con su estado y las alertas emitidas.
func (uc *UseCase) with(ownerID, sessionID string, op func(s *session) error) (*dto.SessionResponse, error) {
	s, err := uc.session(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = uc.now()
	if err := op(s); err != nil && !errors.Is(err, domreturns.ErrStockExceeded) {
		s.alerts = nil
		return nil, mapWorkflowError(err)
	}
	return uc.respond(s), nil
}

// respond arma la respuesta y vacía las alertas pendientes. Requiere s.mu (o s sin publicar).
func (uc *UseCase) respond(s *session) *dto.SessionResponse {
	v := s.wf.Snapshot()
	out := &dto.SessionResponse{
		ID:         s.id,
		Kind:       v.Kind,
		State:      string(v.State),
		Term:       v.Term,
		Matches:    make([]dto.ProductResponse, 0, len(v.Matches)),
		Candidates: make([]dto.CandidateDTO, 0, len(v.Candidates)),
		Reasons:    v.Reasons,
		CanConfirm: v.CanConfirm,
		Alerts:     make([]dto.AlertDTO, 0, len(s.alerts)),
	}
	for _, p := range v.Matches {
		out.Matches = append(out.Matches, usecase.ToProductResponse(p))
	}
	for _, c := range v.Candidates {
		out.Candidates = append(out.Candidates, dto.CandidateDTO{
			ProductID:         c.ProductID,
			Name:              c.Name,
			StockAvailable:    c.StockAvailable,
			RequestedQuantity: c.RequestedQuantity,
			Reason:            c.Reason,
		})
	}
	for _, a := range s.alerts {
		out.Alerts = append(out.Alerts, dto.AlertDTO{Kind: string(a.Kind), ProductID: a.ProductID, Max: a.Max, Message: a.Message})
	}
	s.alerts = nil
	return out
}

// mapWorkflowError traduce los errores del flujo a los errores de dominio que entiende la capa HTTP.
func mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, domreturns.ErrNotOpen):
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case errors.Is(err, domreturns.ErrCandidateNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, domreturns.ErrUnknownKind),
		errors.Is(err, domreturns.ErrInvalidReason),
		errors.Is(err, domreturns.ErrNoCandidates),
		errors.Is(err, domreturns.ErrReasonRequired),
		errors.Is(err, domreturns.ErrZeroQuantity),
		errors.Is(err, domreturns.ErrResponsibleRequired):
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return err
}
