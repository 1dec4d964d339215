// Package checkout implementa el flujo de creación de orden del lado cliente.
//
//	idle → placing → success
//	               → failed
//	               → profile_incomplete → awaiting_profile_completion → placing (un solo reintento)
//
// Resume entra directo en awaiting_profile_completion cuando el perfil llega en un pedido aparte.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"storefront/internal/apiclient"
	"storefront/internal/logger"
	"storefront/internal/model"
)

type State string

const (
	StateIdle                      State = "idle"
	StatePlacing                   State = "placing"
	StateProfileIncomplete         State = "profile_incomplete"
	StateAwaitingProfileCompletion State = "awaiting_profile_completion"
	StateSuccess                   State = "success"
	StateFailed                    State = "failed"
)

var (
	ErrInFlight        = errors.New("ya hay una orden en curso")
	ErrAlreadyPlaced   = errors.New("la orden ya fue creada")
	ErrNotLoggedIn     = errors.New("se requiere iniciar sesión")
	ErrProfileDeferred = errors.New("carga de perfil postergada")
	ErrInvalidProfile  = errors.New("faltan datos obligatorios del perfil")
	ErrInvalidMethod   = errors.New("método de pago desconocido")
)

const (
	failedMessage         = "Could not place your order. Please try again."
	profileNeededMessage  = "Please complete your delivery profile to continue."
	loginRequiredMessage  = "Login first"
	maxProfileSubmissions = 3
)

type Backend interface {
	HasSession() bool
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
	CreatePayment(ctx context.Context, orderID string) (*model.PaymentSession, error)
}

// ProfilePrompt junta los datos que faltan (el modal). Devolver ErrProfileDeferred deja el
// flujo en profile_incomplete para que quien llama reenvíe con el perfil.
type ProfilePrompt interface {
	CompleteProfile(ctx context.Context) (model.Profile, error)
}

type ProfilePromptFunc func(ctx context.Context) (model.Profile, error)

func (f ProfilePromptFunc) CompleteProfile(ctx context.Context) (model.Profile, error) {
	return f(ctx)
}

// Observer recibe cada transición.
type Observer func(from, to State)

type PlaceRequest struct {
	Method          model.PaymentMethod
	Note            string
	DeliveryAddress *model.Location
	ClaimNewUser    bool
}

type Result struct {
	State       State                 `json:"state"`
	OrderID     string                `json:"order_id,omitempty"`
	OrderNumber string                `json:"order_number,omitempty"`
	Redirect    string                `json:"redirect,omitempty"`
	Payment     *model.PaymentSession `json:"payment,omitempty"`
	AmountPaise int64                 `json:"amount_paise,omitempty"` // monto de Payment en paise
	Message     string                `json:"message,omitempty"`
	Retried     bool                  `json:"retried"`
}

type Flow struct {
	backend  Backend
	prompt   ProfilePrompt
	logger   logger.Logger
	observer Observer

	mu       sync.Mutex
	state    State
	controls map[model.PaymentMethod]*Control
}

func NewFlow(b Backend, prompt ProfilePrompt, l logger.Logger) *Flow {
	return &Flow{
		backend:  b,
		prompt:   prompt,
		logger:   l,
		state:    StateIdle,
		controls: newControls(),
	}
}

func (f *Flow) OnTransition(o Observer) {
	f.mu.Lock()
	f.observer = o
	f.mu.Unlock()
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Controls devuelve una copia del estado de los botones de pago.
func (f *Flow) Controls() map[model.PaymentMethod]Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[model.PaymentMethod]Control, len(f.controls))
	for m, c := range f.controls {
		out[m] = *c
	}
	return out
}

// Reset vuelve a idle con los botones habilitados.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
	f.controls = newControls()
}

func (f *Flow) transition(to State) {
	f.mu.Lock()
	from := f.state
	f.state = to
	obs := f.observer
	f.mu.Unlock()

	f.logger.Debug("checkout transition", "from", from, "to", to)
	if obs != nil {
		obs(from, to)
	}
}

// begin toma el flujo y pasa a to; falla si ya hay una orden en curso.
func (f *Flow) begin(method model.PaymentMethod, to State) error {
	f.mu.Lock()
	if f.state == StatePlacing || f.state == StateAwaitingProfileCompletion {
		f.mu.Unlock()
		return ErrInFlight
	}
	if f.state == StateSuccess {
		f.mu.Unlock()
		return ErrAlreadyPlaced
	}
	if c := f.controls[method]; c != nil && !c.Enabled {
		f.mu.Unlock()
		return ErrInFlight
	}
	f.controls[method].startLoading()
	f.mu.Unlock()

	f.transition(to)
	return nil
}

func (f *Flow) release(method model.PaymentMethod, keepDisabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.controls[method]
	c.restore()
	if keepDisabled {
		c.Enabled = false
	}
}

// Place crea la orden. Los errores de backend terminan en un Result con State failed y
// mensaje para el usuario; el error devuelto sólo se usa para fallas de uso
// (sesión, método inválido, orden en curso).
func (f *Flow) Place(ctx context.Context, req PlaceRequest) (Result, error) {
	if err := f.start(req, StatePlacing); err != nil {
		return Result{State: f.State(), Message: startMessage(err)}, err
	}

	create := req.createRequest()
	created, err := f.backend.CreateOrder(ctx, create)
	retried := false
	if err != nil && apiclient.IsProfileMissing(err) {
		f.transition(StateProfileIncomplete)

		res, done := f.completeProfile(ctx, req.Method)
		if done {
			return res, nil
		}

		f.transition(StatePlacing)
		retried = true
		created, err = f.backend.CreateOrder(ctx, create)
	}
	return f.finish(ctx, req.Method, created, err, retried), nil
}

// Resume continúa un checkout que quedó en profile_incomplete: valida el perfil, lo guarda
// y crea la orden una sola vez. Un perfil inválido deja el flujo en profile_incomplete.
func (f *Flow) Resume(ctx context.Context, req PlaceRequest, profile model.Profile) (Result, error) {
	if err := f.start(req, StateAwaitingProfileCompletion); err != nil {
		return Result{State: f.State(), Message: startMessage(err)}, err
	}

	if err := ValidateProfile(profile); err != nil {
		f.logger.Info("profile submission rejected", "error", err)
		f.release(req.Method, false)
		f.transition(StateProfileIncomplete)
		return Result{State: StateProfileIncomplete, Message: profileNeededMessage}, nil
	}
	if err := f.backend.UpdateProfile(ctx, profile); err != nil {
		return f.fail(req.Method, "update profile", err, Result{}), nil
	}

	f.transition(StatePlacing)
	created, err := f.backend.CreateOrder(ctx, req.createRequest())
	return f.finish(ctx, req.Method, created, err, true), nil
}

func (f *Flow) start(req PlaceRequest, to State) error {
	if !req.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, req.Method)
	}
	if !f.backend.HasSession() {
		return ErrNotLoggedIn
	}
	return f.begin(req.Method, to)
}

func startMessage(err error) string {
	if errors.Is(err, ErrNotLoggedIn) {
		return loginRequiredMessage
	}
	return ""
}

func (r PlaceRequest) createRequest() model.CreateOrderRequest {
	create := model.CreateOrderRequest{
		PaymentMethod:   r.Method,
		DeliveryAddress: r.DeliveryAddress,
		ClaimNewUser:    r.ClaimNewUser,
	}
	if note := strings.TrimSpace(r.Note); note != "" {
		create.Note = &note
	}
	return create
}

// finish cierra el intento de creación: sesión de pago si es online, success o failed.
func (f *Flow) finish(ctx context.Context, method model.PaymentMethod, created *model.CreateOrderResponse, err error, retried bool) Result {
	if err != nil {
		return f.fail(method, "create order", err, Result{Retried: retried})
	}

	res := Result{
		OrderID:     created.OrderID,
		OrderNumber: created.OrderNumber,
		Redirect:    "order-success.html?order_id=" + url.QueryEscape(created.OrderID),
		Retried:     retried,
	}

	if method == model.PaymentOnline {
		session, err := f.backend.CreatePayment(ctx, created.OrderID)
		if err != nil {
			return f.fail(method, "create payment session", err, res)
		}
		res.Payment = session
		res.AmountPaise = session.AmountMinor()
	}

	f.release(method, true)
	f.transition(StateSuccess)
	res.State = StateSuccess
	f.logger.Info("order placed",
		"orderId", res.OrderID,
		"orderNumber", res.OrderNumber,
		"method", method,
		"retried", retried)
	return res
}

// completeProfile abre el prompt y guarda el perfil. done=true significa que el flujo
// terminó acá (diferido, inválido o falla al guardar).
func (f *Flow) completeProfile(ctx context.Context, method model.PaymentMethod) (Result, bool) {
	if f.prompt == nil {
		f.release(method, false)
		return Result{State: StateProfileIncomplete, Message: profileNeededMessage}, true
	}

	var profile model.Profile
	var perr error
	for i := 0; i < maxProfileSubmissions; i++ {
		profile, perr = f.prompt.CompleteProfile(ctx)
		if perr != nil {
			break
		}
		if perr = ValidateProfile(profile); perr == nil {
			break
		}
		f.logger.Info("profile submission rejected", "error", perr)
	}

	switch {
	case errors.Is(perr, ErrProfileDeferred), errors.Is(perr, ErrInvalidProfile):
		f.release(method, false)
		return Result{State: StateProfileIncomplete, Message: profileNeededMessage}, true
	case perr != nil:
		return f.fail(method, "profile prompt", perr, Result{}), true
	}

	f.transition(StateAwaitingProfileCompletion)
	if err := f.backend.UpdateProfile(ctx, profile); err != nil {
		return f.fail(method, "update profile", err, Result{}), true
	}
	return Result{}, false
}

func (f *Flow) fail(method model.PaymentMethod, step string, err error, res Result) Result {
	f.logger.Warn("order placement failed", "step", step, "method", method, "error", err)
	f.release(method, false)
	f.transition(StateFailed)
	res.State = StateFailed
	res.Message = failedMessage
	return res
}

// ValidateProfile exige nombre, teléfono y dirección.
func ValidateProfile(p model.Profile) error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(missing, ", "))
	}
	return nil
}
