package service

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/summary"
)

// OrderPublisher avisa a otros servicios que se creó una orden.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, userID, orderID, orderNumber string, method model.PaymentMethod) (string, error)
}

type PlaceInput struct {
	Method          model.PaymentMethod
	Note            string
	DeliveryAddress *model.Location
	ClaimNewUser    bool
	// Profile es el contenido del modal. Si es nil y el backend pide perfil, el resultado
	// queda en profile_incomplete; si viene, se guarda antes de crear la orden.
	Profile *model.Profile
}

type CheckoutService struct {
	backendFor BackendFor
	drafts     DraftRepository
	publisher  OrderPublisher
	guard      *checkout.Guard
	summaries  *summary.Registry
	logger     logger.Logger
}

// drafts y publisher pueden ser nil.
func NewCheckoutService(b BackendFor, drafts DraftRepository, publisher OrderPublisher, l logger.Logger) *CheckoutService {
	return &CheckoutService{
		backendFor: b,
		drafts:     drafts,
		publisher:  publisher,
		guard:      checkout.NewGuard(),
		summaries:  summary.NewRegistry(l),
		logger:     l,
	}
}

// View pide el resumen con la casilla de oferta indicada. Si otro pedido del mismo usuario
// respondió después, devuelve summary.ErrSuperseded junto con la vista más nueva.
func (s *CheckoutService) View(ctx context.Context, user *AuthUser, claim bool) (pricing.View, error) {
	loader := s.summaries.For(user.ID, s.backendFor(user.Token))
	return loader.ToggleClaim(ctx, claim)
}

// SetQuantity cambia la cantidad (menos de 1 elimina) y devuelve el resumen recalculado.
func (s *CheckoutService) SetQuantity(ctx context.Context, user *AuthUser, productID string, qty int, claim bool) (pricing.View, error) {
	loader := s.summaries.For(user.ID, s.backendFor(user.Token))
	loader.SetClaim(claim)
	return loader.SetQuantity(ctx, productID, qty)
}

// Draft devuelve los últimos valores del formulario; vacío si no hay.
func (s *CheckoutService) Draft(ctx context.Context, user *AuthUser) (*model.Draft, error) {
	empty := &model.Draft{UserID: user.ID}
	if s.drafts == nil {
		return empty, nil
	}
	d, err := s.drafts.FindDraft(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return empty, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CheckoutService) Place(ctx context.Context, user *AuthUser, in PlaceInput) (checkout.Result, error) {
	if !s.guard.Acquire(user.ID) {
		return checkout.Result{State: checkout.StatePlacing}, checkout.ErrInFlight
	}
	defer s.guard.Release(user.ID)

	s.saveDraft(ctx, user, in)

	flow := checkout.NewFlow(s.backendFor(user.Token), nil, s.logger)
	req := checkout.PlaceRequest{
		Method:          in.Method,
		Note:            in.Note,
		DeliveryAddress: in.DeliveryAddress,
		ClaimNewUser:    in.ClaimNewUser,
	}

	var res checkout.Result
	var err error
	if in.Profile != nil {
		// el modal ya se completó: guardar perfil y un único create-order
		res, err = flow.Resume(ctx, req, *in.Profile)
	} else {
		res, err = flow.Place(ctx, req)
	}
	if err != nil {
		return res, err
	}

	if res.State == checkout.StateSuccess {
		s.summaries.Forget(user.ID)
	}
	if res.State == checkout.StateSuccess && s.publisher != nil {
		if _, perr := s.publisher.PublishOrderPlaced(ctx, user.ID, res.OrderID, res.OrderNumber, in.Method); perr != nil {
			s.logger.Warn("publishing order_placed failed", "orderId", res.OrderID, "error", perr)
		}
	}
	return res, nil
}

// saveDraft no corta el checkout si Mongo falla.
func (s *CheckoutService) saveDraft(ctx context.Context, user *AuthUser, in PlaceInput) {
	if s.drafts == nil {
		return
	}
	d := &model.Draft{
		UserID:          user.ID,
		Note:            strings.TrimSpace(in.Note),
		DeliveryAddress: in.DeliveryAddress,
		ClaimNewUser:    in.ClaimNewUser,
	}
	if in.Profile != nil {
		d.Profile = *in.Profile
	} else if prev, err := s.drafts.FindDraft(ctx, user.ID); err == nil {
		d.Profile = prev.Profile
	}
	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		s.logger.Warn("saving checkout draft failed", "userId", user.ID, "error", err)
	}
}
