package checkout

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apiclient"
	"storefront/internal/logger"
	"storefront/internal/model"
)

var profileMissing = &apiclient.Error{
	Kind:       apiclient.KindProfileMissing,
	StatusCode: http.StatusUnprocessableEntity,
	Detail:     "Profile missing",
}

type fakeBackend struct {
	mu          sync.Mutex
	session     bool
	createErrs  []error
	creates     []model.CreateOrderRequest
	profiles    []model.Profile
	profileErr  error
	paymentErr  error
	blockCreate chan struct{}
	entered     chan struct{}
}

func (f *fakeBackend) HasSession() bool { return f.session }

func (f *fakeBackend) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	f.mu.Lock()
	f.creates = append(f.creates, req)
	var err error
	if len(f.createErrs) > 0 {
		err = f.createErrs[0]
		f.createErrs = f.createErrs[1:]
	}
	block := f.blockCreate
	f.mu.Unlock()

	if block != nil {
		f.entered <- struct{}{}
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &model.CreateOrderResponse{OrderID: "ord-1", OrderNumber: "SF-1001"}, nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, p model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = append(f.profiles, p)
	return f.profileErr
}

func (f *fakeBackend) CreatePayment(ctx context.Context, orderID string) (*model.PaymentSession, error) {
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	return &model.PaymentSession{
		Key:            "rzp_test",
		GatewayOrderID: "order_gw_1",
		Amount:         decimal.NewFromInt(540),
		Currency:       "INR",
	}, nil
}

func (f *fakeBackend) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func validProfile() model.Profile {
	return model.Profile{Name: "Asha", Phone: "9876543210", Address: "12 MG Road", Pincode: "560001"}
}

func recordStates(f *Flow) *[]State {
	var seen []State
	f.OnTransition(func(_, to State) { seen = append(seen, to) })
	return &seen
}

func TestPlaceCODSuccess(t *testing.T) {
	b := &fakeBackend{session: true}
	f := NewFlow(b, nil, logger.Nop())
	states := recordStates(f)

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD, Note: "  ring twice "})
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, "order-success.html?order_id=ord-1", res.Redirect)
	assert.Nil(t, res.Payment)
	assert.False(t, res.Retried)
	assert.Equal(t, []State{StatePlacing, StateSuccess}, *states)

	require.Len(t, b.creates, 1)
	require.NotNil(t, b.creates[0].Note)
	assert.Equal(t, "ring twice", *b.creates[0].Note)
	assert.False(t, f.Controls()[model.PaymentCOD].Enabled)
}

func TestPlaceOnlineReturnsPaymentSession(t *testing.T) {
	b := &fakeBackend{session: true}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentOnline})
	require.NoError(t, err)
	require.NotNil(t, res.Payment)
	assert.Equal(t, "order_gw_1", res.Payment.GatewayOrderID)
	assert.Equal(t, int64(54000), res.AmountPaise)
	assert.Equal(t, StateSuccess, res.State)
}

func TestPlaceOnlinePaymentFailure(t *testing.T) {
	b := &fakeBackend{session: true, paymentErr: errors.New("gateway down")}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentOnline})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, failedMessage, res.Message)
	assert.True(t, f.Controls()[model.PaymentOnline].Enabled)
}

func TestPlaceProfileMissingRetriesOnce(t *testing.T) {
	b := &fakeBackend{session: true, createErrs: []error{profileMissing}}
	prompts := 0
	prompt := ProfilePromptFunc(func(ctx context.Context) (model.Profile, error) {
		prompts++
		return validProfile(), nil
	})
	f := NewFlow(b, prompt, logger.Nop())
	states := recordStates(f)

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, res.State)
	assert.True(t, res.Retried)
	assert.Equal(t, 1, prompts)
	assert.Equal(t, 2, b.createCount())
	require.Len(t, b.profiles, 1)
	assert.Equal(t, "Asha", b.profiles[0].Name)
	assert.Equal(t, []State{
		StatePlacing,
		StateProfileIncomplete,
		StateAwaitingProfileCompletion,
		StatePlacing,
		StateSuccess,
	}, *states)
}

func TestPlaceProfileMissingTwiceFails(t *testing.T) {
	b := &fakeBackend{session: true, createErrs: []error{profileMissing, profileMissing}}
	prompt := ProfilePromptFunc(func(ctx context.Context) (model.Profile, error) {
		return validProfile(), nil
	})
	f := NewFlow(b, prompt, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 2, b.createCount())
}

func TestPlaceProfileDeferred(t *testing.T) {
	b := &fakeBackend{session: true, createErrs: []error{profileMissing}}
	prompt := ProfilePromptFunc(func(ctx context.Context) (model.Profile, error) {
		return model.Profile{}, ErrProfileDeferred
	})
	f := NewFlow(b, prompt, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, StateProfileIncomplete, res.State)
	assert.Equal(t, profileNeededMessage, res.Message)
	assert.Equal(t, 1, b.createCount())
	assert.Empty(t, b.profiles)
	assert.True(t, f.Controls()[model.PaymentCOD].Enabled)
}

func TestPlaceInvalidProfileNeverRetries(t *testing.T) {
	b := &fakeBackend{session: true, createErrs: []error{profileMissing}}
	calls := 0
	prompt := ProfilePromptFunc(func(ctx context.Context) (model.Profile, error) {
		calls++
		return model.Profile{Name: "Asha"}, nil
	})
	f := NewFlow(b, prompt, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, StateProfileIncomplete, res.State)
	assert.Equal(t, maxProfileSubmissions, calls)
	assert.Equal(t, 1, b.createCount())
	assert.Empty(t, b.profiles)
}

func TestPlaceProfileUpdateFailure(t *testing.T) {
	b := &fakeBackend{
		session:    true,
		createErrs: []error{profileMissing},
		profileErr: &apiclient.Error{Kind: apiclient.KindStatus, StatusCode: 500, Detail: "boom"},
	}
	prompt := ProfilePromptFunc(func(ctx context.Context) (model.Profile, error) {
		return validProfile(), nil
	})
	f := NewFlow(b, prompt, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 1, b.createCount())
}

func TestResumeCreatesOnce(t *testing.T) {
	b := &fakeBackend{session: true}
	f := NewFlow(b, nil, logger.Nop())
	states := recordStates(f)

	res, err := f.Resume(context.Background(), PlaceRequest{Method: model.PaymentOnline}, validProfile())
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, res.State)
	assert.True(t, res.Retried)
	assert.Equal(t, 1, b.createCount())
	assert.Equal(t, []model.Profile{validProfile()}, b.profiles)
	assert.Equal(t, int64(54000), res.AmountPaise)
	assert.Equal(t, []State{StateAwaitingProfileCompletion, StatePlacing, StateSuccess}, *states)
}

func TestResumeAfterPromptDeferred(t *testing.T) {
	b := &fakeBackend{session: true, createErrs: []error{profileMissing}}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)
	require.Equal(t, StateProfileIncomplete, res.State)

	res, err = f.Resume(context.Background(), PlaceRequest{Method: model.PaymentCOD}, validProfile())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, 2, b.createCount())
}

func TestResumeStillMissingFails(t *testing.T) {
	b := &fakeBackend{session: true, createErrs: []error{profileMissing}}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Resume(context.Background(), PlaceRequest{Method: model.PaymentCOD}, validProfile())
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 1, b.createCount())
	assert.True(t, f.Controls()[model.PaymentCOD].Enabled)
}

func TestResumeInvalidProfile(t *testing.T) {
	b := &fakeBackend{session: true}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Resume(context.Background(), PlaceRequest{Method: model.PaymentCOD}, model.Profile{Phone: "98765"})
	require.NoError(t, err)
	assert.Equal(t, StateProfileIncomplete, res.State)
	assert.Equal(t, profileNeededMessage, res.Message)
	assert.Zero(t, b.createCount())
	assert.Empty(t, b.profiles)
	assert.True(t, f.Controls()[model.PaymentCOD].Enabled)
}

func TestResumeProfileUpdateFailure(t *testing.T) {
	b := &fakeBackend{session: true, profileErr: errors.New("boom")}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Resume(context.Background(), PlaceRequest{Method: model.PaymentCOD}, validProfile())
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Zero(t, b.createCount())
}

func TestPlaceGenericFailureReenablesControl(t *testing.T) {
	b := &fakeBackend{session: true, createErrs: []error{
		&apiclient.Error{Kind: apiclient.KindStatus, StatusCode: 400, Detail: "Cart is empty"},
	}}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, failedMessage, res.Message)

	c := f.Controls()[model.PaymentCOD]
	assert.True(t, c.Enabled)
	assert.Equal(t, "Cash on Delivery", c.Label)

	res, err = f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.State)
}

func TestPlaceRequiresSession(t *testing.T) {
	b := &fakeBackend{}
	f := NewFlow(b, nil, logger.Nop())

	res, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, "Login first", res.Message)
	assert.Equal(t, StateIdle, f.State())
	assert.Zero(t, b.createCount())
}

func TestPlaceRejectsUnknownMethod(t *testing.T) {
	f := NewFlow(&fakeBackend{session: true}, nil, logger.Nop())
	_, err := f.Place(context.Background(), PlaceRequest{Method: "card"})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestPlaceWhileInFlight(t *testing.T) {
	b := &fakeBackend{
		session:     true,
		blockCreate: make(chan struct{}),
		entered:     make(chan struct{}, 1),
	}
	f := NewFlow(b, nil, logger.Nop())

	done := make(chan Result, 1)
	go func() {
		res, _ := f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
		done <- res
	}()
	<-b.entered

	c := f.Controls()[model.PaymentCOD]
	assert.False(t, c.Enabled)
	assert.Equal(t, "Placing order…", c.Label)

	_, err := f.Place(context.Background(), PlaceRequest{Method: model.PaymentOnline})
	assert.ErrorIs(t, err, ErrInFlight)

	close(b.blockCreate)
	res := <-done
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, 1, b.createCount())

	_, err = f.Place(context.Background(), PlaceRequest{Method: model.PaymentCOD})
	assert.ErrorIs(t, err, ErrAlreadyPlaced)

	f.Reset()
	assert.Equal(t, StateIdle, f.State())
	assert.True(t, f.Controls()[model.PaymentCOD].Enabled)
}

func TestValidateProfile(t *testing.T) {
	assert.NoError(t, ValidateProfile(validProfile()))

	err := ValidateProfile(model.Profile{Name: " ", Address: "x"})
	require.ErrorIs(t, err, ErrInvalidProfile)
	assert.Contains(t, err.Error(), "name, phone")
}

func TestGuard(t *testing.T) {
	g := NewGuard()
	assert.True(t, g.Acquire("u1"))
	assert.False(t, g.Acquire("u1"))
	assert.True(t, g.Acquire("u2"))
	g.Release("u1")
	assert.True(t, g.Acquire("u1"))
}
