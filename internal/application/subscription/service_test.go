package subscription

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/liquidsuites/launch-api/internal/domain"
	"github.com/liquidsuites/launch-api/internal/infrastructure/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSubscriberStore struct{ mock.Mock }

func (m *mockSubscriberStore) GetByPhoneKey(ctx context.Context, phoneKey string) (*domain.Subscriber, error) {
	args := m.Called(ctx, phoneKey)
	if s, _ := args.Get(0).(*domain.Subscriber); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubscriberStore) Create(ctx context.Context, sub *domain.Subscriber) error {
	return m.Called(ctx, sub).Error(0)
}
func (m *mockSubscriberStore) Scan(ctx context.Context) ([]domain.Subscriber, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Subscriber), args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Send(ctx context.Context, to, body string) (*sms.Result, error) {
	args := m.Called(ctx, to, body)
	if r, _ := args.Get(0).(*sms.Result); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newService(repo *mockSubscriberStore, gw sms.Gateway) Service {
	return NewService(ServiceDeps{
		SubscriberRepo: repo,
		Gateway:        gw,
		WelcomeMessage: "welcome!",
	})
}

// --- Subscribe tests ---

func TestSubscribe_InvalidPhone_NoStoreAccess(t *testing.T) {
	repo := &mockSubscriberStore{}

	svc := newService(repo, nil)
	_, err := svc.Subscribe(context.Background(), "555")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "GetByPhoneKey", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscribe_Duplicate_NoRecordNoSMS(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").
		Return(&domain.Subscriber{PhoneKey: "5551234567"}, nil)
	gw := &mockGateway{}

	svc := newService(repo, gw)
	_, err := svc.Subscribe(context.Background(), "(555) 123-4567")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscribe_StoreCreateError_AbortsBeforeSMS(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").Return(nil, domain.ErrNotFound)
	storeErr := errors.New("dynamo unavailable")
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Subscriber")).Return(storeErr)
	gw := &mockGateway{}

	svc := newService(repo, gw)
	_, err := svc.Subscribe(context.Background(), "5551234567")

	require.ErrorIs(t, err, storeErr)
	gw.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscribe_LostConditionalPutRace_MapsToConflict(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("phone number already registered: %w", domain.ErrConflict))

	svc := newService(repo, nil)
	_, err := svc.Subscribe(context.Background(), "5551234567")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestSubscribe_HappyPath_SendsWelcome(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(sub *domain.Subscriber) bool {
		return sub.PhoneKey == "5551234567" &&
			sub.DisplayPhone == "1 (555) 123-4567" &&
			!sub.Notified &&
			sub.SubscriberID != ""
	})).Return(nil)
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, "+15551234567", "welcome!").
		Return(&sms.Result{MessageID: "SM1", Status: sms.StatusDelivered}, nil)

	svc := newService(repo, gw)
	out, err := svc.Subscribe(context.Background(), "1 (555) 123-4567")

	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Empty(t, out.Warning)
	repo.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestSubscribe_GatewayHardError_StillSucceeds(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &sms.SendError{Kind: sms.FailureAuth, Message: "bad credentials"})

	svc := newService(repo, gw)
	out, err := svc.Subscribe(context.Background(), "5551234567")

	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Empty(t, out.Warning)
}

func TestSubscribe_ComplianceHoldError_SucceedsWithWarning(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &sms.SendError{Kind: sms.FailurePendingCompliance, Code: 30034})

	svc := newService(repo, gw)
	out, err := svc.Subscribe(context.Background(), "5551234567")

	require.NoError(t, err)
	assert.NotEmpty(t, out.Warning)
}

func TestSubscribe_QueuedWithComplianceCode_SucceedsWithWarning(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(&sms.Result{
			MessageID: "SM2", Status: sms.StatusQueued,
			ErrorCode: 21610, ErrorMessage: "campaign under review",
		}, nil)

	svc := newService(repo, gw)
	out, err := svc.Subscribe(context.Background(), "5551234567")

	require.NoError(t, err)
	assert.NotEmpty(t, out.Warning)
}

func TestSubscribe_NoGatewayConfigured_StillSucceeds(t *testing.T) {
	repo := &mockSubscriberStore{}
	repo.On("GetByPhoneKey", mock.Anything, "5551234567").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, nil)
	out, err := svc.Subscribe(context.Background(), "5551234567")

	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
}

// --- SendSMS tests ---

func TestSendSMS_InvalidPhone(t *testing.T) {
	svc := newService(&mockSubscriberStore{}, &mockGateway{})
	_, err := svc.SendSMS(context.Background(), "12", "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSendSMS_EmptyMessageFallsBackToWelcome(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, "+15551234567", "welcome!").
		Return(&sms.Result{MessageID: "SM1", Status: sms.StatusDelivered}, nil)

	svc := newService(&mockSubscriberStore{}, gw)
	out, err := svc.SendSMS(context.Background(), "5551234567", "")

	require.NoError(t, err)
	assert.Equal(t, "SMS sent successfully", out.Message)
	gw.AssertExpectations(t)
}

func TestSendSMS_QueuedCarriesDelayWarning(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(&sms.Result{MessageID: "SM1", Status: sms.StatusQueued}, nil)

	svc := newService(&mockSubscriberStore{}, gw)
	out, err := svc.SendSMS(context.Background(), "5551234567", "hi")

	require.NoError(t, err)
	assert.Equal(t, "SMS queued successfully", out.Message)
	assert.NotEmpty(t, out.Warning)
}

func TestSendSMS_ResultErrorCodeSurfacesClassifiedError(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(&sms.Result{
			MessageID: "SM9", Status: sms.StatusFailed,
			ErrorCode: 21211, ErrorMessage: "invalid to",
		}, nil)

	svc := newService(&mockSubscriberStore{}, gw)
	_, err := svc.SendSMS(context.Background(), "5551234567", "hi")

	var se *sms.SendError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, sms.FailureInvalidRecipient, se.Kind)
	assert.Equal(t, "SM9", se.MessageID)
}

func TestSendSMS_UnknownStatusReportsProcessed(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(&sms.Result{MessageID: "SM1", Status: "accepted"}, nil)

	svc := newService(&mockSubscriberStore{}, gw)
	out, err := svc.SendSMS(context.Background(), "5551234567", "hi")

	require.NoError(t, err)
	assert.Equal(t, "SMS processed", out.Message)
	assert.Contains(t, out.Warning, "accepted")
}
