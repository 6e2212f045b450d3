package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	appconfig "govportal/internal/common/config"
	"govportal/internal/common/logger"
	"govportal/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func testUser() *models.User {
	return &models.User{
		ID:    7,
		Name:  "Nimal Perera",
		Email: "nimal@example.com",
		Phone: "+94771234567",
	}
}

func testApplication() *models.Application {
	return &models.Application{
		ID:              42,
		ReferenceNumber: "GB1756468800000AAAAA",
		Status:          models.StatusPending,
		ServiceName:     "NIC Renewal",
		CreatedAt:       time.Now(),
	}
}

func newTestNotifier(sesClient SESService, snsClient SNSService) *Notifier {
	return &Notifier{
		cfg: appconfig.NotificationsConfig{
			Email: appconfig.EmailConfig{Enabled: true, FromEmail: "noreply@portal.gov.lk"},
			SMS:   appconfig.SMSConfig{Enabled: true, SenderID: "GOVPORTAL"},
		},
		ses:    sesClient,
		sns:    snsClient,
		logger: logger.NewNoOpLogger(),
	}
}

// ==========================
// Confirmation Tests
// ==========================

func TestApplicationSubmitted_SendsBothChannels(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := newTestNotifier(sesMock, snsMock)

	n.ApplicationSubmitted(context.Background(), testUser(), testApplication())

	require.Len(t, sesMock.inputs, 1)
	assert.Equal(t, "noreply@portal.gov.lk", *sesMock.inputs[0].Source)
	assert.Contains(t, *sesMock.inputs[0].Message.Subject.Data, "GB1756468800000AAAAA")

	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "+94771234567", *snsMock.inputs[0].PhoneNumber)
	assert.Contains(t, *snsMock.inputs[0].Message, "GB1756468800000AAAAA")
}

func TestApplicationSubmitted_SkipsMissingContactDetails(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := newTestNotifier(sesMock, snsMock)

	user := testUser()
	user.Email = ""
	user.Phone = ""
	n.ApplicationSubmitted(context.Background(), user, testApplication())

	assert.Empty(t, sesMock.inputs)
	assert.Empty(t, snsMock.inputs)
}

func TestApplicationSubmitted_FailuresSwallowed(t *testing.T) {
	sesMock := &mockSES{err: errors.New("ses unavailable")}
	snsMock := &mockSNS{err: errors.New("sns unavailable")}
	n := newTestNotifier(sesMock, snsMock)

	// Must not panic or propagate anything.
	n.ApplicationSubmitted(context.Background(), testUser(), testApplication())
}

func TestComplaintFiled(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := newTestNotifier(sesMock, snsMock)

	n.ComplaintFiled(context.Background(), testUser(), &models.Complaint{
		ID:      11,
		Subject: "Delayed NIC renewal",
		Status:  models.ComplaintOpen,
	})

	require.Len(t, sesMock.inputs, 1)
	assert.Contains(t, *sesMock.inputs[0].Message.Subject.Data, "Delayed NIC renewal")
	require.Len(t, snsMock.inputs, 1)
	assert.Contains(t, *snsMock.inputs[0].Message, "#11")
}

func TestNew_DisabledChannelsNeedNoAWS(t *testing.T) {
	n, err := New(context.Background(), appconfig.NotificationsConfig{}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Nil(t, n.ses)
	assert.Nil(t, n.sns)

	// A fully disabled notifier is a no-op.
	n.ApplicationSubmitted(context.Background(), testUser(), testApplication())
}
