package inbox

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/core"
	"github.com/andrelmp/inbox-guardian/internal/guard"
	"github.com/andrelmp/inbox-guardian/internal/metrics"
	"github.com/andrelmp/inbox-guardian/internal/queue"
	"github.com/andrelmp/inbox-guardian/internal/ratelimit"
	"github.com/andrelmp/inbox-guardian/internal/storage/postgres"
)

type stubLookup struct {
	records map[string]core.TenantRecord
}

func (s *stubLookup) GetByPhoneNumber(_ context.Context, number string) (core.TenantRecord, error) {
	record, ok := s.records[number]
	if !ok {
		return core.TenantRecord{}, postgres.ErrTenantNotFound
	}
	return record, nil
}

type capturePublisher struct {
	pushed []*queue.Message
}

func (p *capturePublisher) Push(_ context.Context, msg *queue.Message) error {
	p.pushed = append(p.pushed, msg)
	return nil
}

func newTestService(records map[string]core.TenantRecord, publisher *capturePublisher) *Service {
	collector := metrics.NewCollector(prometheus.NewRegistry())
	chain := guard.NewChain(ratelimit.NewMemoryLimiter(), true, zap.NewNop(), collector)
	return NewService(&stubLookup{records: records}, chain, publisher, zap.NewNop(), collector)
}

func TestReceiveAdmitsAndEnqueues(t *testing.T) {
	publisher := &capturePublisher{}
	service := newTestService(map[string]core.TenantRecord{
		"+15550001111": core.ClientRecord(&core.Client{
			ID:           "client-1",
			PhoneNumber:  "+15550001111",
			Subscription: core.Subscription{Status: core.StatusActive, Tier: core.TierPro},
		}),
	}, publisher)

	result, err := service.Receive(context.Background(), core.InboundMessage{
		To:   "+15550001111",
		From: "+15559990000",
		Body: "what are your hours?",
	})

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	require.Len(t, publisher.pushed, 1)

	msg := publisher.pushed[0]
	assert.Equal(t, "client-1", msg.TenantID)
	assert.Equal(t, "+15559990000", msg.Sender)
	assert.Equal(t, "what are your hours?", msg.Body)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.ReceivedAt.IsZero())
}

func TestReceiveDropsDeniedMessages(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	publisher := &capturePublisher{}
	service := newTestService(map[string]core.TenantRecord{
		"+15550001111": core.ClientRecord(&core.Client{
			ID:           "client-1",
			PhoneNumber:  "+15550001111",
			Subscription: core.Subscription{Status: core.StatusTrial, TrialEndDate: &yesterday},
		}),
	}, publisher)

	result, err := service.Receive(context.Background(), core.InboundMessage{
		To:   "+15550001111",
		From: "+15559990000",
		Body: "hello",
	})

	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, guard.ReasonTrialExpired, result.Reason)
	assert.Empty(t, publisher.pushed, "denied messages are never enqueued")
}

func TestReceiveUnknownInbox(t *testing.T) {
	service := newTestService(map[string]core.TenantRecord{}, &capturePublisher{})

	_, err := service.Receive(context.Background(), core.InboundMessage{
		To:   "+15550009999",
		From: "+15559990000",
	})

	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestReceiveWorkspaceInbox(t *testing.T) {
	publisher := &capturePublisher{}
	service := newTestService(map[string]core.TenantRecord{
		"+15550002222": core.WorkspaceRecord(&core.Workspace{
			ID:           "ws-1",
			Name:         "Dr. Lima Dental",
			PhoneNumbers: []string{"+15550002222"},
			Subscription: core.Subscription{Status: core.StatusActive, Tier: core.TierStarter},
		}),
	}, publisher)

	result, err := service.Receive(context.Background(), core.InboundMessage{
		To:   "+15550002222",
		From: "+15559990000",
		Body: "hi",
	})

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	require.Len(t, publisher.pushed, 1)
	assert.Equal(t, "ws-1", publisher.pushed[0].TenantID)
}
