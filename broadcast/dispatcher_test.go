package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
)

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Publish(ctx context.Context, topic, event string, payload interface{}) error {
	args := m.Called(ctx, topic, event, payload)
	return args.Error(0)
}

type slowBroadcaster struct {
	mu    sync.Mutex
	delay time.Duration
	got   []string
}

func (s *slowBroadcaster) Publish(ctx context.Context, topic, event string, _ interface{}) error {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.Lock()
	s.got = append(s.got, topic+"/"+event)
	s.mu.Unlock()
	return nil
}

func TestDispatcher_CloseDrainsPending(t *testing.T) {
	target := &slowBroadcaster{delay: 20 * time.Millisecond}
	d := NewDispatcher(target, time.Second, logger.NewNop())

	require.NoError(t, d.Publish(context.Background(), TopicAdmin, EventOrderStatusUpdated, nil))
	require.NoError(t, d.Publish(context.Background(), OrderTopic("abc"), EventOrderStatusChanged, nil))

	require.NoError(t, d.Close(context.Background()))
	assert.ElementsMatch(t, []string{
		"admin/order_status_updated",
		"order:abc/order_status_changed",
	}, target.got)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	target := new(mockBroadcaster)
	d := NewDispatcher(target, time.Second, logger.NewNop())
	require.NoError(t, d.Close(context.Background()))

	assert.NoError(t, d.Publish(context.Background(), TopicAdmin, EventNewOrder, nil))
	target.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_TransportErrorIsSwallowed(t *testing.T) {
	target := new(mockBroadcaster)
	target.On("Publish", mock.Anything, TopicAdmin, EventNewOrder, "x").Return(errors.New("down"))

	d := NewDispatcher(target, time.Second, logger.NewNop())
	assert.NoError(t, d.Publish(context.Background(), TopicAdmin, EventNewOrder, "x"))
	require.NoError(t, d.Close(context.Background()))
	target.AssertExpectations(t)
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	target := &slowBroadcaster{delay: time.Second}
	d := NewDispatcher(target, 5*time.Second, logger.NewNop())
	require.NoError(t, d.Publish(context.Background(), TopicAdmin, EventNewOrder, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := new(mockBroadcaster)
	ok.On("Publish", mock.Anything, "t", "e", 1).Return(nil)
	bad := new(mockBroadcaster)
	bad.On("Publish", mock.Anything, "t", "e", 1).Return(errors.New("boom"))

	err := Multi{ok, bad}.Publish(context.Background(), "t", "e", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	ok.AssertExpectations(t)
	bad.AssertExpectations(t)
}

func TestTopicsAndMessage(t *testing.T) {
	assert.Equal(t, "order:42", OrderTopic("42"))
	assert.Equal(t, "franchise:7", FranchiseTopic("7"))

	msg, err := newMessage("admin", EventNewOrder, map[string]string{"orderId": "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.JSONEq(t, `{"orderId":"1"}`, string(msg.Payload))

	_, err = newMessage("admin", EventNewOrder, func() {})
	assert.Error(t, err)
}

func TestRedisChannel(t *testing.T) {
	assert.Equal(t, "krishikart:admin", (&Redis{prefix: "krishikart"}).Channel(TopicAdmin))
	assert.Equal(t, "admin", (&Redis{}).Channel(TopicAdmin))
}
