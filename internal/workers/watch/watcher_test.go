package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sentimental/internal/adapters/kafka"
	"sentimental/internal/services/analysis"
	"sentimental/internal/workers"
	"sentimental/pkg/errors"
)

// MockAnalyzer is a mock for Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Report), args.Error(1)
}

func (m *MockAnalyzer) Defaults() analysis.Defaults {
	args := m.Called()
	return args.Get(0).(analysis.Defaults)
}

// MockPublisher is a mock for Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, key string, event interface{}) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}

func newMockAnalyzer() *MockAnalyzer {
	m := &MockAnalyzer{}
	m.On("Defaults").Return(analysis.Defaults{UseRealData: true}).Maybe()
	return m
}

func watchRequest(query string) analysis.Request {
	return analysis.Request{Query: query, UseRealData: true}
}

func analyzedQueries(m *MockAnalyzer) []string {
	var out []string
	for _, call := range m.Calls {
		if call.Method == "Analyze" {
			out = append(out, call.Arguments.Get(1).(analysis.Request).Query)
		}
	}
	return out
}

func TestNew_CleansQueries(t *testing.T) {
	w := New(newMockAnalyzer(), nil, kafka.TopicSentimentReports, []string{" golang ", "", "Golang", "rust"}, time.Minute, true)

	assert.Equal(t, []string{"golang", "rust"}, w.Queries())
	assert.Equal(t, "sentiment_watch", w.Name())
	assert.Equal(t, time.Minute, w.Interval())
	assert.True(t, w.Enabled())
}

func TestRun_PublishesEachReport(t *testing.T) {
	golang := &analysis.Report{Query: "golang", TotalItems: 5}
	rust := &analysis.Report{Query: "rust", TotalItems: 5}

	an := newMockAnalyzer()
	an.On("Analyze", mock.Anything, watchRequest("golang")).Return(golang, nil).Once()
	an.On("Analyze", mock.Anything, watchRequest("rust")).Return(rust, nil).Once()

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, "sentiment.reports", "golang", golang).Return(nil).Once()
	pub.On("Publish", mock.Anything, "sentiment.reports", "rust", rust).Return(nil).Once()

	w := New(an, pub, kafka.TopicSentimentReports, []string{"golang", "rust"}, time.Minute, true)
	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, []string{"golang", "rust"}, analyzedQueries(an))
	an.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestRun_NoDataIsSkipped(t *testing.T) {
	report := &analysis.Report{Query: "golang"}

	an := newMockAnalyzer()
	an.On("Analyze", mock.Anything, watchRequest("obscure")).Return(nil, errors.ErrNoDataFound).Once()
	an.On("Analyze", mock.Anything, watchRequest("golang")).Return(report, nil).Once()

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, "t", "golang", report).Return(nil).Once()

	w := New(an, pub, "t", []string{"obscure", "golang"}, time.Minute, true)
	require.NoError(t, w.Run(context.Background()))

	an.AssertExpectations(t)
	pub.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, "t", "obscure", mock.Anything)
}

func TestRun_FailuresAreCollected(t *testing.T) {
	report := &analysis.Report{Query: "golang"}

	an := newMockAnalyzer()
	an.On("Analyze", mock.Anything, watchRequest("broken")).Return(nil, errors.ErrInternal).Once()
	an.On("Analyze", mock.Anything, watchRequest("golang")).Return(report, nil).Once()

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, "t", "golang", report).Return(nil).Once()

	w := New(an, pub, "t", []string{"broken", "golang"}, time.Minute, true)

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInternal)
	pub.AssertExpectations(t)
}

func TestRun_PublishError(t *testing.T) {
	an := newMockAnalyzer()
	an.On("Analyze", mock.Anything, watchRequest("golang")).Return(&analysis.Report{Query: "golang"}, nil).Once()

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, "t", "golang", mock.Anything).Return(errors.New("broker unreachable")).Once()

	w := New(an, pub, "t", []string{"golang"}, time.Minute, true)

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unreachable")
	pub.AssertExpectations(t)
}

func TestRun_WithoutPublisher(t *testing.T) {
	an := newMockAnalyzer()
	an.On("Analyze", mock.Anything, watchRequest("golang")).Return(&analysis.Report{Query: "golang"}, nil).Once()

	w := New(an, nil, "t", []string{"golang"}, time.Minute, true)

	require.NoError(t, w.Run(context.Background()))
	an.AssertExpectations(t)
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	an := newMockAnalyzer()
	pub := &MockPublisher{}
	w := New(an, pub, "t", []string{"a", "b"}, time.Minute, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	an.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorker_UnderScheduler(t *testing.T) {
	report := &analysis.Report{Query: "golang", TotalItems: 5}
	published := make(chan struct{}, 1)

	an := newMockAnalyzer()
	an.On("Analyze", mock.Anything, watchRequest("golang")).Return(report, nil)

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, kafka.TopicSentimentReports, "golang", report).
		Run(func(mock.Arguments) {
			select {
			case published <- struct{}{}:
			default:
			}
		}).
		Return(nil)

	w := New(an, pub, kafka.TopicSentimentReports, []string{"golang"}, time.Hour, true)
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(w)

	require.NoError(t, scheduler.Start(context.Background()))
	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("watch cycle did not publish on scheduler start")
	}
	require.Eventually(t, func() bool { return w.Health().RunCount == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, scheduler.Stop())

	h := w.Health()
	assert.Zero(t, h.ErrorCount)
	assert.NoError(t, h.LastError)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestWorker_SchedulerRecordsFailedCycle(t *testing.T) {
	an := newMockAnalyzer()
	an.On("Analyze", mock.Anything, watchRequest("golang")).Return(nil, errors.ErrInternal)

	w := New(an, nil, "t", []string{"golang"}, time.Hour, true)
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(w)

	require.NoError(t, scheduler.Start(context.Background()))
	require.Eventually(t, func() bool { return w.Health().ErrorCount == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.ErrorIs(t, w.Health().LastError, errors.ErrInternal)
}
