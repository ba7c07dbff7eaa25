// file: monitoring/monitoring_test.go
package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------------- prometheus -------------------

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.EventHandled("call_patient", "ok")
	rec.EventHandled("call_patient", "not_owner")
	rec.EventHandled("call_patient", "ok")
	rec.CallEnded(OutcomeConfirmed)
	rec.StateChanged(Snapshot{QueueLength: 3, Professionals: 2, Connections: 5, Calling: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.events.WithLabelValues("call_patient", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.events.WithLabelValues("call_patient", "not_owner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.callsEnded.WithLabelValues(OutcomeConfirmed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.queueLength))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.professionals))
	assert.Equal(t, 5.0, testutil.ToFloat64(rec.connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.calling))

	rec.StateChanged(Snapshot{})
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.calling))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg)
	rec.StateChanged(Snapshot{QueueLength: 7})

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "patient_caller_queue_length 7")
}

func TestRecorders_FanOut(t *testing.T) {
	a := NewPrometheusRecorder(prometheus.NewRegistry())
	b := NewPrometheusRecorder(prometheus.NewRegistry())
	rs := Recorders{a, b, Nop{}}

	rs.CallEnded(OutcomeAbandoned)
	rs.EventHandled("add_patient", "ok")
	rs.StateChanged(Snapshot{QueueLength: 1})

	for _, r := range []*PrometheusRecorder{a, b} {
		assert.Equal(t, 1.0, testutil.ToFloat64(r.callsEnded.WithLabelValues(OutcomeAbandoned)))
		assert.Equal(t, 1.0, testutil.ToFloat64(r.queueLength))
	}
}

// ------------------- cloudwatch -------------------

type fakeCloudWatch struct {
	cloudwatchiface.CloudWatchAPI
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
	err    error
	got    chan struct{}
}

func (f *fakeCloudWatch) PutMetricDataWithContext(_ aws.Context, in *cloudwatch.PutMetricDataInput, _ ...request.Option) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	f.got <- struct{}{}
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestCloudWatchPublisher_SendsStateAndOutcomes(t *testing.T) {
	fake := &fakeCloudWatch{got: make(chan struct{}, 4)}
	pub := NewCloudWatchPublisher(fake, "PatientCaller", 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pub.Run(ctx)

	pub.StateChanged(Snapshot{QueueLength: 4, Professionals: 1, Connections: 2, Calling: true})
	pub.CallEnded(OutcomeAbandoned)

	for i := 0; i < 2; i++ {
		select {
		case <-fake.got:
		case <-time.After(time.Second):
			t.Fatal("expected PutMetricData call")
		}
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.inputs, 2)
	assert.Equal(t, "PatientCaller", aws.StringValue(fake.inputs[0].Namespace))

	state := fake.inputs[0].MetricData
	require.Len(t, state, 4)
	assert.Equal(t, "QueueLength", aws.StringValue(state[0].MetricName))
	assert.Equal(t, 4.0, aws.Float64Value(state[0].Value))
	assert.Equal(t, 1.0, aws.Float64Value(state[3].Value))

	outcome := fake.inputs[1].MetricData[0]
	assert.Equal(t, "CallsEnded", aws.StringValue(outcome.MetricName))
	assert.Equal(t, OutcomeAbandoned, aws.StringValue(outcome.Dimensions[0].Value))
}

func TestCloudWatchPublisher_DropsWhenQueueFull(t *testing.T) {
	fake := &fakeCloudWatch{got: make(chan struct{}, 1)}
	pub := NewCloudWatchPublisher(fake, "PatientCaller", 1)

	// nothing drains the queue: the second observation must not block
	done := make(chan struct{})
	go func() {
		pub.CallEnded(OutcomeConfirmed)
		pub.CallEnded(OutcomeConfirmed)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
	assert.Len(t, pub.queue, 1)
}

func TestCloudWatchPublisher_ErrorIsLoggedNotFatal(t *testing.T) {
	fake := &fakeCloudWatch{got: make(chan struct{}, 1), err: errors.New("throttled")}
	pub := NewCloudWatchPublisher(fake, "PatientCaller", 1)

	assert.NotPanics(t, func() {
		pub.put(context.Background(), []*cloudwatch.MetricDatum{pub.datum("X", 1, cloudwatch.StandardUnitCount)})
	})
}
