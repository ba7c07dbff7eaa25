// file: monitoring/cloudwatch.go
package monitoring

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"go-patient-caller/logger"
)

// CloudWatchPublisher pushes state gauges and call outcomes to CloudWatch.
// Observations are queued and sent by Run, so the event loop never waits on AWS.
type CloudWatchPublisher struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	queue     chan []*cloudwatch.MetricDatum
	now       func() time.Time
}

// NewCloudWatchClient builds a client for region from the default AWS credential chain.
func NewCloudWatchClient(region string) (cloudwatchiface.CloudWatchAPI, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return cloudwatch.New(sess), nil
}

// NewCloudWatchPublisher queues up to buffer batches before dropping.
func NewCloudWatchPublisher(client cloudwatchiface.CloudWatchAPI, namespace string, buffer int) *CloudWatchPublisher {
	return &CloudWatchPublisher{
		client:    client,
		namespace: namespace,
		queue:     make(chan []*cloudwatch.MetricDatum, buffer),
		now:       time.Now,
	}
}

// Run sends queued batches until ctx is done.
func (p *CloudWatchPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-p.queue:
			p.put(ctx, data)
		}
	}
}

func (p *CloudWatchPublisher) put(ctx context.Context, data []*cloudwatch.MetricDatum) {
	_, err := p.client.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	})
	if err != nil {
		logger.Error.Printf("[CloudWatchPublisher.put] CloudWatch metric failed (%d datums): %v", len(data), err)
	}
}

func (p *CloudWatchPublisher) enqueue(data ...*cloudwatch.MetricDatum) {
	select {
	case p.queue <- data:
	default:
		logger.Warn.Printf("[CloudWatchPublisher.enqueue] queue full, dropping %d datums", len(data))
	}
}

func (p *CloudWatchPublisher) datum(name string, value float64, unit string, dims ...*cloudwatch.Dimension) *cloudwatch.MetricDatum {
	return &cloudwatch.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: dims,
		Timestamp:  aws.Time(p.now()),
		Value:      aws.Float64(value),
		Unit:       aws.String(unit),
	}
}

// EventHandled is not pushed; per-event counts live in Prometheus.
func (p *CloudWatchPublisher) EventHandled(string, string) {}

func (p *CloudWatchPublisher) CallEnded(outcome string) {
	p.enqueue(p.datum("CallsEnded", 1, cloudwatch.StandardUnitCount, &cloudwatch.Dimension{
		Name:  aws.String("Outcome"),
		Value: aws.String(outcome),
	}))
}

func (p *CloudWatchPublisher) StateChanged(s Snapshot) {
	calling := 0.0
	if s.Calling {
		calling = 1
	}
	p.enqueue(
		p.datum("QueueLength", float64(s.QueueLength), cloudwatch.StandardUnitCount),
		p.datum("ProfessionalsLoggedIn", float64(s.Professionals), cloudwatch.StandardUnitCount),
		p.datum("Connections", float64(s.Connections), cloudwatch.StandardUnitCount),
		p.datum("CallActive", calling, cloudwatch.StandardUnitCount),
	)
}
