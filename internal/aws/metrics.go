package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Recorder emits counter metrics to CloudWatch under a single namespace.
// Emission is best-effort; callers log failures and move on.
type Recorder struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewRecorder returns a Recorder bound to a metric namespace.
func NewRecorder(client CloudWatchAPI, namespace string) *Recorder {
	return &Recorder{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count publishes a single count datapoint with optional dimensions.
func (r *Recorder) Count(ctx context.Context, name string, value float64, dimensions map[string]string) error {
	now := r.nowFunc()

	datum := cwtypes.MetricDatum{
		MetricName: &name,
		Value:      &value,
		Timestamp:  &now,
		Unit:       cwtypes.StandardUnitCount,
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  awsString(k),
			Value: awsString(v),
		})
	}

	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &r.namespace,
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
