package aws

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{}, f.err
}

func TestSNSClient_Publish(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{client: fake}

	err := c.Publish(context.Background(), "arn:aws:sns:us-east-1:000000000000:order-events", []byte(`{"a":1}`))
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, `{"a":1}`, *fake.inputs[0].Message)
}

func TestSNSClient_Publish_EmptyTopic(t *testing.T) {
	c := &SNSClient{client: &fakeSNS{}}
	assert.Error(t, c.Publish(context.Background(), "", []byte("x")))
}

func TestSNSClient_Publish_WrapsError(t *testing.T) {
	cause := errors.New("throttled")
	c := &SNSClient{client: &fakeSNS{err: cause}}
	err := c.Publish(context.Background(), "arn:topic", []byte("x"))
	assert.ErrorIs(t, err, cause)
}

type fakeSecrets struct {
	calls  int
	values map[string]string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	v, ok := f.values[*in.SecretId]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: sdkaws.String(v)}, nil
}

func TestSecretsClient_GetSecret_Caches(t *testing.T) {
	fake := &fakeSecrets{values: map[string]string{"sweetshop/JWT_SECRET": "s3cr3t"}}
	c := &SecretsClient{client: fake, cache: map[string]string{}}

	v, err := c.GetSecret(context.Background(), "sweetshop/JWT_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", v)

	_, _ = c.GetSecret(context.Background(), "sweetshop/JWT_SECRET")
	assert.Equal(t, 1, fake.calls)

	_, err = c.GetSecret(context.Background(), "missing")
	assert.Error(t, err)
}

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetricsClient_DisabledSendsNothing(t *testing.T) {
	fake := &fakeCloudWatch{}
	m := &MetricsClient{client: fake, namespace: "SweetShop", enabled: false}

	assert.NoError(t, m.RecordCount(context.Background(), MetricOrdersCreated, nil))
	assert.Empty(t, fake.inputs)
}

func TestMetricsClient_RecordCount(t *testing.T) {
	fake := &fakeCloudWatch{}
	m := &MetricsClient{client: fake, namespace: "SweetShop", enabled: true}

	err := m.RecordCount(context.Background(), MetricOrdersCreated, map[string]string{"Service": "sweet-shop"})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "SweetShop", *fake.inputs[0].Namespace)
	assert.Equal(t, MetricOrdersCreated, *fake.inputs[0].MetricData[0].MetricName)
}

func TestMetricsClient_NilIsSafe(t *testing.T) {
	var m *MetricsClient
	assert.False(t, m.IsEnabled())
	assert.NoError(t, m.RecordCount(context.Background(), MetricOrdersCreated, nil))
}

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sqs.SendMessageOutput{}, f.err
}

func TestSQSClient_Publish(t *testing.T) {
	fake := &fakeSQS{}
	c := &SQSClient{client: fake}

	require.NoError(t, c.Publish(context.Background(), "http://localhost:4566/000000000000/order-events", []byte(`{"b":2}`)))
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, `{"b":2}`, *fake.inputs[0].MessageBody)
	assert.Equal(t, "http://localhost:4566/000000000000/order-events", *fake.inputs[0].QueueUrl)

	assert.Error(t, c.Publish(context.Background(), "", []byte("x")))
}

func TestSQSClient_Publish_WrapsError(t *testing.T) {
	cause := errors.New("queue does not exist")
	c := &SQSClient{client: &fakeSQS{err: cause}}
	assert.ErrorIs(t, c.Publish(context.Background(), "q", []byte("x")), cause)
}

type fakeLogs struct {
	groupErr error
	streams  []string
	batches  [][]cwltypes.InputLogEvent
}

func (f *fakeLogs) CreateLogGroup(context.Context, *cloudwatchlogs.CreateLogGroupInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	return &cloudwatchlogs.CreateLogGroupOutput{}, f.groupErr
}

func (f *fakeLogs) PutRetentionPolicy(context.Context, *cloudwatchlogs.PutRetentionPolicyInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
}

func (f *fakeLogs) CreateLogStream(_ context.Context, in *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.streams = append(f.streams, *in.LogStreamName)
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeLogs) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.batches = append(f.batches, in.LogEvents)
	return &cloudwatchlogs.PutLogEventsOutput{}, nil
}

func TestCloudWatchLogsWriter_SetupToleratesExistingGroup(t *testing.T) {
	fake := &fakeLogs{groupErr: &cwltypes.ResourceAlreadyExistsException{}}
	w := &CloudWatchLogsWriter{client: fake, logGroupName: "/sweetshop", logStreamName: "sweet-shop-1"}

	require.NoError(t, w.setup(context.Background()))
	assert.Equal(t, []string{"sweet-shop-1"}, fake.streams)
}

func TestCloudWatchLogsWriter_SetupFails(t *testing.T) {
	fake := &fakeLogs{groupErr: errors.New("access denied")}
	w := &CloudWatchLogsWriter{client: fake, logGroupName: "/sweetshop", logStreamName: "s"}

	assert.Error(t, w.setup(context.Background()))
	assert.Empty(t, fake.streams)
}

func TestCloudWatchLogsWriter_BuffersUntilSync(t *testing.T) {
	fake := &fakeLogs{}
	w := &CloudWatchLogsWriter{client: fake, logGroupName: "/sweetshop", logStreamName: "s"}

	_, err := w.Write([]byte(`{"msg":"one"}`))
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"msg":"two"}`))
	require.NoError(t, err)
	assert.Empty(t, fake.batches)

	require.NoError(t, w.Sync())
	require.Len(t, fake.batches, 1)
	assert.Len(t, fake.batches[0], 2)
	assert.Equal(t, `{"msg":"one"}`, *fake.batches[0][0].Message)

	require.NoError(t, w.Sync())
	assert.Len(t, fake.batches, 1)
}

func TestCloudWatchLogsWriter_FlushesFullBatch(t *testing.T) {
	fake := &fakeLogs{}
	w := &CloudWatchLogsWriter{client: fake, logGroupName: "/sweetshop", logStreamName: "s"}

	for i := 0; i < maxLogBatch; i++ {
		_, _ = w.Write([]byte("line"))
	}

	require.Len(t, fake.batches, 1)
	assert.Len(t, fake.batches[0], maxLogBatch)
}
