package publishers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/amiibo-connect/internal/domain"
	"github.com/samvad-hq/amiibo-connect/internal/logger"
)

var mario = domain.Amiibo{Name: "Mario", Character: "Mario", Head: "00000000", Tail: "00000002"}

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-456")}, nil
}

func TestSQSPublisherSendsEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", queueURL: "https://example.com/queue", client: client, log: &logger.NopLogger{}}

	if err := pub.Publish(context.Background(), NewEvent("api", mario)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["amiibo_id"]
	if !ok || aws.ToString(attr.StringValue) != "0000000000000002" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("amiibo_id attribute missing or wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"character":"Mario"`) {
		t.Fatalf("MessageBody missing character: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{id: "queue", client: &fakeSQSClient{err: errors.New("boom")}, log: &logger.NopLogger{}}
	if err := pub.Publish(context.Background(), NewEvent("api", mario)); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSNSPublisherSendsEvent(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "topic", topicARN: "arn:aws:sns:::amiibo", client: client, log: &logger.NopLogger{}}

	if err := pub.Publish(context.Background(), NewEvent("api", mario)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::amiibo" {
		t.Fatalf("TopicArn = %s", got)
	}
	if attr := client.input.MessageAttributes["character"]; aws.ToString(attr.StringValue) != "Mario" {
		t.Fatalf("character attribute wrong: %#v", attr)
	}
}

func TestSNSPublisherSendError(t *testing.T) {
	pub := &snsPublisher{id: "topic", client: &fakeSNSClient{err: errors.New("boom")}, log: &logger.NopLogger{}}
	if err := pub.Publish(context.Background(), NewEvent("api", mario)); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestStdoutPublisherPrintsCharacter(t *testing.T) {
	var buf bytes.Buffer
	pub := &stdoutPublisher{id: "console", out: &buf}

	for _, name := range []string{"Mario", "Link"} {
		if err := pub.Publish(context.Background(), Event{Amiibo: domain.Amiibo{Character: name}}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if buf.String() != "Mario\nLink\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPubSubPublisherPublishes(t *testing.T) {
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	admin, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "amiibo"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:     "topic",
		Type:   TypePubSub,
		PubSub: &PubSubPublisherConfig{ProjectID: "test-project", Topic: "amiibo"},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubPublisher: %v", err)
	}
	defer pub.(closer).Close()

	if err := pub.Publish(ctx, NewEvent("api", mario)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes["amiibo_id"] != "0000000000000002" {
		t.Fatalf("unexpected attributes %#v", msgs[0].Attributes)
	}
}
