// Package snsnotify fans crisis alerts out to an AWS SNS topic.
package snsnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/couchcryptid/storm-forecast-digest/internal/notify"
)

// SNS subjects are limited to 100 characters.
const maxSubjectLen = 100

// message is the JSON payload published to subscribers.
type message struct {
	ID       string  `json:"id"`
	FeedKey  string  `json:"feed_key"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	IssuedAt string  `json:"issued_at"`
}

// Notifier implements notify.Notifier.
type Notifier struct {
	client   snsiface.SNSAPI
	topicARN string
}

// New creates an SNS client for region publishing to topicARN.
func New(region, topicARN string) (*Notifier, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &Notifier{client: sns.New(sess), topicARN: topicARN}, nil
}

func (n *Notifier) Name() string { return "sns" }

func (n *Notifier) Notify(ctx context.Context, alert notify.Alert) error {
	body, err := json.Marshal(message{
		ID:       alert.ID,
		FeedKey:  alert.FeedKey,
		Title:    alert.Title,
		Body:     alert.Body,
		Lat:      alert.Location.Lat,
		Lon:      alert.Location.Lon,
		IssuedAt: alert.IssuedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal sns message: %w", err)
	}

	subject := alert.Title
	if len(subject) > maxSubjectLen {
		subject = subject[:maxSubjectLen]
	}

	_, err = n.client.PublishWithContext(ctx, &sns.PublishInput{
		Message:  aws.String(string(body)),
		Subject:  aws.String(subject),
		TopicArn: aws.String(n.topicARN),
	})
	if err != nil {
		return fmt.Errorf("sns publish to %s: %w", n.topicARN, err)
	}
	return nil
}
