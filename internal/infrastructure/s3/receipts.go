package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-orders-api/internal/config"
	"github.com/go-orders-api/internal/domain"
)

// ReceiptArchive stores a JSON receipt per confirmed payment under
// receipts/<order_id>.json. It is an audit trail; the caller decides whether
// an archive failure is fatal.
type ReceiptArchive struct {
	client *s3.Client
	bucket string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(cfg *config.Config) *s3.Client {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic("failed to load AWS config for S3: " + err.Error())
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...)
}

func NewReceiptArchive(client *s3.Client, bucket string) *ReceiptArchive {
	return &ReceiptArchive{client: client, bucket: bucket}
}

type receipt struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Archive writes the receipt for a terminal order.
func (a *ReceiptArchive) Archive(ctx context.Context, o *domain.Order) error {
	body, err := json.Marshal(receipt{
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		Amount:      o.Amount,
		Status:      o.Status,
		ConfirmedAt: o.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	key := fmt.Sprintf("receipts/%s.json", o.OrderID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put receipt %s: %w", key, err)
	}
	return nil
}
