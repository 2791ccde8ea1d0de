package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReceiptBucket holds uploaded payment receipts and signed membership
// contracts.
const ReceiptBucket = "clubops-documents"

type MinioService interface {
	UploadReceipt(ctx context.Context, paymentID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	StatReceipt(ctx context.Context, objectName string) error
	GetReceiptURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeleteReceipt(ctx context.Context, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioClient struct {
	client *minio.Client
}

func NewMinioService(endpoint, accessKey, secretKey string, useSSL bool) (MinioService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioClient{client: client}, nil
}

// UploadReceipt stores the document under a per-payment object name and
// returns that name for persisting alongside the payment record.
func (m *minioClient) UploadReceipt(ctx context.Context, paymentID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := fmt.Sprintf("receipts/%s", paymentID.String())
	_, err := m.client.PutObject(ctx, ReceiptBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

// StatReceipt reports whether the object exists. Presigning alone never
// touches the bucket, so callers check here before handing out a URL.
func (m *minioClient) StatReceipt(ctx context.Context, objectName string) error {
	_, err := m.client.StatObject(ctx, ReceiptBucket, objectName, minio.StatObjectOptions{})
	return err
}

func (m *minioClient) GetReceiptURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, ReceiptBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioClient) DeleteReceipt(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, ReceiptBucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioClient) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, ReceiptBucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, ReceiptBucket, minio.MakeBucketOptions{})
	}
	return nil
}
