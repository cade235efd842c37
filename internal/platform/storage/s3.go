// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// # S3-Compatible Object Store

// S3Store implements [ObjectStore] against any S3-compatible endpoint.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// S3Options holds the connection settings for an [S3Store].
type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// NewS3Store constructs an S3-backed object store.
//
// # Endpoint Handling
//
// When Endpoint is set (Cloudflare R2, MinIO), the client is pointed at it
// with path-style addressing; otherwise the default AWS resolution applies.
func NewS3Store(ctx context.Context, opts S3Options, logger *slog.Logger) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("object storage configured",
		slog.String("bucket", opts.Bucket),
		slog.String("endpoint", opts.Endpoint),
	)

	return &S3Store{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

/*
Put writes an object and returns its public URL.

Description: Uses a plain PutObject call; page rasters stay well under the
multipart threshold, and issue PDFs are bounded by the intake size ceiling.

Parameters:
  - context: context.Context
  - key: string
  - data: []byte
  - contentType: string

Returns:
  - string: Public URL under the configured CDN base
  - error: Wrapped S3 errors
*/
func (store *S3Store) Put(context context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := store.client.PutObject(context, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to put object %q: %w", key, err)
	}

	return store.PublicURL(key), nil
}

/*
Get reads an object's full contents.

Description: Used by on-demand flows that re-read a stored master, such as
derivative generation and clip-asset rendering.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - []byte: The object payload
  - error: Wrapped S3 errors, including missing keys
*/
func (store *S3Store) Get(context context.Context, key string) ([]byte, error) {
	output, err := store.client.GetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to get object %q: %w", key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to read object %q: %w", key, err)
	}

	return data, nil
}

/*
Delete removes an object by key.

Description: S3 DeleteObject is idempotent — deleting a missing key succeeds,
which matches the best-effort cleanup semantics of the ingestion flow.
*/
func (store *S3Store) Delete(context context.Context, key string) error {
	_, err := store.client.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: failed to delete object %q: %w", key, err)
	}

	return nil
}

// PublicURL maps an object key to its CDN-facing URL.
func (store *S3Store) PublicURL(key string) string {
	return store.publicBaseURL + "/" + key
}
