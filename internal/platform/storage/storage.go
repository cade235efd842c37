// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package storage provides the object-storage boundary for issue masters,
page rasters, and derivatives.

Architecture:

  - ObjectStore: The narrow Put/Delete contract the ePaper core depends on.
  - S3Store: The production implementation backed by any S3-compatible
    endpoint (Cloudflare R2, MinIO, AWS S3).

Key layout is owned by the domain layer (see the issue package); this package
never interprets keys — it only writes and deletes them.
*/
package storage

import "context"

// ObjectStore is the contract between the ePaper core and object storage.
//
// # Consistency
//
// Writes and deletes are not transactional with the relational store. The
// ingestion flow tolerates eventual consistency during failure windows by
// using deterministic keys (replaced objects are overwritten in place).
type ObjectStore interface {

	/*
		Put writes an object and returns its public URL.

		Parameters:
		  - context: context.Context
		  - key: string (full object key, deterministic per the domain layout)
		  - data: []byte (object payload)
		  - contentType: string (MIME type stored alongside the object)

		Returns:
		  - string: Publicly reachable URL for the written object
		  - error: Storage write failures
	*/
	Put(context context.Context, key string, data []byte, contentType string) (string, error)

	/*
		Get reads an object's full contents by key.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - []byte: The object payload
		  - error: Storage read failures, including missing keys
	*/
	Get(context context.Context, key string) ([]byte, error)

	/*
		Delete removes an object by key.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Storage delete failures (missing objects are not an error)
	*/
	Delete(context context.Context, key string) error

	/*
		PublicURL returns the public URL an object key resolves to,
		without touching storage.
	*/
	PublicURL(key string) string
}
