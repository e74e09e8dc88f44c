/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package leaderboard

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Store persists the results file as a single gzip-compressed JSON object
// in Amazon S3.
type S3Store struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client the store should use. By default this is
	// initialized in Init() with the default Config, but callers can
	// optionally override this with their own s3 client if desired.
	Client *s3.Client

	bucketName string
	objectKey  string
}

// NewS3Store returns a store backed by the named bucket and object key.
// Callers should take care to invoke Init() on the returned store before
// use.
func NewS3Store(bucketNameIn string, objectKeyIn string) *S3Store {
	return &S3Store{
		bucketName: bucketNameIn,
		objectKey:  objectKeyIn,
	}
}

// The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// To use different credentials, modify the returned store's Config and
// Client fields.
func (st *S3Store) Init(ctx context.Context) error {
	var err error
	st.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	st.Client = s3.NewFromConfig(st.Config)

	// Permission check: verify bucket exists and is accessible
	if _, err = st.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(st.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w",
			st.bucketName, err)
	}

	return nil
}

// Load fetches and decodes the results object. A missing object reads as an
// empty board rather than an error.
func (st *S3Store) Load(ctx context.Context) ([]Entry, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(st.bucketName),
		Key:    aws.String(st.objectKey),
	}

	resp, err := st.Client.GetObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		// no such key just indicates a board with no entries yet
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("s3store.load: failed to get object %v/%v: %w",
			st.bucketName, st.objectKey, err)
	}
	defer resp.Body.Close()

	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("s3store.load: failed to open compressed object %v/%v: %w",
			st.bucketName, st.objectKey, err)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("s3store.load: failed to read object %v/%v: %w",
			st.bucketName, st.objectKey, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("s3store.load: failed to parse object %v/%v: %w",
			st.bucketName, st.objectKey, err)
	}

	return entries, nil
}

// Save encodes, compresses, and puts the full set of entries.
func (st *S3Store) Save(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("s3store.save: failed to marshal entries: %w", err)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return fmt.Errorf("s3store.save: failed to gzip entries: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("s3store.save: failed to close gzip writer: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:          aws.String(st.bucketName),
		Key:             aws.String(st.objectKey),
		Body:            &buf,
		ContentEncoding: aws.String("gzip"),
	}
	if _, err := st.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3store.save: put failed for %v/%v: %w",
			st.bucketName, st.objectKey, err)
	}

	return nil
}
