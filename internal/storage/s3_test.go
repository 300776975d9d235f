package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type stubS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	putErr  error
	presign *s3.GetObjectInput
	expires time.Duration
}

func (s *stubS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.put = params
	s.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, s.putErr
}

func (s *stubS3) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	s.presign = params
	var o s3.PresignOptions
	for _, fn := range optFns {
		fn(&o)
	}
	s.expires = o.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.amazonaws.com/" + *params.Key + "?X-Amz-Signature=abc"}, nil
}

func TestS3StoreUpload(t *testing.T) {
	stub := &stubS3{}
	store := newS3Store(stub, stub, S3Options{Bucket: "kitchens", Prefix: "/uploads/", URLTTL: 10 * time.Minute})

	url, err := store.Upload(context.Background(), "kitchen.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	key := *stub.put.Key
	if !strings.HasPrefix(key, "uploads/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key: %s", key)
	}
	if *stub.put.Bucket != "kitchens" || *stub.put.ContentType != "image/png" || string(stub.body) != "png-bytes" {
		t.Fatalf("unexpected put: %+v", stub.put)
	}
	if *stub.presign.Key != key || stub.expires != 10*time.Minute {
		t.Fatalf("presign key=%s expires=%s", *stub.presign.Key, stub.expires)
	}
	if !strings.Contains(url, key) {
		t.Fatalf("url %q does not reference %q", url, key)
	}
}

func TestS3StorePutError(t *testing.T) {
	stub := &stubS3{putErr: errors.New("access denied")}
	store := newS3Store(stub, stub, S3Options{Bucket: "kitchens"})
	if _, err := store.Upload(context.Background(), "k.jpg", []byte("x"), "image/jpeg"); err == nil {
		t.Fatalf("expected error")
	}
	if stub.presign != nil {
		t.Fatalf("must not presign after a failed put")
	}
}

func TestOpenS3StoreRequiresBucket(t *testing.T) {
	if _, err := OpenS3Store(context.Background(), S3Options{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
