package blobstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMinio(t *testing.T, h http.HandlerFunc) *MinioStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return &MinioStore{client: client, bucket: "car-models"}
}

const listResult = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>car-models</Name><Prefix></Prefix><KeyCount>2</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>
<Contents><Key>a.png</Key><Size>3</Size></Contents>
<Contents><Key>b.png</Key><Size>3</Size></Contents>
</ListBucketResult>`

const accessDenied = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied</Message><BucketName>car-models</BucketName><RequestId>1</RequestId></Error>`

func TestMinioList(t *testing.T) {
	s := newTestMinio(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(listResult))
	})

	keys, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, keys)
}

func TestMinioListError(t *testing.T) {
	s := newTestMinio(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(accessDenied))
	})

	parent, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.List(parent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list objects")
	assert.NoError(t, parent.Err(), "List must return without waiting on the caller's context")
}
