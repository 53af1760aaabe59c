package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectAPI keeps objects in a map keyed by object key.
type fakeObjectAPI struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	lastPut *s3.PutObjectInput
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: make(map[string][]byte)}
}

func (f *fakeObjectAPI) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = params
	f.objects[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_GetSet(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	store := newS3StoreWithClient(api, "panel-bucket", "panel-cache/", zerolog.Nop())

	_, found, err := store.Get(ctx, CacheKey("a"))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, CacheKey("a"), []byte(`{"total":3}`)))

	require.NotNil(t, api.lastPut)
	assert.Equal(t, "panel-bucket", aws.ToString(api.lastPut.Bucket))
	assert.Equal(t, "panel-cache/dummy-product-a.json", aws.ToString(api.lastPut.Key))
	assert.Equal(t, "application/json", aws.ToString(api.lastPut.ContentType))

	value, found, err := store.Get(ctx, CacheKey("a"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"total":3}`, string(value))
}

func TestS3Store_Errors(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	api.getErr = errors.New("access denied")
	api.putErr = errors.New("throttled")
	store := newS3StoreWithClient(api, "panel-bucket", "", zerolog.Nop())

	_, found, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "access denied")

	err = store.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
