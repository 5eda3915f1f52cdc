package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sahilchouksey/shikshachain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = input
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestUploadDegreePDF(t *testing.T) {
	api := &fakeS3{}
	client := NewSpacesClientWithAPI(api, SpacesConfig{Bucket: "degrees", Region: "blr1"})

	url, err := client.UploadDegreePDF(context.Background(), "abc", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "https://degrees.blr1.digitaloceanspaces.com/degrees/abc.pdf", url)
	assert.Equal(t, "degrees", aws.StringValue(api.input.Bucket))
	assert.Equal(t, "degrees/abc.pdf", aws.StringValue(api.input.Key))
	assert.Equal(t, PDFContentType, aws.StringValue(api.input.ContentType))
	assert.Equal(t, "public-read", aws.StringValue(api.input.ACL))
	assert.Equal(t, []byte("%PDF-1.4"), api.body)
}

func TestUploadPrefersCDN(t *testing.T) {
	client := NewSpacesClientWithAPI(&fakeS3{}, SpacesConfig{
		Bucket: "degrees", Region: "blr1", Endpoint: "https://blr1.digitaloceanspaces.com", CDNURL: "https://cdn.example/",
	})

	url, err := client.UploadDegreePDF(context.Background(), "abc", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/degrees/abc.pdf", url)
}

func TestUploadFailure(t *testing.T) {
	client := NewSpacesClientWithAPI(&fakeS3{err: errors.New("AccessDenied")}, SpacesConfig{Bucket: "b", Region: "r"})

	_, err := client.UploadDegreePDF(context.Background(), "abc", []byte("x"))
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestNewSpacesClientRequiresCredentials(t *testing.T) {
	_, err := NewSpacesClient(SpacesConfig{Region: "blr1"})
	assert.Error(t, err)

	_, err = NewSpacesClient(SpacesConfig{Bucket: "b", Region: "blr1"})
	assert.Error(t, err)

	client, err := NewSpacesClient(ConfigFromEnv(&config.EnvironmentVariable{
		SpacesKey: "k", SpacesSecret: "s", SpacesBucket: "b", SpacesRegion: "blr1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://b.blr1.digitaloceanspaces.com/degrees/x.pdf", client.FileURL(DegreeKey("x")))
}
