package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndDelete(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewLocal(root, "/uploads")
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "documents/abc.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/documents/abc.pdf", path)

	data, err := os.ReadFile(filepath.Join(root, "documents", "abc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Delete(context.Background(), path))
	_, err = os.Stat(filepath.Join(root, "documents", "abc.pdf"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), path))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	t.Parallel()

	store, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "documents/../../x", "a//b"} {
		_, err := store.Save(context.Background(), key, strings.NewReader("x"), "")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
	assert.ErrorIs(t, store.Delete(context.Background(), "/uploads/../secret"), ErrInvalidKey)
}

func TestLocal_DoesNotOverwrite(t *testing.T) {
	t.Parallel()

	store, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "images/a.png", strings.NewReader("1"), "image/png")
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "images/a.png", strings.NewReader("2"), "image/png")
	assert.Error(t, err)
}

type fakeS3 struct {
	putKey      string
	putType     string
	putBody     string
	deletedKey  string
	errToReturn error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.errToReturn != nil {
		return nil, f.errToReturn
	}
	f.putKey = aws.ToString(in.Key)
	f.putType = aws.ToString(in.ContentType)
	b, _ := io.ReadAll(in.Body)
	f.putBody = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.errToReturn != nil {
		return nil, f.errToReturn
	}
	f.deletedKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_SaveAndDelete(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	store := newS3WithClient(fake, "tenders", "https://cdn.example.com")

	url, err := store.Save(context.Background(), "images/x.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/x.png", url)
	assert.Equal(t, "images/x.png", fake.putKey)
	assert.Equal(t, "image/png", fake.putType)
	assert.Equal(t, "png", fake.putBody)

	require.NoError(t, store.Delete(context.Background(), url))
	assert.Equal(t, "images/x.png", fake.deletedKey)
}

func TestS3_PutError(t *testing.T) {
	t.Parallel()

	store := newS3WithClient(&fakeS3{errToReturn: errors.New("access denied")}, "tenders", "https://cdn.example.com")

	_, err := store.Save(context.Background(), "documents/a.pdf", strings.NewReader("x"), "")
	assert.ErrorContains(t, err, "access denied")
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
