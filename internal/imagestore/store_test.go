package imagestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.ReadBytes(ctx, "ada"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, "ada", []byte("png-bytes")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.ReadBytes(ctx, "ada")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Fatalf("unexpected bytes %q", got)
	}
}

func TestLocalStoreRejectsPathEscape(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	for _, name := range []string{"", "..", "../etc", "a/b"} {
		if err := store.Save(context.Background(), name, []byte("x")); err == nil {
			t.Fatalf("expected error for username %q", name)
		}
	}
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewS3StoreWithClient(fake, "faces-bucket")
	ctx := context.Background()

	if _, err := store.ReadBytes(ctx, "ada"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, "ada", []byte("img")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := fake.objects["faces/ada/registered_face.png"]; !ok {
		t.Fatalf("unexpected keys: %v", fake.objects)
	}
	got, err := store.ReadBytes(ctx, "ada")
	if err != nil || string(got) != "img" {
		t.Fatalf("read: %q %v", got, err)
	}
}
