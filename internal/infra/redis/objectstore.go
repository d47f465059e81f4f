package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/logurl/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "object:"

// putScript stores the object and reports whether the key existed before.
var putScript = goredis.NewScript(`
local existed = redis.call("EXISTS", KEYS[1])
redis.call("HSET", KEYS[1], "body", ARGV[1], "content_type", ARGV[2], "updated_at", ARGV[3])
return existed
`)

// Object is a stored upload.
type Object struct {
	Path        string
	Body        []byte
	ContentType string
	UpdatedAt   time.Time
}

// ObjectStore keeps uploaded objects keyed by request path.
type ObjectStore struct {
	client *goredis.Client
	now    func() time.Time
	script *goredis.Script
}

func NewObjectStore(client *goredis.Client) (*ObjectStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &ObjectStore{
		client: client,
		now:    time.Now,
		script: putScript,
	}, nil
}

// Put stores body under path. created is false when an existing object was replaced.
func (s *ObjectStore) Put(ctx context.Context, path string, body []byte, contentType string) (bool, error) {
	key, err := objectKey(path)
	if err != nil {
		return false, err
	}

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	existed, err := s.script.Run(ctx, s.client, []string{key}, body, contentType, updatedAt).Int()
	if err != nil {
		return false, fmt.Errorf("failed to store object %q: %w", path, err)
	}

	return existed == 0, nil
}

func (s *ObjectStore) Get(ctx context.Context, path string) (*Object, error) {
	key, err := objectKey(path)
	if err != nil {
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load object %q: %w", path, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: object %q", domain.ErrNotFound, path)
	}

	obj := &Object{
		Path:        path,
		Body:        []byte(fields["body"]),
		ContentType: fields["content_type"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		obj.UpdatedAt = ts
	}
	return obj, nil
}

func (s *ObjectStore) Delete(ctx context.Context, path string) error {
	key, err := objectKey(path)
	if err != nil {
		return err
	}

	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", path, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: object %q", domain.ErrNotFound, path)
	}
	return nil
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func objectKey(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "/" {
		return "", fmt.Errorf("%w: object path is required", domain.ErrValidation)
	}
	return keyPrefix + trimmed, nil
}
