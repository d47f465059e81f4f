package handler

import (
	"context"
	"fmt"
	"sync"

	"github.com/kursadbilgin/logurl/internal/domain"
	infraredis "github.com/kursadbilgin/logurl/internal/infra/redis"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]*infraredis.Object
	putErr  error
	pingErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]*infraredis.Object)}
}

func (s *fakeStore) Put(ctx context.Context, path string, body []byte, contentType string) (bool, error) {
	if s.putErr != nil {
		return false, s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.objects[path]
	s.objects[path] = &infraredis.Object{Path: path, Body: append([]byte(nil), body...), ContentType: contentType}
	return !existed, nil
}

func (s *fakeStore) Get(ctx context.Context, path string) (*infraredis.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: object %q", domain.ErrNotFound, path)
	}
	return obj, nil
}

func (s *fakeStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[path]; !ok {
		return fmt.Errorf("%w: object %q", domain.ErrNotFound, path)
	}
	delete(s.objects, path)
	return nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }

type notifyCall struct {
	ctx   context.Context
	event domain.TriggerEvent
	cfg   domain.NotifierConfig
}

type fakeNotifier struct {
	mu      sync.Mutex
	calls   []notifyCall
	outcome domain.Outcome
}

func (n *fakeNotifier) Notify(ctx context.Context, event domain.TriggerEvent, cfg domain.NotifierConfig) domain.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{ctx: ctx, event: event, cfg: cfg})
	return n.outcome
}

func (n *fakeNotifier) recorded() []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifyCall(nil), n.calls...)
}

type staticScopes domain.NotifierConfig

func (s staticScopes) Resolve(path string) domain.NotifierConfig { return domain.NotifierConfig(s) }
