package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	infraredis "github.com/kursadbilgin/logurl/internal/infra/redis"
)

// ObjectStore is the storage the host server writes uploads to.
type ObjectStore interface {
	Put(ctx context.Context, path string, body []byte, contentType string) (bool, error)
	Get(ctx context.Context, path string) (*infraredis.Object, error)
	Delete(ctx context.Context, path string) error
}

type ObjectHandler struct {
	store ObjectStore
}

func NewObjectHandler(store ObjectStore) (*ObjectHandler, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	return &ObjectHandler{store: store}, nil
}

// RegisterObjectRoutes mounts the catch-all object routes; register them last.
func RegisterObjectRoutes(router fiber.Router, store ObjectStore) error {
	h, err := NewObjectHandler(store)
	if err != nil {
		return err
	}

	router.Put("/*", h.PutObject)
	router.Get("/*", h.GetObject)
	router.Delete("/*", h.DeleteObject)

	return nil
}

func (h *ObjectHandler) PutObject(c *fiber.Ctx) error {
	// c.Body() is only valid for the request lifetime; Put consumes it before returning.
	created, err := h.store.Put(c.UserContext(), c.Path(), c.Body(), c.Get(fiber.HeaderContentType))
	if err != nil {
		return err
	}
	if created {
		return c.SendStatus(fiber.StatusCreated)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *ObjectHandler) GetObject(c *fiber.Ctx) error {
	obj, err := h.store.Get(c.UserContext(), c.Path())
	if err != nil {
		return err
	}
	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	}
	return c.Status(fiber.StatusOK).Send(obj.Body)
}

func (h *ObjectHandler) DeleteObject(c *fiber.Ctx) error {
	if err := h.store.Delete(c.UserContext(), c.Path()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
