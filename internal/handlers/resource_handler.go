package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/repositories"
)

// ResourceHandler is the one CRUD controller every content collection shares.
// Each resource differs only in its model and repository; anything beyond
// plain CRUD lives in a thin wrapper that embeds this.
type ResourceHandler[T any] struct {
	name  string
	store repositories.Store[T]
}

func NewResourceHandler[T any](name string, store repositories.Store[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{name: name, store: store}
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	e := new(T)
	if err := c.ShouldBindJSON(e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.store.Create(e)
	if err != nil {
		log.Errorf("[%s][create] %v", h.name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create " + h.name})
		return
	}
	created, err := h.store.GetByID(id)
	if err != nil {
		log.Errorf("[%s][create] reload id=%d: %v", h.name, id, err)
		c.JSON(http.StatusCreated, gin.H{"id": id})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandler[T]) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	e, err := h.store.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.name + " not found"})
			return
		}
		log.Errorf("[%s][get] id=%d: %v", h.name, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get " + h.name})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if _, err := h.store.GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.name + " not found"})
			return
		}
		log.Errorf("[%s][update] load id=%d: %v", h.name, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + h.name})
		return
	}

	e := new(T)
	if err := c.ShouldBindJSON(e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.Update(id, e); err != nil {
		log.Errorf("[%s][update] id=%d: %v", h.name, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + h.name})
		return
	}
	updated, err := h.store.GetByID(id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": h.name + " updated"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := h.store.Delete(id); err != nil {
		log.Errorf("[%s][delete] id=%d: %v", h.name, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete " + h.name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.name + " deleted"})
}

func (h *ResourceHandler[T]) List(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.store.List(limit, offset)
	if err != nil {
		log.Errorf("[%s][list] %v", h.name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list " + h.name})
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}
