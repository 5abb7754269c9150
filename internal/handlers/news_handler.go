package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/models"
	"wavemedia/internal/repositories"
	"wavemedia/internal/services"
)

type NewsHandler struct {
	*ResourceHandler[models.News]
	repo     *repositories.NewsRepository
	notifier services.Notifier
}

func NewNewsHandler(repo *repositories.NewsRepository, notifier services.Notifier) *NewsHandler {
	return &NewsHandler{
		ResourceHandler: NewResourceHandler[models.News]("news", repo),
		repo:            repo,
		notifier:        notifier,
	}
}

// List adds the ?published=true filter the public site uses.
func (h *NewsHandler) List(c *gin.Context) {
	if c.Query("published") != "true" {
		h.ResourceHandler.List(c)
		return
	}
	limit, offset := pagination(c)
	items, err := h.repo.ListPublished(limit, offset)
	if err != nil {
		log.Errorf("[news][list-published] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list news"})
		return
	}
	if items == nil {
		items = []models.News{}
	}
	c.JSON(http.StatusOK, items)
}

// Publish flips the article live and pings the ops channel.
func (h *NewsHandler) Publish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	article, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "news not found"})
			return
		}
		log.Errorf("[news][publish] load id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish news"})
		return
	}
	now := time.Now()
	article.Published = true
	article.PublishedAt = &now
	if err := h.repo.Update(id, article); err != nil {
		log.Errorf("[news][publish] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish news"})
		return
	}
	if h.notifier != nil {
		h.notifier.NewsPublished(article)
	}
	c.JSON(http.StatusOK, article)
}
