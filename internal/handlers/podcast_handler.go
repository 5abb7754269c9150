package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/models"
	"wavemedia/internal/repositories"
)

type PodcastHandler struct {
	*ResourceHandler[models.Podcast]
	episodes *repositories.EpisodeRepository
}

func NewPodcastHandler(repo *repositories.PodcastRepository, episodes *repositories.EpisodeRepository) *PodcastHandler {
	return &PodcastHandler{
		ResourceHandler: NewResourceHandler[models.Podcast]("podcast", repo),
		episodes:        episodes,
	}
}

// ListEpisodes returns a podcast's episodes, newest first.
func (h *PodcastHandler) ListEpisodes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	items, err := h.episodes.ListByPodcast(id)
	if err != nil {
		log.Errorf("[podcast][episodes] podcastID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list episodes"})
		return
	}
	if items == nil {
		items = []models.Episode{}
	}
	c.JSON(http.StatusOK, items)
}
