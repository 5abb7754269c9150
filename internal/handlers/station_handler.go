package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/models"
	"wavemedia/internal/repositories"
)

type StationHandler struct {
	*ResourceHandler[models.Station]
	schedule *repositories.ScheduleRepository
}

func NewStationHandler(repo *repositories.StationRepository, schedule *repositories.ScheduleRepository) *StationHandler {
	return &StationHandler{
		ResourceHandler: NewResourceHandler[models.Station]("station", repo),
		schedule:        schedule,
	}
}

// Schedule returns the station's weekly grid ordered by weekday and start.
func (h *StationHandler) Schedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	entries, err := h.schedule.ListByStation(id)
	if err != nil {
		log.Errorf("[station][schedule] stationID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedule"})
		return
	}
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
