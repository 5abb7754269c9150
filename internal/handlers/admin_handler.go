package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/authz"
	"wavemedia/internal/repositories"
)

type AdminHandler struct {
	users  repositories.UserRepository
	news   *repositories.NewsRepository
	orders *repositories.OrderRepository
}

func NewAdminHandler(users repositories.UserRepository, news *repositories.NewsRepository, orders *repositories.OrderRepository) *AdminHandler {
	return &AdminHandler{users: users, news: news, orders: orders}
}

// Stats feeds the dashboard summary cards.
func (h *AdminHandler) Stats(c *gin.Context) {
	userCount, err := h.users.Count()
	if err != nil {
		log.Errorf("[admin][stats] users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	managerCount, _ := h.users.CountByRole(authz.RoleManager)
	adminCount, _ := h.users.CountByRole(authz.RoleAdmin)
	newsCount, _ := h.news.Count()
	orderCount, _ := h.orders.Count()

	c.JSON(http.StatusOK, gin.H{
		"users":    userCount,
		"managers": managerCount,
		"admins":   adminCount,
		"news":     newsCount,
		"orders":   orderCount,
	})
}
