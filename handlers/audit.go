package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

// GetAudit retourne le journal d'audit en lecture seule, les entrées les plus
// récentes d'abord. Le journal n'expose aucune opération d'écriture : les
// entrées sont ajoutées par les autres handlers et par la passe périodique.
func GetAudit(c *gin.Context) {
	db := database.GetDB()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	action := c.Query("action")
	utilisateur := c.Query("utilisateur")

	query := db.Model(&models.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if utilisateur != "" {
		query = query.Where("utilisateur = ?", utilisateur)
	}

	var entrees []models.AuditLog
	if err := query.Order("timestamp DESC").Limit(limit).Find(&entrees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entrees)
}
