package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

// MissionRequest est le corps de création d'une mission.
type MissionRequest struct {
	AgentID     uint   `json:"agent_id" binding:"required"`
	Titre       string `json:"titre" binding:"required,max=160"`
	Description string `json:"description"`
	Priorite    int    `json:"priorite"`
}

// MissionStatutRequest porte le nouveau statut d'une mission.
type MissionStatutRequest struct {
	Statut string `json:"statut" binding:"required"`
}

var statutsMission = map[string]bool{
	models.MissionPending:    true,
	models.MissionInProgress: true,
	models.MissionCompleted:  true,
	models.MissionFailed:     true,
}

// ListMissions retourne les missions, filtrables par statut et agent.
func ListMissions(c *gin.Context) {
	db := database.GetDB()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	statut := c.Query("statut")
	agentID := c.Query("agent_id")

	query := db.Model(&models.Mission{}).Preload("Agent.Service")
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}

	var missions []models.Mission
	if err := query.Order("date_creation DESC").Limit(limit).Find(&missions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, missions)
}

// CreateMission enregistre une nouvelle mission en attente.
func CreateMission(c *gin.Context) {
	var req MissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	if req.Priorite == 0 {
		req.Priorite = 2
	}

	mission := models.Mission{
		AgentID:     req.AgentID,
		Titre:       req.Titre,
		Description: req.Description,
		Priorite:    req.Priorite,
		Statut:      models.MissionPending,
	}

	db := database.GetDB()
	if err := db.Create(&mission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, mission)
}

// UpdateMissionStatut change le statut d'une mission. Les statuts terminaux
// enregistrent la date de clôture.
func UpdateMissionStatut(c *gin.Context) {
	var req MissionStatutRequest
	if err := c.ShouldBindJSON(&req); err != nil || !statutsMission[req.Statut] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "statut de mission invalide"})
		return
	}

	db := database.GetDB()

	var mission models.Mission
	if err := db.First(&mission, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mission introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"statut": req.Statut}
	if req.Statut == models.MissionCompleted || req.Statut == models.MissionFailed {
		maintenant := time.Now()
		updates["date_cloture"] = &maintenant
	}

	if err := db.Model(&mission).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = database.AppendAudit(db, utilisateurCourant(c), models.ActionUpdateMission,
		fmt.Sprintf("mission #%d -> %s", mission.ID, req.Statut), c.ClientIP())

	c.JSON(http.StatusOK, mission)
}

// GetAgentScore retourne le score de fiabilité calculé d'un agent.
func GetAgentScore(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant d'agent invalide"})
		return
	}

	score, err := detecteur.ScoreAgent(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent_id": id, "score": score})
}
