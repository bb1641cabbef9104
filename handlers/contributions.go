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

// ContributionRequest est le corps de création d'une contribution.
type ContributionRequest struct {
	AgentID  uint   `json:"agent_id" binding:"required"`
	Titre    string `json:"titre" binding:"required,max=160"`
	Contenu  string `json:"contenu" binding:"required"`
	Priorite int    `json:"priorite"`
}

// DecisionRequest porte la note facultative d'une décision de validation ou
// de rejet.
type DecisionRequest struct {
	Note string `json:"note"`
}

// ListContributions retourne les contributions, filtrables par statut, agent
// et date de création minimale.
func ListContributions(c *gin.Context) {
	db := database.GetDB()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	statut := c.Query("statut")
	agentID := c.Query("agent_id")
	dateFrom := c.Query("date_from")

	query := db.Model(&models.Contribution{}).Preload("Agent.Service")

	if statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if dateFrom != "" {
		query = query.Where("date_creation >= ?", dateFrom)
	}

	var contributions []models.Contribution
	if err := query.Order("date_creation DESC").Limit(limit).Find(&contributions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contributions)
}

// CreateContribution enregistre un nouveau rapport en brouillon.
func CreateContribution(c *gin.Context) {
	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	if req.Priorite == 0 {
		req.Priorite = 2
	}

	db := database.GetDB()

	var agent models.Agent
	if err := db.First(&agent, req.AgentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contribution := models.Contribution{
		AgentID:  req.AgentID,
		Titre:    req.Titre,
		Contenu:  req.Contenu,
		Priorite: req.Priorite,
		Statut:   models.StatutDraft,
	}
	if err := db.Create(&contribution).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = database.AppendAudit(db, utilisateurCourant(c), models.ActionCreateContribution,
		fmt.Sprintf("contribution #%d '%s'", contribution.ID, contribution.Titre), c.ClientIP())

	c.JSON(http.StatusCreated, contribution)
}

// SoumettreContribution fait passer un brouillon à l'état soumis.
func SoumettreContribution(c *gin.Context) {
	transitionContribution(c, models.StatutDraft, models.StatutSubmitted, models.ActionSubmitContribution)
}

// ValiderContribution valide une contribution soumise.
func ValiderContribution(c *gin.Context) {
	transitionContribution(c, models.StatutSubmitted, models.StatutValidated, models.ActionValidateContribution)
}

// RejeterContribution rejette une contribution soumise.
func RejeterContribution(c *gin.Context) {
	transitionContribution(c, models.StatutSubmitted, models.StatutRejected, models.ActionRejectContribution)
}

// transitionContribution applique une transition de statut. Le titre et le
// contenu ne sont jamais modifiés : seuls le statut et les champs de décision
// changent après création.
func transitionContribution(c *gin.Context, depuis, vers, action string) {
	db := database.GetDB()

	var contribution models.Contribution
	if err := db.First(&contribution, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if contribution.Statut != depuis {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("transition impossible depuis le statut %s", contribution.Statut),
		})
		return
	}

	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	maintenant := time.Now()
	updates := map[string]interface{}{"statut": vers}
	if vers == models.StatutValidated || vers == models.StatutRejected {
		updates["validated_by"] = utilisateurCourant(c)
		updates["validated_at"] = &maintenant
		updates["decision_note"] = req.Note
	}

	if err := db.Model(&contribution).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = database.AppendAudit(db, utilisateurCourant(c), action,
		fmt.Sprintf("contribution #%d -> %s", contribution.ID, vers), c.ClientIP())

	c.JSON(http.StatusOK, contribution)
}
