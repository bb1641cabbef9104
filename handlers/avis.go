package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

// AvisRequest est le corps de création d'un avis stratégique du CNS.
type AvisRequest struct {
	Titre          string `json:"titre" binding:"required,max=120"`
	Contenu        string `json:"contenu" binding:"required"`
	Urgence        string `json:"urgence"`
	Recommandation string `json:"recommandation"`
}

var urgencesValides = map[string]bool{
	models.UrgenceFaible:   true,
	models.UrgenceMoyenne:  true,
	models.UrgenceElevee:   true,
	models.UrgenceCritique: true,
}

// ListAvis retourne les avis du conseil, les plus récents d'abord.
func ListAvis(c *gin.Context) {
	db := database.GetDB()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var avis []models.CNSAvis
	if err := db.Order("date_creation DESC").Limit(limit).Find(&avis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, avis)
}

// CreateAvis enregistre un avis stratégique et le marque transmis.
func CreateAvis(c *gin.Context) {
	var req AvisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	if !urgencesValides[req.Urgence] {
		req.Urgence = models.UrgenceMoyenne
	}

	maintenant := time.Now()
	avis := models.CNSAvis{
		Titre:          req.Titre,
		Contenu:        req.Contenu,
		Urgence:        req.Urgence,
		Recommandation: req.Recommandation,
		CreatedBy:      utilisateurCourant(c),
		SentAt:         &maintenant,
	}

	db := database.GetDB()
	if err := db.Create(&avis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = database.AppendAudit(db, utilisateurCourant(c), models.ActionCNSAvisCreated,
		fmt.Sprintf("avis #%d '%s'", avis.ID, avis.Titre), c.ClientIP())

	c.JSON(http.StatusCreated, avis)
}
