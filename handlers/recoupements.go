package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

// RecoupementRequest est le corps d'ouverture d'un ticket de recoupement,
// généralement pré-rempli depuis un signal faible.
type RecoupementRequest struct {
	Titre       string `json:"titre" binding:"required,max=180"`
	Evidence    string `json:"evidence" binding:"required"`
	Keywords    string `json:"keywords"`
	Niveau      string `json:"niveau"`
	WindowHours int    `json:"window_hours"`
	DueHours    int    `json:"due_hours"`
}

// ListRecoupements retourne les tickets, les plus récents d'abord, avec leur
// niveau de retard courant.
func ListRecoupements(c *gin.Context) {
	db := database.GetDB()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	statut := c.Query("statut")

	query := db.Model(&models.RecoupementTicket{})
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}

	var tickets []models.RecoupementTicket
	if err := query.Order("date_creation DESC").Limit(limit).Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	sortie := make([]gin.H, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		sortie = append(sortie, gin.H{
			"ticket":        t,
			"en_retard":     t.EstEnRetard(now),
			"heures_retard": t.HeuresRetard(now),
			"niveau_retard": t.NiveauRetard(now),
		})
	}

	c.JSON(http.StatusOK, sortie)
}

// CreateRecoupement ouvre un ticket de recoupement.
func CreateRecoupement(c *gin.Context) {
	var req RecoupementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}

	niveau := models.Niveau(req.Niveau)
	if niveau.Rang() < 0 {
		niveau = models.NiveauJaune
	}
	if req.WindowHours <= 0 {
		req.WindowHours = 72
	}

	ticket := models.RecoupementTicket{
		Reference:   uuid.NewString(),
		CreatedBy:   utilisateurCourant(c),
		Statut:      models.RecoupementOpen,
		Niveau:      niveau,
		Titre:       req.Titre,
		Evidence:    req.Evidence,
		Keywords:    req.Keywords,
		WindowHours: req.WindowHours,
		Source:      "signaux_faibles",
	}
	if req.DueHours > 0 {
		echeance := time.Now().Add(time.Duration(req.DueHours) * time.Hour)
		ticket.DueAt = &echeance
	}

	db := database.GetDB()
	if err := db.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = database.AppendAudit(db, utilisateurCourant(c), models.ActionChefCreateRecoupement,
		fmt.Sprintf("recoupement %s '%s'", ticket.Reference, ticket.Titre), c.ClientIP())

	c.JSON(http.StatusCreated, ticket)
}

// PrendreRecoupement marque un ticket ouvert comme pris en charge.
func PrendreRecoupement(c *gin.Context) {
	transitionRecoupement(c, models.RecoupementOpen, models.RecoupementInProgress,
		models.ActionChefTakeRecoupement)
}

// CloturerRecoupement clôture un ticket en cours ou ouvert.
func CloturerRecoupement(c *gin.Context) {
	db := database.GetDB()

	ticket, ok := chargerRecoupement(c, db)
	if !ok {
		return
	}
	if ticket.Statut == models.RecoupementClosed {
		c.JSON(http.StatusConflict, gin.H{"error": "le ticket est déjà clôturé"})
		return
	}

	if err := db.Model(ticket).Update("statut", models.RecoupementClosed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = database.AppendAudit(db, utilisateurCourant(c), models.ActionChefCloseRecoupement,
		fmt.Sprintf("recoupement %s", ticket.Reference), c.ClientIP())

	c.JSON(http.StatusOK, ticket)
}

func transitionRecoupement(c *gin.Context, depuis, vers, action string) {
	db := database.GetDB()

	ticket, ok := chargerRecoupement(c, db)
	if !ok {
		return
	}
	if ticket.Statut != depuis {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("transition impossible depuis le statut %s", ticket.Statut),
		})
		return
	}

	updates := map[string]interface{}{"statut": vers}
	if vers == models.RecoupementInProgress {
		updates["taken_by"] = utilisateurCourant(c)
	}

	if err := db.Model(ticket).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = database.AppendAudit(db, utilisateurCourant(c), action,
		fmt.Sprintf("recoupement %s", ticket.Reference), c.ClientIP())

	c.JSON(http.StatusOK, ticket)
}

func chargerRecoupement(c *gin.Context, db *gorm.DB) (*models.RecoupementTicket, bool) {
	var ticket models.RecoupementTicket
	if err := db.First(&ticket, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket introuvable"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return &ticket, true
}
