package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benmab17/mbongi-agents/config"
	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

// CommandementData alimente la vue de commandement d'un chef de service.
type CommandementData struct {
	WindowHours  int
	Signaux      []models.SignalFaible
	Alertes      []models.AlertePreventive
	Recoupements []models.RecoupementTicket
}

// PresidenceData alimente le briefing de la présidence : signaux et alertes
// agrégés, avis stratégiques du conseil.
type PresidenceData struct {
	WindowHours int
	Signaux     []models.SignalFaible
	Alertes     []models.AlertePreventive
	Avis        []models.CNSAvis
}

// Commandement rend l'écran de commandement : signaux faibles classés,
// alertes préventives et tickets de recoupement ouverts.
func Commandement(c *gin.Context) {
	window, _ := strconv.Atoi(c.DefaultQuery("window", strconv.Itoa(config.DefaultWindowHours)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(config.DefaultLimit)))

	signaux, err := detecteur.SignauxFaibles(window, limit)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Erreur d'analyse"})
		return
	}

	alertes, err := detecteur.AlertesPreventives()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Erreur d'analyse"})
		return
	}

	db := database.GetDB()
	var recoupements []models.RecoupementTicket
	db.Where("statut <> ?", models.RecoupementClosed).
		Order("date_creation DESC").Limit(20).Find(&recoupements)

	c.HTML(http.StatusOK, "commandement.html", CommandementData{
		WindowHours:  window,
		Signaux:      signaux,
		Alertes:      alertes,
		Recoupements: recoupements,
	})
}

// Presidence rend le briefing de la présidence. La consultation est
// journalisée.
func Presidence(c *gin.Context) {
	window, _ := strconv.Atoi(c.DefaultQuery("window", strconv.Itoa(config.DefaultWindowHours)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(config.DefaultLimit)))

	signaux, err := detecteur.SignauxFaibles(window, limit)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Erreur d'analyse"})
		return
	}

	alertes, err := detecteur.AlertesPreventives()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Erreur d'analyse"})
		return
	}

	db := database.GetDB()
	var avis []models.CNSAvis
	db.Order("date_creation DESC").Limit(10).Find(&avis)

	_ = database.AppendAudit(db, utilisateurCourant(c), models.ActionPresidenceReadBriefing,
		fmt.Sprintf("briefing %s", time.Now().Format("2006-01-02")), c.ClientIP())

	c.HTML(http.StatusOK, "presidence.html", PresidenceData{
		WindowHours: window,
		Signaux:     signaux,
		Alertes:     alertes,
		Avis:        avis,
	})
}
