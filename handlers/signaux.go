package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benmab17/mbongi-agents/config"
	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

// GetSignaux retourne les signaux faibles de la fenêtre demandée, classés par
// score décroissant. Une erreur de lecture de la base produit un 500, jamais
// une liste vide.
func GetSignaux(c *gin.Context) {
	window, _ := strconv.Atoi(c.DefaultQuery("window", strconv.Itoa(config.DefaultWindowHours)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(config.DefaultLimit)))

	signaux, err := detecteur.SignauxFaibles(window, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, signaux)
}

// GetAlertes retourne toutes les alertes préventives déclenchées par la passe
// de règles, sans troncature.
func GetAlertes(c *gin.Context) {
	alertes, err := detecteur.AlertesPreventives()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alertes)
}

// GetStats retourne les agrégats affichés en tête des tableaux de bord.
func GetStats(c *gin.Context) {
	db := database.GetDB()

	var total int64
	var brouillons int64
	var soumises int64
	var validees int64
	var rejetees int64
	var missionsEnCours int64
	var recoupementsOuverts int64

	if err := db.Model(&models.Contribution{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Model(&models.Contribution{}).Where("statut = ?", models.StatutDraft).Count(&brouillons)
	db.Model(&models.Contribution{}).Where("statut = ?", models.StatutSubmitted).Count(&soumises)
	db.Model(&models.Contribution{}).Where("statut = ?", models.StatutValidated).Count(&validees)
	db.Model(&models.Contribution{}).Where("statut = ?", models.StatutRejected).Count(&rejetees)
	db.Model(&models.Mission{}).Where("statut = ?", models.MissionInProgress).Count(&missionsEnCours)
	db.Model(&models.RecoupementTicket{}).Where("statut <> ?", models.RecoupementClosed).Count(&recoupementsOuverts)

	// Ventilation par service (zone).
	type ligneService struct {
		Nom   string
		Count int64
	}
	var lignes []ligneService
	db.Model(&models.Contribution{}).
		Select("services.nom AS nom, COUNT(contributions.id) AS count").
		Joins("JOIN agents ON agents.id = contributions.agent_id").
		Joins("JOIN services ON services.id = agents.service_id").
		Group("services.nom").
		Scan(&lignes)

	parService := make(map[string]int64, len(lignes))
	for _, l := range lignes {
		parService[l.Nom] = l.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"total":                total,
		"brouillons":           brouillons,
		"soumises":             soumises,
		"validees":             validees,
		"rejetees":             rejetees,
		"missions_en_cours":    missionsEnCours,
		"recoupements_ouverts": recoupementsOuverts,
		"par_service":          parService,
	})
}
