/*
Package handlers expose le portail en HTTP : API JSON pour les écrans de
commandement et la présidence, vues HTML rendues côté serveur, cycle de vie
des contributions et tickets de recoupement.
*/
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/benmab17/mbongi-agents/analysis"
)

var detecteur *analysis.Detector

// Init installe le détecteur partagé par les handlers.
func Init(d *analysis.Detector) {
	detecteur = d
}

// utilisateurCourant retourne l'identité déclarée par la couche d'identité
// amont, ou "anonyme" à défaut.
func utilisateurCourant(c *gin.Context) string {
	if u := c.GetHeader("X-Utilisateur"); u != "" {
		return u
	}
	return "anonyme"
}
