package analysis

import (
	"fmt"
	"time"

	"github.com/benmab17/mbongi-agents/config"
	"github.com/benmab17/mbongi-agents/models"
)

// Fenêtres internes du détecteur de règles.
const (
	fenetreTheme     = 7 * 24 * time.Hour
	fenetreGlobale   = 14 * 24 * time.Hour
	fenetreActivite  = 30 * 24 * time.Hour
	joursMoyenneBase = 7
)

// Statut initial d'une alerte fraîchement détectée.
const statutActive = "active"

// Snapshot est l'instantané des données lues avant une passe du détecteur de
// règles. Les contributions doivent porter leur agent et le service de
// celui-ci quand ils existent.
type Snapshot struct {
	Contributions []models.Contribution
	Agents        []models.Agent
}

// DetectAlertesPreventives évalue indépendamment chaque règle de seuil et
// retourne une alerte par règle déclenchée. Les règles peuvent se déclencher
// plusieurs fois dans la même passe (une par thème, une par agent) ; aucune
// déduplication ni troncature n'est appliquée.
//
// Chaque justification embarque les comptes et seuils concrets qui ont
// déclenché la règle, pour que la sortie soit auditable sans contexte.
func DetectAlertesPreventives(snap Snapshot, now time.Time, seuils config.Seuils) []models.AlertePreventive {
	alertes := []models.AlertePreventive{}

	alertes = append(alertes, detecterAccumulationThematique(snap, now, seuils)...)
	alertes = append(alertes, detecterAccumulationGlobale(snap, now, seuils)...)
	alertes = append(alertes, detecterAcceleration(snap, now, seuils)...)
	alertes = append(alertes, detecterSilenceAgents(snap, now, seuils)...)
	alertes = append(alertes, detecterDivergenceRejets(snap, now, seuils)...)

	return alertes
}

type cleTheme struct {
	titre   string
	service string
}

// detecterAccumulationThematique signale la répétition d'un même thème dans
// une même zone sur une période courte.
func detecterAccumulationThematique(snap Snapshot, now time.Time, seuils config.Seuils) []models.AlertePreventive {
	depuis := now.Add(-fenetreTheme)

	comptes := make(map[cleTheme]int)
	ordre := make([]cleTheme, 0)
	for _, contrib := range snap.Contributions {
		if contrib.DateCreation.Before(depuis) {
			continue
		}
		cle := cleTheme{titre: contrib.Titre, service: contrib.Agent.Service.Nom}
		if _, ok := comptes[cle]; !ok {
			ordre = append(ordre, cle)
		}
		comptes[cle]++
	}

	var alertes []models.AlertePreventive
	for _, cle := range ordre {
		count := comptes[cle]
		if count < seuils.JauneContribTheme {
			continue
		}
		zone := cle.service
		if zone == "" {
			zone = config.ZoneNationale
		}
		alertes = append(alertes, models.AlertePreventive{
			Type:   models.AlerteSocial,
			Zone:   zone,
			Niveau: models.NiveauJaune,
			Justification: fmt.Sprintf(
				"Accumulation: %d contributions sur le thème '%s' détectées en 7 jours dans la zone '%s'.",
				count, cle.titre, zone),
			SourcesAgregees: []string{fmt.Sprintf("%d contributions sur '%s'", count, cle.titre)},
			DateDetection:   now,
			Statut:          statutActive,
		})
	}
	return alertes
}

// detecterAccumulationGlobale signale un volume national anormal tous thèmes
// confondus.
func detecterAccumulationGlobale(snap Snapshot, now time.Time, seuils config.Seuils) []models.AlertePreventive {
	depuis := now.Add(-fenetreGlobale)

	total := 0
	for _, contrib := range snap.Contributions {
		if !contrib.DateCreation.Before(depuis) {
			total++
		}
	}
	if total < seuils.OrangeContribTotal {
		return nil
	}

	return []models.AlertePreventive{{
		Type:   models.AlerteSocial,
		Zone:   config.ZoneNationale,
		Niveau: models.NiveauOrange,
		Justification: fmt.Sprintf(
			"Accumulation: %d contributions tous thèmes détectées en 14 jours.", total),
		SourcesAgregees: []string{fmt.Sprintf("%d contributions", total)},
		DateDetection:   now,
		Statut:          statutActive,
	}}
}

// detecterAcceleration compare le rythme des dernières 24 heures à la moyenne
// quotidienne des 7 derniers jours.
func detecterAcceleration(snap Snapshot, now time.Time, seuils config.Seuils) []models.AlertePreventive {
	depuis24h := now.Add(-24 * time.Hour)
	depuis7j := now.Add(-fenetreTheme)

	var contrib24h, contrib7j int
	for _, contrib := range snap.Contributions {
		if !contrib.DateCreation.Before(depuis7j) {
			contrib7j++
			if !contrib.DateCreation.Before(depuis24h) {
				contrib24h++
			}
		}
	}

	if contrib7j == 0 {
		return nil
	}
	moyenneQuotidienne := float64(contrib7j) / joursMoyenneBase
	if float64(contrib24h) <= moyenneQuotidienne*seuils.FacteurAcceleration {
		return nil
	}

	return []models.AlertePreventive{{
		Type:   models.AlerteInstitutionnel,
		Zone:   config.ZoneNationale,
		Niveau: models.NiveauJaune,
		Justification: fmt.Sprintf(
			"Accélération: Le rythme des contributions a augmenté de plus de x%g en 24h par rapport à la moyenne 7 jours.",
			seuils.FacteurAcceleration),
		SourcesAgregees: []string{fmt.Sprintf("%d contrib. 24h, %d contrib. 7j", contrib24h, contrib7j)},
		DateDetection:   now,
		Statut:          statutActive,
	}}
}

// detecterSilenceAgents signale les agents habituellement actifs (au moins
// AgentActif contributions sur les 30 derniers jours) restés silencieux sur la
// fenêtre de silence. Un agent dont toute l'activité précède la fenêtre de
// qualification de 30 jours n'est pas concerné.
func detecterSilenceAgents(snap Snapshot, now time.Time, seuils config.Seuils) []models.AlertePreventive {
	depuis30j := now.Add(-fenetreActivite)
	depuisSilence := now.Add(-time.Duration(seuils.JoursSilenceAgent) * 24 * time.Hour)

	comptes30j := make(map[uint]int)
	comptesRecents := make(map[uint]int)
	for _, contrib := range snap.Contributions {
		if contrib.DateCreation.Before(depuis30j) {
			continue
		}
		comptes30j[contrib.AgentID]++
		if !contrib.DateCreation.Before(depuisSilence) {
			comptesRecents[contrib.AgentID]++
		}
	}

	var alertes []models.AlertePreventive
	for _, agent := range snap.Agents {
		if comptes30j[agent.ID] < seuils.AgentActif || comptesRecents[agent.ID] > 0 {
			continue
		}
		zone := agent.Service.Nom
		if zone == "" {
			zone = config.ZoneInconnue
		}
		alertes = append(alertes, models.AlertePreventive{
			Type:   models.AlerteInstitutionnel,
			Zone:   zone,
			Niveau: models.NiveauCritique,
			Justification: fmt.Sprintf(
				"Silence anormal: L'agent %s (%s) habituellement actif est silencieux depuis %d jours.",
				agent.Nom, agent.Matricule, seuils.JoursSilenceAgent),
			SourcesAgregees: []string{fmt.Sprintf("Silence agent %s", agent.Matricule)},
			DateDetection:   now,
			Statut:          statutActive,
		})
	}
	return alertes
}

// detecterDivergenceRejets signale des rejets répétés sur un même thème,
// indice d'informations contradictoires.
func detecterDivergenceRejets(snap Snapshot, now time.Time, seuils config.Seuils) []models.AlertePreventive {
	depuis := now.Add(-fenetreTheme)

	comptes := make(map[string]int)
	ordre := make([]string, 0)
	for _, contrib := range snap.Contributions {
		if contrib.Statut != models.StatutRejected || contrib.DateCreation.Before(depuis) {
			continue
		}
		if _, ok := comptes[contrib.Titre]; !ok {
			ordre = append(ordre, contrib.Titre)
		}
		comptes[contrib.Titre]++
	}

	var alertes []models.AlertePreventive
	for _, titre := range ordre {
		count := comptes[titre]
		if count < seuils.DivergenceRejets {
			continue
		}
		alertes = append(alertes, models.AlertePreventive{
			Type:   models.AlerteInstitutionnel,
			Zone:   config.ZoneNationale,
			Niveau: models.NiveauAvertissement,
			Justification: fmt.Sprintf(
				"Divergence: %d rejets de contributions sur le thème '%s' en 7 jours, indiquant des informations contradictoires ou des problèmes de clarté.",
				count, titre),
			SourcesAgregees: []string{fmt.Sprintf("%d rejets sur '%s'", count, titre)},
			DateDetection:   now,
			Statut:          statutActive,
		})
	}
	return alertes
}
