package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmab17/mbongi-agents/config"
	"github.com/benmab17/mbongi-agents/models"
)

func seuilsParDefaut() config.Seuils {
	return config.DefaultConfig().Seuils
}

func agentAvecService(id uint, matricule, service string) models.Agent {
	return models.Agent{
		ID:        id,
		Nom:       "Kalonji",
		Prenom:    "Jean",
		Matricule: matricule,
		Service:   models.Service{Nom: service},
	}
}

func contribAgent(id, agentID uint, titre, statut string, age time.Duration, now time.Time, service string) models.Contribution {
	return models.Contribution{
		ID:           id,
		AgentID:      agentID,
		Titre:        titre,
		Statut:       statut,
		Priorite:     2,
		DateCreation: now.Add(-age),
		Agent: models.Agent{
			ID:      agentID,
			Service: models.Service{Nom: service},
		},
	}
}

func alertesDeNiveau(alertes []models.AlertePreventive, niveau models.Niveau) []models.AlertePreventive {
	var out []models.AlertePreventive
	for _, a := range alertes {
		if a.Niveau == niveau {
			out = append(out, a)
		}
	}
	return out
}

func TestAccumulationThematique(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Exactement cinq contributions sur le même thème dans le même service en
	// moins de sept jours.
	snap := Snapshot{}
	for i := uint(1); i <= 5; i++ {
		snap.Contributions = append(snap.Contributions,
			contribAgent(i, 1, "Pénurie de carburant", models.StatutSubmitted,
				time.Duration(i)*24*time.Hour, now, "DGM Goma"))
	}

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())
	jaunes := alertesDeNiveau(alertes, models.NiveauJaune)
	require.Len(t, jaunes, 1)

	a := jaunes[0]
	assert.Equal(t, models.AlerteSocial, a.Type)
	assert.Equal(t, "DGM Goma", a.Zone)
	assert.Contains(t, a.Justification, "5 contributions")
	assert.Contains(t, a.Justification, "Pénurie de carburant")
	assert.Equal(t, "active", a.Statut)
	assert.NotEmpty(t, a.SourcesAgregees)
}

func TestAccumulationThematiqueZoneManquante(t *testing.T) {
	now := time.Now()

	// Contributions sans service rattaché : zone sentinelle, pas de panique.
	snap := Snapshot{}
	for i := uint(1); i <= 5; i++ {
		snap.Contributions = append(snap.Contributions,
			contribAgent(i, 1, "Pillage au port", models.StatutSubmitted, time.Hour, now, ""))
	}

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())
	jaunes := alertesDeNiveau(alertes, models.NiveauJaune)
	require.NotEmpty(t, jaunes)
	assert.Equal(t, config.ZoneNationale, jaunes[0].Zone)
}

func TestAccumulationGlobale(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Dix contributions de thèmes distincts étalées sur quatorze jours.
	snap := Snapshot{}
	titres := []string{"Thème A", "Thème B", "Thème C", "Thème D", "Thème E",
		"Thème F", "Thème G", "Thème H", "Thème I", "Thème J"}
	for i, titre := range titres {
		snap.Contributions = append(snap.Contributions,
			contribAgent(uint(i+1), 1, titre, models.StatutSubmitted,
				time.Duration(i+1)*24*time.Hour, now, "CNS"))
	}

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())
	oranges := alertesDeNiveau(alertes, models.NiveauOrange)
	require.Len(t, oranges, 1)
	assert.Equal(t, config.ZoneNationale, oranges[0].Zone)
	assert.Contains(t, oranges[0].Justification, "10 contributions")
}

func TestAcceleration(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Sept contributions sur sept jours (moyenne 1/jour) dont quatre dans les
	// dernières vingt-quatre heures : 4 > 1*3, la règle se déclenche.
	snap := Snapshot{
		Contributions: []models.Contribution{
			contribAgent(1, 1, "T1", models.StatutSubmitted, 2*time.Hour, now, "S"),
			contribAgent(2, 1, "T2", models.StatutSubmitted, 6*time.Hour, now, "S"),
			contribAgent(3, 1, "T3", models.StatutSubmitted, 12*time.Hour, now, "S"),
			contribAgent(4, 1, "T4", models.StatutSubmitted, 20*time.Hour, now, "S"),
			contribAgent(5, 1, "T5", models.StatutSubmitted, 3*24*time.Hour, now, "S"),
			contribAgent(6, 1, "T6", models.StatutSubmitted, 4*24*time.Hour, now, "S"),
			contribAgent(7, 1, "T7", models.StatutSubmitted, 5*24*time.Hour, now, "S"),
		},
	}

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())

	var acceleration *models.AlertePreventive
	for i := range alertes {
		if strings.HasPrefix(alertes[i].Justification, "Accélération") {
			acceleration = &alertes[i]
		}
	}
	require.NotNil(t, acceleration)
	assert.Equal(t, models.NiveauJaune, acceleration.Niveau)
	assert.Equal(t, models.AlerteInstitutionnel, acceleration.Type)
	assert.Contains(t, acceleration.SourcesAgregees[0], "4 contrib. 24h")
}

func TestSilenceAgent(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	agent := agentAvecService(7, "MAT-007", "DEMIAP")

	// Cinq contributions il y a vingt jours, rien depuis : agent régulier
	// devenu silencieux.
	snap := Snapshot{Agents: []models.Agent{agent}}
	for i := uint(1); i <= 5; i++ {
		snap.Contributions = append(snap.Contributions,
			contribAgent(i, agent.ID, "RAS", models.StatutValidated,
				20*24*time.Hour, now, "DEMIAP"))
	}

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())
	critiques := alertesDeNiveau(alertes, models.NiveauCritique)
	require.Len(t, critiques, 1)
	assert.Equal(t, "DEMIAP", critiques[0].Zone)
	assert.Contains(t, critiques[0].Justification, "MAT-007")
	assert.Contains(t, critiques[0].Justification, "7 jours")
}

func TestSilenceAgentHorsFenetreDeQualification(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	agent := agentAvecService(7, "MAT-007", "DEMIAP")

	// Six contributions il y a quarante jours : toute l'activité précède la
	// fenêtre de qualification de trente jours, la règle ne se déclenche pas.
	snap := Snapshot{Agents: []models.Agent{agent}}
	for i := uint(1); i <= 6; i++ {
		snap.Contributions = append(snap.Contributions,
			contribAgent(i, agent.ID, "RAS", models.StatutValidated,
				40*24*time.Hour, now, "DEMIAP"))
	}

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())
	assert.Empty(t, alertesDeNiveau(alertes, models.NiveauCritique))
}

func TestSilenceAgentActifRecemment(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	agent := agentAvecService(7, "MAT-007", "DEMIAP")

	// Agent régulier toujours actif : pas d'alerte.
	snap := Snapshot{Agents: []models.Agent{agent}}
	for i := uint(1); i <= 5; i++ {
		snap.Contributions = append(snap.Contributions,
			contribAgent(i, agent.ID, "RAS", models.StatutValidated,
				20*24*time.Hour, now, "DEMIAP"))
	}
	snap.Contributions = append(snap.Contributions,
		contribAgent(6, agent.ID, "RAS", models.StatutValidated, 2*24*time.Hour, now, "DEMIAP"))

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())
	assert.Empty(t, alertesDeNiveau(alertes, models.NiveauCritique))
}

func TestDivergenceRejets(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Trois rejets sur le même thème en sept jours.
	snap := Snapshot{
		Contributions: []models.Contribution{
			contribAgent(1, 1, "Mouvement de troupes", models.StatutRejected, 24*time.Hour, now, "S"),
			contribAgent(2, 2, "Mouvement de troupes", models.StatutRejected, 48*time.Hour, now, "S"),
			contribAgent(3, 3, "Mouvement de troupes", models.StatutRejected, 72*time.Hour, now, "S"),
		},
	}

	alertes := DetectAlertesPreventives(snap, now, seuilsParDefaut())
	avertissements := alertesDeNiveau(alertes, models.NiveauAvertissement)
	require.Len(t, avertissements, 1)
	assert.Contains(t, avertissements[0].Justification, "3 rejets")
	assert.Contains(t, avertissements[0].Justification, "Mouvement de troupes")
}

func TestDetecteurDeReglesInstantaneVide(t *testing.T) {
	alertes := DetectAlertesPreventives(Snapshot{}, time.Now(), seuilsParDefaut())
	assert.Empty(t, alertes)
}

func TestSeuilsSurchargeables(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	seuils := seuilsParDefaut()
	seuils.JauneContribTheme = 2

	snap := Snapshot{
		Contributions: []models.Contribution{
			contribAgent(1, 1, "Barrage illégal", models.StatutSubmitted, time.Hour, now, "PNC"),
			contribAgent(2, 2, "Barrage illégal", models.StatutSubmitted, 2*time.Hour, now, "PNC"),
		},
	}

	alertes := DetectAlertesPreventives(snap, now, seuils)
	assert.NotEmpty(t, alertesDeNiveau(alertes, models.NiveauJaune))
}
