package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benmab17/mbongi-agents/models"
)

// Seuils de score des niveaux d'alerte.
const (
	scoreRouge  = 18
	scoreOrange = 12
	scoreJaune  = 7
)

// Bandes de variation de la tendance.
const bandeTendance = 0.3

const actionHint = "Analyser les contributions liées et demander un recoupement."

// statsMotCle agrège les occurrences d'un token sur la fenêtre d'analyse.
type statsMotCle struct {
	contribIDs    map[uint]struct{}
	totalPriorite int
	count         int
	lastSeen      time.Time
	countLast24h  int
	countPrev24h  int
}

// DetectSignauxFaibles analyse les contributions récentes et retourne au plus
// limit signaux faibles classés par score décroissant.
//
// La fonction est pure : elle ne lit que ses arguments et recalcule tous les
// agrégats à chaque appel. Les égalités de score sont départagées par l'ordre
// de découverte des tokens dans le flux d'entrée, ce qui rend le résultat
// déterministe pour un jeu de données fixe.
//
// Une entrée vide ou une limite dégénérée (limit < 1) produit une liste vide,
// jamais une erreur.
func DetectSignauxFaibles(contributions []models.Contribution, now time.Time, limit int) []models.SignalFaible {
	if limit < 1 || len(contributions) == 0 {
		return []models.SignalFaible{}
	}

	debut24h := now.Add(-24 * time.Hour)
	debut48h := now.Add(-48 * time.Hour)

	stats := make(map[string]*statsMotCle)
	ordre := make([]string, 0)

	for _, contrib := range contributions {
		texte := strings.ToLower(contrib.Titre + " " + contrib.Contenu)

		for _, token := range tokenize(texte) {
			data, ok := stats[token]
			if !ok {
				data = &statsMotCle{contribIDs: make(map[uint]struct{})}
				stats[token] = data
				ordre = append(ordre, token)
			}
			if _, deja := data.contribIDs[contrib.ID]; deja {
				continue
			}
			data.contribIDs[contrib.ID] = struct{}{}
			data.totalPriorite += contrib.Priorite
			data.count++
			if contrib.DateCreation.After(data.lastSeen) {
				data.lastSeen = contrib.DateCreation
			}

			// Compteurs glissants pour la tendance.
			if !contrib.DateCreation.Before(debut24h) {
				data.countLast24h++
			} else if !contrib.DateCreation.Before(debut48h) {
				data.countPrev24h++
			}
		}
	}

	signaux := make([]models.SignalFaible, 0, len(stats))
	for _, token := range ordre {
		data := stats[token]
		// Un token vu dans une seule contribution est du bruit, pas un signal.
		if data.count < 2 {
			continue
		}

		prioriteMoyenne := float64(data.totalPriorite) / float64(data.count)
		score := float64(data.count)*2 + prioriteMoyenne*3 + motsClesSensibles[token]

		signaux = append(signaux, models.SignalFaible{
			Score:      score,
			Niveau:     niveauPourScore(score),
			Titre:      "Signal: " + strings.ToUpper(token),
			Evidence:   fmt.Sprintf("%d occurrences, priorité moy. %.1f", data.count, prioriteMoyenne),
			Keywords:   []string{token},
			Tendance:   classifierTendance(data.countLast24h, data.countPrev24h),
			LastSeen:   data.lastSeen,
			ActionHint: actionHint,
		})
	}

	sort.SliceStable(signaux, func(i, j int) bool {
		return signaux[i].Score > signaux[j].Score
	})

	if len(signaux) > limit {
		signaux = signaux[:limit]
	}
	return signaux
}

// niveauPourScore classe un score sur l'échelle de sévérité.
func niveauPourScore(score float64) models.Niveau {
	switch {
	case score >= scoreRouge:
		return models.NiveauRouge
	case score >= scoreOrange:
		return models.NiveauOrange
	case score >= scoreJaune:
		return models.NiveauJaune
	default:
		return models.NiveauVert
	}
}

// classifierTendance compare les deux sous-fenêtres de 24 heures. Sans donnée
// dans la bande précédente, plusieurs occurrences récentes forcent la hausse.
func classifierTendance(last24, prev24 int) models.Tendance {
	if prev24 > 0 {
		ratio := float64(last24-prev24) / float64(prev24)
		if ratio > bandeTendance {
			return models.TendanceHausse
		}
		if ratio < -bandeTendance {
			return models.TendanceBaisse
		}
		return models.TendanceStable
	}
	if last24 > 1 {
		return models.TendanceHausse
	}
	return models.TendanceStable
}
