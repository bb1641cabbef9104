package analysis

import (
	"fmt"
	"time"

	"github.com/benmab17/mbongi-agents/models"
)

// Barème du score de fiabilité d'un agent.
const (
	scoreBase                = 50
	bonusValidation          = 10
	malusRejet               = 15
	malusSoumissionTrainante = 5
	bonusMissionComplete     = 5
	malusMissionEchouee      = 5
)

// ComputeAgentScore calcule à la volée le score de fiabilité d'un agent à
// partir de ses contributions et missions. Le score part de 50 et est borné
// entre 0 et 100 : les validations et missions réussies le font monter, les
// rejets, les soumissions restées sans traitement plus de 7 jours et les
// missions échouées le font descendre.
func ComputeAgentScore(contributions []models.Contribution, missions []models.Mission, now time.Time) int {
	score := scoreBase
	ilYA7Jours := now.Add(-7 * 24 * time.Hour)

	for _, contrib := range contributions {
		switch contrib.Statut {
		case models.StatutValidated:
			score += bonusValidation
		case models.StatutRejected:
			score -= malusRejet
		case models.StatutSubmitted:
			if contrib.DateCreation.Before(ilYA7Jours) {
				score -= malusSoumissionTrainante
			}
		}
	}

	for _, mission := range missions {
		switch mission.Statut {
		case models.MissionCompleted:
			score += bonusMissionComplete
		case models.MissionFailed:
			score -= malusMissionEchouee
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ScoreAgent lit les contributions et missions d'un agent puis calcule son
// score de fiabilité. Les erreurs de lecture sont propagées.
func (d *Detector) ScoreAgent(agentID uint) (int, error) {
	var contributions []models.Contribution
	if err := d.db.Where("agent_id = ?", agentID).Find(&contributions).Error; err != nil {
		return 0, fmt.Errorf("lecture des contributions de l'agent: %w", err)
	}

	var missions []models.Mission
	if err := d.db.Where("agent_id = ?", agentID).Find(&missions).Error; err != nil {
		return 0, fmt.Errorf("lecture des missions de l'agent: %w", err)
	}

	return ComputeAgentScore(contributions, missions, d.now()), nil
}
