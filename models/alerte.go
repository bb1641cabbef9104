package models

import "time"

// Niveau est l'échelle de sévérité commune aux deux détecteurs. L'ordre est
// total : AVERTISSEMENT se classe sous JAUNE, CRITIQUE au-dessus de ROUGE.
type Niveau string

const (
	NiveauVert          Niveau = "VERT"
	NiveauAvertissement Niveau = "AVERTISSEMENT"
	NiveauJaune         Niveau = "JAUNE"
	NiveauOrange        Niveau = "ORANGE"
	NiveauRouge         Niveau = "ROUGE"
	NiveauCritique      Niveau = "CRITIQUE"
)

var rangNiveau = map[Niveau]int{
	NiveauVert:          0,
	NiveauAvertissement: 1,
	NiveauJaune:         2,
	NiveauOrange:        3,
	NiveauRouge:         4,
	NiveauCritique:      5,
}

// Rang retourne la position du niveau dans l'ordre total (VERT=0 .. CRITIQUE=5).
// Un niveau inconnu vaut -1.
func (n Niveau) Rang() int {
	if r, ok := rangNiveau[n]; ok {
		return r
	}
	return -1
}

// AuMoins indique si le niveau est au moins aussi sévère que l'autre.
func (n Niveau) AuMoins(autre Niveau) bool {
	return n.Rang() >= autre.Rang()
}

// Tendance décrit l'évolution récente d'un signal.
type Tendance string

const (
	TendanceHausse Tendance = "UP"
	TendanceBaisse Tendance = "DOWN"
	TendanceStable Tendance = "STABLE"
)

// SignalFaible est une alerte dérivée, recalculée à chaque passe d'analyse.
// Elle n'est jamais persistée : aucune identité n'est garantie entre deux
// exécutions.
type SignalFaible struct {
	Score      float64   `json:"score"`
	Niveau     Niveau    `json:"niveau"`
	Titre      string    `json:"titre"`
	Evidence   string    `json:"evidence"`
	Keywords   []string  `json:"keywords"`
	Tendance   Tendance  `json:"tendance"`
	LastSeen   time.Time `json:"last_seen"`
	ActionHint string    `json:"action_hint"`
}

// Types d'alerte préventive.
const (
	AlerteSocial         = "SOCIAL"
	AlerteArme           = "ARMÉ"
	AlerteEconomique     = "ÉCONOMIQUE"
	AlerteInstitutionnel = "INSTITUTIONNEL"
)

// AlertePreventive est produite par le détecteur à base de règles. Comme le
// signal faible, c'est une valeur éphémère retournée à l'appelant puis jetée.
type AlertePreventive struct {
	Type            string    `json:"type"`
	Zone            string    `json:"zone"`
	Niveau          Niveau    `json:"niveau"`
	Justification   string    `json:"justification"`
	SourcesAgregees []string  `json:"sources_agregees"`
	DateDetection   time.Time `json:"date_detection"`
	Statut          string    `json:"statut"`
}
