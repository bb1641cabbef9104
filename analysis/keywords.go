/*
Package analysis implémente le moteur de détection de signaux faibles et le
détecteur d'alertes préventives à base de règles.

Les deux détecteurs sont des passes de lecture pure : ils reçoivent un
instantané des données (contributions, agents) et un instant de référence,
recalculent tous les agrégats à partir de zéro et retournent des valeurs
éphémères. Aucun état n'est partagé entre deux invocations, ce qui rend les
exécutions concurrentes sûres.
*/
package analysis

import (
	"regexp"
	"unicode/utf8"
)

// Longueur minimale d'un token retenu par l'analyse.
const minTokenLen = 4

// Poids supplémentaires des mots-clés sensibles. Un token absent de la table
// reçoit un bonus nul.
var motsClesSensibles = map[string]float64{
	"m23":           5,
	"goma":          4,
	"bunia":         4,
	"ituri":         3,
	"nord-kivu":     3,
	"sud-kivu":      3,
	"rwanda":        5,
	"armes":         4,
	"enlèvement":    5,
	"attaque":       5,
	"explosion":     5,
	"manifestation": 3,
	"barrage":       3,
	"milice":        4,
}

var motRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// tokenize extrait les tokens d'au moins quatre caractères d'un texte déjà
// passé en minuscules, dédupliqués en conservant l'ordre de première
// apparition. La déduplication par document empêche un même rapport de
// compter deux fois pour un mot-clé.
func tokenize(texte string) []string {
	mots := motRe.FindAllString(texte, -1)
	vus := make(map[string]struct{}, len(mots))
	tokens := make([]string, 0, len(mots))
	for _, mot := range mots {
		if utf8.RuneCountInString(mot) < minTokenLen {
			continue
		}
		if _, ok := vus[mot]; ok {
			continue
		}
		vus[mot] = struct{}{}
		tokens = append(tokens, mot)
	}
	return tokens
}
