/*
Package config fournit la configuration centralisée du portail.

Ce paquet regroupe les constantes et structures de configuration partagées
entre le serveur HTTP, le moteur d'analyse et le planificateur de passes
périodiques. Les seuils de détection sont des paramètres réglables, pas des
constantes physiques : ils peuvent être surchargés par fichier YAML ou par
variables d'environnement.
*/
package config

import "time"

// Paramètres serveur par défaut
const (
	DefaultServerAddr   = ":8090"
	DefaultDatabasePath = "mbongi.db"
)

// Paramètres par défaut du moteur de signaux faibles
const (
	DefaultWindowHours = 72
	DefaultLimit       = 5

	// Durée de rétention du cache de résultats entre deux rafraîchissements
	// concurrents du tableau de bord.
	DefaultCacheTTL = time.Minute

	// Expression cron de la passe périodique.
	DefaultCronSpec = "@every 15m"
)

// Seuils par défaut du détecteur d'alertes préventives.
const (
	DefaultSeuilJauneContribTheme  = 5   // +5 contributions même thème / 7 jours / même zone
	DefaultSeuilOrangeContribTotal = 10  // +10 contributions tous thèmes / 14 jours
	DefaultFacteurAcceleration     = 3.0 // rythme x3 en 24h vs moyenne 7 jours
	DefaultSeuilAgentActif         = 5   // contributions sur 30 jours qualifiant un agent régulier
	DefaultJoursSilenceAgent       = 7   // jours de silence déclenchant l'alerte
	DefaultSeuilDivergenceRejets   = 3   // rejets même thème / 7 jours
)

// Zone sentinelle quand aucun service n'est rattaché à une détection.
const (
	ZoneNationale = "NATIONALE"
	ZoneInconnue  = "Inconnue"
)
