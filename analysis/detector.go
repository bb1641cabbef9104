package analysis

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/benmab17/mbongi-agents/config"
	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

// Detector relie les fonctions de détection pures à la base de données et au
// cache de résultats. Chaque passe relit les lignes nécessaires et recalcule
// tout : il n'y a pas d'état partagé entre invocations en dehors du cache.
type Detector struct {
	db    *gorm.DB
	cfg   *config.AppConfig
	log   *slog.Logger
	cache *resultCache

	// remplaçable dans les tests
	now func() time.Time
}

// NewDetector construit un détecteur prêt à l'emploi.
func NewDetector(db *gorm.DB, cfg *config.AppConfig, log *slog.Logger) *Detector {
	return &Detector{
		db:    db,
		cfg:   cfg,
		log:   log.With("composant", "detecteur"),
		cache: newResultCache(cfg.CacheTTL()),
		now:   time.Now,
	}
}

// SignauxFaibles retourne les signaux faibles de la fenêtre demandée, au plus
// limit, classés par score décroissant. Les paramètres dégénérés
// (windowHours <= 0 ou limit < 1) produisent une liste vide. Une erreur de
// lecture de la base est propagée telle quelle à l'appelant : une liste vide
// signifie « aucun signal », jamais « le calcul a échoué ».
func (d *Detector) SignauxFaibles(windowHours, limit int) ([]models.SignalFaible, error) {
	if windowHours <= 0 || limit < 1 {
		return []models.SignalFaible{}, nil
	}

	now := d.now()
	key := cacheKey{windowHours: windowHours, limit: limit}
	if signaux, ok := d.cache.get(key, now); ok {
		return signaux, nil
	}

	depuis := now.Add(-time.Duration(windowHours) * time.Hour)
	var contributions []models.Contribution
	if err := d.db.Where("date_creation >= ?", depuis).
		Order("id").
		Find(&contributions).Error; err != nil {
		return nil, fmt.Errorf("lecture des contributions: %w", err)
	}

	signaux := DetectSignauxFaibles(contributions, now, limit)
	d.cache.put(key, signaux, now)

	return signaux, nil
}

// AlertesPreventives exécute le détecteur de règles sur un instantané complet
// des contributions et des agents.
func (d *Detector) AlertesPreventives() ([]models.AlertePreventive, error) {
	var contributions []models.Contribution
	if err := d.db.Preload("Agent.Service").
		Order("id").
		Find(&contributions).Error; err != nil {
		return nil, fmt.Errorf("lecture des contributions: %w", err)
	}

	var agents []models.Agent
	if err := d.db.Preload("Service").Order("id").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("lecture des agents: %w", err)
	}

	snap := Snapshot{Contributions: contributions, Agents: agents}
	return DetectAlertesPreventives(snap, d.now(), d.cfg.Seuils), nil
}

// RunScan est le point d'entrée de la passe périodique. Il exécute les deux
// détecteurs, journalise le résultat et ajoute une entrée d'audit. Les
// erreurs sont journalisées, pas propagées : la passe suivante retentera.
func (d *Detector) RunScan() {
	debut := d.now()

	signaux, err := d.SignauxFaibles(d.cfg.Analyse.WindowHours, d.cfg.Analyse.Limit)
	if err != nil {
		d.log.Error("échec de la passe de signaux faibles", "erreur", err)
		return
	}

	alertes, err := d.AlertesPreventives()
	if err != nil {
		d.log.Error("échec de la passe d'alertes préventives", "erreur", err)
		return
	}

	cible := fmt.Sprintf("%d signaux, %d alertes (fenêtre %dh)",
		len(signaux), len(alertes), d.cfg.Analyse.WindowHours)
	if err := database.AppendAudit(d.db, "system", models.ActionSystemWeakSignals, cible, ""); err != nil {
		d.log.Error("échec de l'entrée d'audit de la passe", "erreur", err)
	}

	d.log.Info("passe d'analyse terminée",
		"signaux", len(signaux),
		"alertes", len(alertes),
		"duree", time.Since(debut).String(),
	)
}
