package analysis

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/benmab17/mbongi-agents/config"
	"github.com/benmab17/mbongi-agents/models"
)

func baseDeTest(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Service{},
		&models.Agent{},
		&models.Contribution{},
		&models.Mission{},
		&models.AuditLog{},
	))

	return db
}

func detecteurDeTest(t *testing.T, db *gorm.DB, now time.Time) *Detector {
	t.Helper()

	cfg := config.DefaultConfig()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := NewDetector(db, cfg, log)
	d.now = func() time.Time { return now }
	return d
}

func TestDetectorSignauxFaibles(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	db := baseDeTest(t)

	require.NoError(t, db.Create(&[]models.Contribution{
		{Titre: "Attaque à Goma", Contenu: "RAS", Priorite: 3, Statut: models.StatutSubmitted, DateCreation: now.Add(-2 * time.Hour)},
		{Titre: "Attaque sur Goma", Contenu: "RAS", Priorite: 3, Statut: models.StatutSubmitted, DateCreation: now.Add(-5 * time.Hour)},
		// Hors fenêtre de 72 heures : ignorée.
		{Titre: "Attaque ancienne à Goma", Contenu: "RAS", Priorite: 3, Statut: models.StatutSubmitted, DateCreation: now.Add(-100 * time.Hour)},
	}).Error)

	d := detecteurDeTest(t, db, now)

	signaux, err := d.SignauxFaibles(72, 5)
	require.NoError(t, err)
	require.NotEmpty(t, signaux)
	assert.Equal(t, "Signal: ATTAQUE", signaux[0].Titre)
	assert.LessOrEqual(t, len(signaux), 5)
}

func TestDetectorParametresDegeneres(t *testing.T) {
	db := baseDeTest(t)
	d := detecteurDeTest(t, db, time.Now())

	signaux, err := d.SignauxFaibles(0, 5)
	require.NoError(t, err)
	assert.Empty(t, signaux)

	signaux, err = d.SignauxFaibles(72, 0)
	require.NoError(t, err)
	assert.Empty(t, signaux)
}

func TestDetectorPropagationErreur(t *testing.T) {
	now := time.Now()
	db := baseDeTest(t)
	d := detecteurDeTest(t, db, now)
	d.cache = newResultCache(0) // pas de cache : chaque appel lit la base

	require.NoError(t, db.Migrator().DropTable(&models.Contribution{}))

	// Une base illisible produit une erreur, jamais une liste vide.
	_, err := d.SignauxFaibles(72, 5)
	assert.Error(t, err)

	_, err = d.AlertesPreventives()
	assert.Error(t, err)
}

func TestDetectorCacheResultats(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	db := baseDeTest(t)
	d := detecteurDeTest(t, db, now)

	require.NoError(t, db.Create(&[]models.Contribution{
		{Titre: "Manifestation au marché", Contenu: "barrage", Priorite: 2, DateCreation: now.Add(-time.Hour)},
		{Titre: "Manifestation dispersée", Contenu: "barrage levé", Priorite: 2, DateCreation: now.Add(-2 * time.Hour)},
	}).Error)

	premier, err := d.SignauxFaibles(72, 5)
	require.NoError(t, err)

	// Une écriture pendant la durée de vie du cache ne change pas le résultat
	// servi ; c'est le compromis assumé du cache court.
	require.NoError(t, db.Create(&models.Contribution{
		Titre: "Manifestation massive", Contenu: "barrage renforcé", Priorite: 3,
		DateCreation: now.Add(-30 * time.Minute),
	}).Error)

	second, err := d.SignauxFaibles(72, 5)
	require.NoError(t, err)
	assert.Equal(t, premier, second)

	// Une clé différente contourne le cache.
	troisieme, err := d.SignauxFaibles(72, 4)
	require.NoError(t, err)
	assert.NotEqual(t, premier, troisieme)
}

func TestDetectorRunScanJournaliseLaPasse(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	db := baseDeTest(t)
	d := detecteurDeTest(t, db, now)

	d.RunScan()

	var entrees []models.AuditLog
	require.NoError(t, db.Where("action = ?", models.ActionSystemWeakSignals).Find(&entrees).Error)
	require.Len(t, entrees, 1)
	assert.Equal(t, "system", entrees[0].Utilisateur)
}

func TestScoreAgent(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	db := baseDeTest(t)
	d := detecteurDeTest(t, db, now)

	agent := models.Agent{Nom: "Kalonji", Matricule: "MAT-001", Service: models.Service{Nom: "DGM"}}
	require.NoError(t, db.Create(&agent).Error)

	require.NoError(t, db.Create(&[]models.Contribution{
		{AgentID: agent.ID, Titre: "A", Statut: models.StatutValidated, DateCreation: now.Add(-24 * time.Hour)},
		{AgentID: agent.ID, Titre: "B", Statut: models.StatutValidated, DateCreation: now.Add(-48 * time.Hour)},
		{AgentID: agent.ID, Titre: "C", Statut: models.StatutRejected, DateCreation: now.Add(-72 * time.Hour)},
	}).Error)
	require.NoError(t, db.Create(&[]models.Mission{
		{AgentID: agent.ID, Titre: "M1", Statut: models.MissionCompleted},
		{AgentID: agent.ID, Titre: "M2", Statut: models.MissionFailed},
	}).Error)

	// 50 + 2*10 - 15 + 5 - 5 = 55
	score, err := d.ScoreAgent(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, score)
}

func TestComputeAgentScoreBornes(t *testing.T) {
	now := time.Now()

	// Assez de rejets pour passer sous zéro : le score est borné.
	var contribs []models.Contribution
	for i := 0; i < 10; i++ {
		contribs = append(contribs, models.Contribution{
			ID: uint(i + 1), Statut: models.StatutRejected, DateCreation: now,
		})
	}
	assert.Equal(t, 0, ComputeAgentScore(contribs, nil, now))

	// Assez de validations pour dépasser cent : borné aussi.
	contribs = nil
	for i := 0; i < 10; i++ {
		contribs = append(contribs, models.Contribution{
			ID: uint(i + 1), Statut: models.StatutValidated, DateCreation: now,
		})
	}
	assert.Equal(t, 100, ComputeAgentScore(contribs, nil, now))
}
