package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func baseDeTest(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&AuditLog{}))
	return db
}

func TestAuditLogAjoutSeul(t *testing.T) {
	db := baseDeTest(t)

	entree := AuditLog{Utilisateur: "chef.dgm", Action: ActionValidateContribution, TargetRepr: "contribution #1"}
	require.NoError(t, db.Create(&entree).Error)

	// Toute mise à jour est refusée.
	err := db.Model(&entree).Update("target_repr", "réécrit").Error
	assert.ErrorIs(t, err, ErrAuditAppendOnly)

	// Toute suppression est refusée.
	err = db.Delete(&entree).Error
	assert.ErrorIs(t, err, ErrAuditAppendOnly)

	// L'entrée d'origine est intacte.
	var relue AuditLog
	require.NoError(t, db.First(&relue, entree.ID).Error)
	assert.Equal(t, "contribution #1", relue.TargetRepr)
}

func TestNiveauOrdreTotal(t *testing.T) {
	ordre := []Niveau{NiveauVert, NiveauAvertissement, NiveauJaune, NiveauOrange, NiveauRouge, NiveauCritique}

	for i := 1; i < len(ordre); i++ {
		assert.Greater(t, ordre[i].Rang(), ordre[i-1].Rang(),
			"%s doit être plus sévère que %s", ordre[i], ordre[i-1])
	}

	assert.True(t, NiveauCritique.AuMoins(NiveauRouge))
	assert.True(t, NiveauJaune.AuMoins(NiveauAvertissement))
	assert.False(t, NiveauVert.AuMoins(NiveauJaune))
	assert.Equal(t, -1, Niveau("INCONNU").Rang())
}

func TestRecoupementTicketRetard(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	sansEcheance := RecoupementTicket{Statut: RecoupementOpen}
	assert.False(t, sansEcheance.EstEnRetard(now))
	assert.Equal(t, NiveauVert, sansEcheance.NiveauRetard(now))

	cas := []struct {
		nom     string
		retard  time.Duration
		attendu Niveau
	}{
		{"retard léger", 2 * time.Hour, NiveauJaune},
		{"retard marqué", 13 * time.Hour, NiveauOrange},
		{"retard grave", 25 * time.Hour, NiveauRouge},
	}

	for _, c := range cas {
		t.Run(c.nom, func(t *testing.T) {
			echeance := now.Add(-c.retard)
			ticket := RecoupementTicket{Statut: RecoupementInProgress, DueAt: &echeance}
			assert.True(t, ticket.EstEnRetard(now))
			assert.Equal(t, c.attendu, ticket.NiveauRetard(now))
		})
	}

	// Un ticket clôturé n'est jamais en retard.
	echeance := now.Add(-48 * time.Hour)
	clos := RecoupementTicket{Statut: RecoupementClosed, DueAt: &echeance}
	assert.False(t, clos.EstEnRetard(now))
	assert.Equal(t, 0, clos.HeuresRetard(now))
}
