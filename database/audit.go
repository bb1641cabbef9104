package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/benmab17/mbongi-agents/models"
)

// AppendAudit ajoute une entrée au journal d'audit. C'est le seul point
// d'écriture : le journal est en ajout seul, les hooks du modèle refusent
// toute mise à jour ou suppression.
func AppendAudit(db *gorm.DB, utilisateur, action, targetRepr, ip string) error {
	entry := models.AuditLog{
		Utilisateur: utilisateur,
		Action:      action,
		TargetRepr:  targetRepr,
		IPAddress:   ip,
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("écriture du journal d'audit: %w", err)
	}
	return nil
}
