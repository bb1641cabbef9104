/*
Package models définit les entités persistées du portail (services, agents,
contributions, missions, journal d'audit) ainsi que les valeurs dérivées
produites par le moteur d'analyse.
*/
package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrAuditAppendOnly est retournée quand on tente de modifier ou supprimer
// une entrée du journal d'audit.
var ErrAuditAppendOnly = errors.New("le journal d'audit est en ajout seul")

// Statuts d'une contribution.
const (
	StatutDraft     = "DRAFT"
	StatutSubmitted = "SUBMITTED"
	StatutValidated = "VALIDATED"
	StatutRejected  = "REJECTED"
)

// Statuts d'une mission.
const (
	MissionPending    = "PENDING"
	MissionInProgress = "IN_PROGRESS"
	MissionCompleted  = "COMPLETED"
	MissionFailed     = "FAILED"
)

// Service est une unité organisationnelle ou géographique. Son nom sert
// aussi d'étiquette de zone pour les détecteurs.
type Service struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	Nom string `json:"nom" gorm:"size:100;uniqueIndex"`
}

// Agent est un agent de terrain rattaché à un service.
type Agent struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Nom          string    `json:"nom" gorm:"size:100"`
	Prenom       string    `json:"prenom" gorm:"size:100"`
	Matricule    string    `json:"matricule" gorm:"size:50;uniqueIndex"`
	ServiceID    uint      `json:"service_id"`
	Service      Service   `json:"service" gorm:"foreignKey:ServiceID"`
	Unite        string    `json:"unite" gorm:"size:100"`
	Fonction     string    `json:"fonction" gorm:"size:100"`
	Actif        bool      `json:"actif" gorm:"default:true"`
	DateCreation time.Time `json:"date_creation" gorm:"autoCreateTime"`
}

// Contribution est un rapport soumis par un agent, l'unité de base du
// renseignement brut. Le titre et le contenu sont immuables une fois créés ;
// seules les transitions de statut modifient l'enregistrement.
type Contribution struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	AgentID       uint       `json:"agent_id" gorm:"index"`
	Agent         Agent      `json:"agent" gorm:"foreignKey:AgentID"`
	Titre         string     `json:"titre" gorm:"size:160"`
	Contenu       string     `json:"contenu"`
	Statut        string     `json:"statut" gorm:"size:20;default:DRAFT;index"`
	Priorite      int        `json:"priorite" gorm:"default:2"`
	DateCreation  time.Time  `json:"date_creation" gorm:"autoCreateTime;index"`
	DateMiseAJour time.Time  `json:"date_mise_a_jour" gorm:"autoUpdateTime"`
	ValidatedBy   string     `json:"validated_by" gorm:"size:100"`
	ValidatedAt   *time.Time `json:"validated_at"`
	DecisionNote  string     `json:"decision_note" gorm:"size:255"`
}

// Mission est une tâche opérationnelle assignée à un agent.
type Mission struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Titre        string     `json:"titre" gorm:"size:160"`
	Description  string     `json:"description"`
	Statut       string     `json:"statut" gorm:"size:20;default:PENDING;index"`
	Priorite     int        `json:"priorite" gorm:"default:2"`
	AgentID      uint       `json:"agent_id" gorm:"index"`
	Agent        Agent      `json:"agent" gorm:"foreignKey:AgentID"`
	DateCreation time.Time  `json:"date_creation" gorm:"autoCreateTime"`
	DateCloture  *time.Time `json:"date_cloture"`
}

// Actions journalisées dans l'audit.
const (
	ActionLogin                  = "LOGIN"
	ActionCreateContribution     = "CREATE_CONTRIBUTION"
	ActionSubmitContribution     = "SUBMIT_CONTRIBUTION"
	ActionValidateContribution   = "VALIDATE_CONTRIBUTION"
	ActionRejectContribution     = "REJECT_CONTRIBUTION"
	ActionUpdateMission          = "UPDATE_MISSION"
	ActionSystemWeakSignals      = "SYSTEM_WEAK_SIGNALS"
	ActionChefCreateRecoupement  = "CHEF_CREATE_RECOUPEMENT"
	ActionChefTakeRecoupement    = "CHEF_TAKE_RECOUPEMENT"
	ActionChefCloseRecoupement   = "CHEF_CLOSE_RECOUPEMENT"
	ActionCNSAvisCreated         = "CNS_AVIS_CREATED"
	ActionPresidenceReadBriefing = "PRESIDENCE_READ_BRIEFING"
)

// AuditLog est une entrée du journal d'audit. Le journal est en ajout seul :
// toute tentative de mise à jour ou de suppression est refusée par les
// hooks GORM ci-dessous.
type AuditLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Utilisateur string    `json:"utilisateur" gorm:"size:100;index"`
	Action      string    `json:"action" gorm:"size:40;index"`
	TargetRepr  string    `json:"target_repr" gorm:"size:255"`
	IPAddress   string    `json:"ip_address" gorm:"size:45"`
	Timestamp   time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

// BeforeUpdate refuse toute modification d'une entrée existante.
func (*AuditLog) BeforeUpdate(*gorm.DB) error { return ErrAuditAppendOnly }

// BeforeDelete refuse toute suppression.
func (*AuditLog) BeforeDelete(*gorm.DB) error { return ErrAuditAppendOnly }

// Statuts d'un ticket de recoupement.
const (
	RecoupementOpen       = "OPEN"
	RecoupementInProgress = "IN_PROGRESS"
	RecoupementClosed     = "CLOSED"
)

// RecoupementTicket suit un recoupement d'information ouvert par un chef de
// service, le plus souvent à partir d'un signal faible.
type RecoupementTicket struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Reference    string     `json:"reference" gorm:"size:36;uniqueIndex"`
	CreatedBy    string     `json:"created_by" gorm:"size:100"`
	Statut       string     `json:"statut" gorm:"size:20;default:OPEN;index"`
	Niveau       Niveau     `json:"niveau" gorm:"size:20;default:JAUNE"`
	Titre        string     `json:"titre" gorm:"size:180"`
	Evidence     string     `json:"evidence"`
	Keywords     string     `json:"keywords" gorm:"size:255"`
	WindowHours  int        `json:"window_hours" gorm:"default:72"`
	Source       string     `json:"source" gorm:"size:50;default:signaux_faibles"`
	TakenBy      string     `json:"taken_by" gorm:"size:100"`
	DueAt        *time.Time `json:"due_at"`
	DateCreation time.Time  `json:"date_creation" gorm:"autoCreateTime"`
}

// EstEnRetard indique si le ticket a dépassé son échéance sans être clôturé.
func (t *RecoupementTicket) EstEnRetard(now time.Time) bool {
	return t.DueAt != nil && t.Statut != RecoupementClosed && now.After(*t.DueAt)
}

// HeuresRetard retourne le nombre d'heures entières de retard.
func (t *RecoupementTicket) HeuresRetard(now time.Time) int {
	if !t.EstEnRetard(now) {
		return 0
	}
	return int(now.Sub(*t.DueAt).Hours())
}

// NiveauRetard escalade la sévérité d'un ticket selon son retard.
func (t *RecoupementTicket) NiveauRetard(now time.Time) Niveau {
	heures := t.HeuresRetard(now)
	switch {
	case heures > 24:
		return NiveauRouge
	case heures > 12:
		return NiveauOrange
	case heures > 0:
		return NiveauJaune
	default:
		return NiveauVert
	}
}

// Urgences d'un avis CNS.
const (
	UrgenceFaible   = "FAIBLE"
	UrgenceMoyenne  = "MOYENNE"
	UrgenceElevee   = "ELEVEE"
	UrgenceCritique = "CRITIQUE"
)

// CNSAvis est un avis stratégique du conseil, lu par la présidence.
type CNSAvis struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Titre          string     `json:"titre" gorm:"size:120"`
	Contenu        string     `json:"contenu"`
	Urgence        string     `json:"urgence" gorm:"size:20;default:MOYENNE"`
	Recommandation string     `json:"recommandation"`
	CreatedBy      string     `json:"created_by" gorm:"size:100"`
	SentAt         *time.Time `json:"sent_at"`
	ReadAt         *time.Time `json:"read_at"`
	DateCreation   time.Time  `json:"date_creation" gorm:"autoCreateTime"`
}
