package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/models"
)

const geminiModel = "gemini-2.0-flash"

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// ResumeContribution génère un résumé institutionnel d'une contribution pour
// un supérieur hiérarchique, via l'API Gemini. Le résumé n'est pas persisté :
// la contribution reste immuable après création.
func ResumeContribution(c *gin.Context) {
	db := database.GetDB()

	var contribution models.Contribution
	if err := db.First(&contribution, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resume, err := appelerGemini(contribution.Titre, contribution.Contenu)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("échec de la génération du résumé: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": resume})
}

func appelerGemini(titre, contenu string) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY manquante (variable d'environnement)")
	}

	requestBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: construirePrompt(titre, contenu)}}},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		geminiModel, apiKey)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("erreur de l'API Gemini: %s", string(body))
	}

	var response geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("réponse vide de Gemini")
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

func construirePrompt(titre, contenu string) string {
	return fmt.Sprintf(`Nous sommes dans un portail interne d'agents de l'État.
Tâche: résumer la contribution ci-dessous pour un supérieur hiérarchique.

Contraintes:
- Français, style institutionnel
- Pas d'invention (si info manquante: "Non précisé")
- Format:
  1) Résumé (3-5 lignes)
  2) Points clés (3-6 puces)
  3) Urgence suggérée: Faible / Normal / Élevé (1 phrase justification)

Titre: %s
Texte:
%s`, titre, contenu)
}
