package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/benmab17/mbongi-agents/analysis"
	"github.com/benmab17/mbongi-agents/config"
	"github.com/benmab17/mbongi-agents/database"
	"github.com/benmab17/mbongi-agents/handlers"
)

func main() {
	// Configuration (fichier YAML optionnel, surcharge par l'environnement)
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("échec du chargement de la configuration", "erreur", err)
		os.Exit(1)
	}

	logger := nouveauLogger(cfg)
	slog.SetDefault(logger)

	// Base de données
	if err := database.InitDB(cfg.Server.DatabasePath); err != nil {
		logger.Error("échec de l'initialisation de la base", "erreur", err)
		os.Exit(1)
	}
	logger.Info("base de données prête", "chemin", cfg.Server.DatabasePath)

	// Moteur d'analyse
	detecteur := analysis.NewDetector(database.GetDB(), cfg, logger)
	handlers.Init(detecteur)

	// Passe d'analyse périodique
	planificateur := cron.New()
	if _, err := planificateur.AddFunc(cfg.Analyse.CronSpec, detecteur.RunScan); err != nil {
		logger.Error("planification de la passe d'analyse impossible", "erreur", err)
		os.Exit(1)
	}
	planificateur.Start()
	defer planificateur.Stop()

	// Serveur HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.LoadHTMLGlob("templates/*")

	r.GET("/", func(c *gin.Context) {
		c.Redirect(302, "/commandement")
	})

	// Écrans rendus côté serveur
	r.GET("/commandement", handlers.Commandement)
	r.GET("/presidence", handlers.Presidence)

	// API JSON
	api := r.Group("/api")
	{
		api.GET("/signaux", handlers.GetSignaux)
		api.GET("/alertes", handlers.GetAlertes)
		api.GET("/stats", handlers.GetStats)

		api.GET("/contributions", handlers.ListContributions)
		api.POST("/contributions", handlers.CreateContribution)
		api.POST("/contributions/:id/soumettre", handlers.SoumettreContribution)
		api.POST("/contributions/:id/valider", handlers.ValiderContribution)
		api.POST("/contributions/:id/rejeter", handlers.RejeterContribution)
		api.GET("/contributions/:id/resume", handlers.ResumeContribution)

		api.GET("/missions", handlers.ListMissions)
		api.POST("/missions", handlers.CreateMission)
		api.POST("/missions/:id/statut", handlers.UpdateMissionStatut)
		api.GET("/agents/:id/score", handlers.GetAgentScore)

		api.GET("/recoupements", handlers.ListRecoupements)
		api.POST("/recoupements", handlers.CreateRecoupement)
		api.POST("/recoupements/:id/prendre", handlers.PrendreRecoupement)
		api.POST("/recoupements/:id/cloturer", handlers.CloturerRecoupement)

		api.GET("/avis", handlers.ListAvis)
		api.POST("/avis", handlers.CreateAvis)

		api.GET("/audit", handlers.GetAudit)
	}

	logger.Info("démarrage du portail", "adresse", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Error("échec du serveur", "erreur", err)
		os.Exit(1)
	}
}

// nouveauLogger construit le logger structuré selon la configuration.
func nouveauLogger(cfg *config.AppConfig) *slog.Logger {
	niveau := slog.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		niveau = slog.LevelDebug
	case "warn":
		niveau = slog.LevelWarn
	case "error":
		niveau = slog.LevelError
	}

	if cfg.App.Env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: niveau}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: niveau}))
}
