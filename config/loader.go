package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig est la structure de configuration principale de l'application.
type AppConfig struct {
	App     AppSettings   `yaml:"app"`     // Configuration générale.
	Server  ServerConfig  `yaml:"server"`  // Serveur HTTP.
	Analyse AnalyseConfig `yaml:"analyse"` // Moteur de signaux faibles.
	Seuils  Seuils        `yaml:"seuils"`  // Seuils du détecteur de règles.
}

// AppSettings contient les réglages généraux.
type AppSettings struct {
	Env      string `yaml:"env"`       // Environnement d'exécution (development, production).
	LogLevel string `yaml:"log_level"` // Niveau de journalisation.
}

// ServerConfig contient les réglages du serveur HTTP et de la base.
type ServerConfig struct {
	Addr         string `yaml:"addr"`          // Adresse d'écoute.
	DatabasePath string `yaml:"database_path"` // Chemin du fichier SQLite.
}

// AnalyseConfig contient les réglages du moteur de signaux faibles.
type AnalyseConfig struct {
	WindowHours     int    `yaml:"window_hours"`      // Fenêtre d'analyse en heures.
	Limit           int    `yaml:"limit"`             // Nombre maximal de signaux retournés.
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"` // Durée de vie du cache de résultats.
	CronSpec        string `yaml:"cron_spec"`         // Planification de la passe périodique.
}

// Seuils contient les seuils réglables du détecteur d'alertes préventives.
type Seuils struct {
	JauneContribTheme   int     `yaml:"jaune_contrib_theme"`  // Contributions même thème / 7j / zone.
	OrangeContribTotal  int     `yaml:"orange_contrib_total"` // Contributions tous thèmes / 14j.
	FacteurAcceleration float64 `yaml:"facteur_acceleration"` // Multiplicateur du rythme 24h.
	AgentActif          int     `yaml:"agent_actif"`          // Contributions/30j qualifiant un agent régulier.
	JoursSilenceAgent   int     `yaml:"jours_silence_agent"`  // Jours de silence d'un agent régulier.
	DivergenceRejets    int     `yaml:"divergence_rejets"`    // Rejets même thème / 7j.
}

// DefaultConfig retourne une configuration avec les valeurs par défaut.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		App: AppSettings{
			Env:      "development",
			LogLevel: "info",
		},
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			DatabasePath: DefaultDatabasePath,
		},
		Analyse: AnalyseConfig{
			WindowHours:     DefaultWindowHours,
			Limit:           DefaultLimit,
			CacheTTLSeconds: int(DefaultCacheTTL / time.Second),
			CronSpec:        DefaultCronSpec,
		},
		Seuils: Seuils{
			JauneContribTheme:   DefaultSeuilJauneContribTheme,
			OrangeContribTotal:  DefaultSeuilOrangeContribTotal,
			FacteurAcceleration: DefaultFacteurAcceleration,
			AgentActif:          DefaultSeuilAgentActif,
			JoursSilenceAgent:   DefaultJoursSilenceAgent,
			DivergenceRejets:    DefaultSeuilDivergenceRejets,
		},
	}
}

// Load charge la configuration depuis un fichier YAML, en conservant les
// valeurs par défaut pour tout champ absent. Les variables d'environnement
// priment sur le fichier. Un fichier introuvable n'est pas une erreur.
func Load(configPath string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFromYAML(configPath, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("chargement du fichier de configuration: %w", err)
			}
		}
	}

	loadFromEnv(cfg)

	return cfg, nil
}

func loadFromYAML(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("analyse YAML: %w", err)
	}

	return nil
}

// loadFromEnv surcharge la configuration avec les variables d'environnement.
func loadFromEnv(cfg *AppConfig) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Server.DatabasePath = v
	}

	if v := os.Getenv("ANALYSE_WINDOW_HOURS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Analyse.WindowHours = i
		}
	}
	if v := os.Getenv("ANALYSE_LIMIT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Analyse.Limit = i
		}
	}
	if v := os.Getenv("ANALYSE_CACHE_TTL_SECONDS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Analyse.CacheTTLSeconds = i
		}
	}
	if v := os.Getenv("ANALYSE_CRON_SPEC"); v != "" {
		cfg.Analyse.CronSpec = v
	}

	if v := os.Getenv("SEUIL_JAUNE_CONTRIB_THEME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Seuils.JauneContribTheme = i
		}
	}
	if v := os.Getenv("SEUIL_ORANGE_CONTRIB_TOTAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Seuils.OrangeContribTotal = i
		}
	}
	if v := os.Getenv("SEUIL_FACTEUR_ACCELERATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Seuils.FacteurAcceleration = f
		}
	}
	if v := os.Getenv("SEUIL_AGENT_ACTIF"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Seuils.AgentActif = i
		}
	}
	if v := os.Getenv("SEUIL_JOURS_SILENCE_AGENT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Seuils.JoursSilenceAgent = i
		}
	}
	if v := os.Getenv("SEUIL_DIVERGENCE_REJETS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Seuils.DivergenceRejets = i
		}
	}
}

// CacheTTL retourne la durée de vie du cache sous forme de durée.
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Analyse.CacheTTLSeconds) * time.Second
}

// Window retourne la fenêtre d'analyse sous forme de durée.
func (c *AppConfig) Window() time.Duration {
	return time.Duration(c.Analyse.WindowHours) * time.Hour
}
