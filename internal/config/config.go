// internal/config/config.go
//
// Configuración explícita cargada del entorno al arrancar, inyectada en
// cada componente por construcción. Nada del núcleo consulta variables de
// entorno por su cuenta.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración de la aplicación.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Firestore FirestoreConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Reporte   ReporteConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type FirestoreConfig struct {
	ProjectID  string
	DatabaseID string
}

type JWTConfig struct {
	Secret string
}

// SMTPConfig configura el colaborador de entrega de correo.
type SMTPConfig struct {
	Servidor  string
	Puerto    int
	Usuario   string
	Clave     string
	Remitente string
}

// ReporteConfig configura el resumen de facturación electrónica.
// Intervalo en 0 deja el envío solo bajo demanda (endpoint / cron externo).
type ReporteConfig struct {
	Destinatarios []string
	Copia         []string
	Intervalo     time.Duration
}

// Load lee .env si existe y arma la configuración desde el entorno,
// validando lo obligatorio para fallar al arrancar y no a mitad de una
// corrida.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: valor("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Firestore: FirestoreConfig{
			ProjectID:  valor("FIRESTORE_PROJECT_ID", "depuracion-contable"),
			DatabaseID: valor("FIRESTORE_DATABASE_ID", "depuracion-contable"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		SMTP: SMTPConfig{
			Servidor:  os.Getenv("SMTP_SERVER"),
			Puerto:    entero("SMTP_PORT", 25),
			Usuario:   os.Getenv("SMTP_USER"),
			Clave:     os.Getenv("SMTP_PASSWORD"),
			Remitente: valor("SMTP_EMAIL_SEND", "tic@avantika.com.co"),
		},
		Reporte: ReporteConfig{
			Destinatarios: lista("REPORTE_DESTINATARIOS", "sistemas@avantika.com.co"),
			Copia:         lista("REPORTE_COPIA", "auxiliartic@avantika.com.co"),
			Intervalo:     duracion("REPORTE_INTERVALO", 0),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL es obligatoria")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatoria")
	}
	if cfg.SMTP.Servidor == "" {
		return nil, fmt.Errorf("SMTP_SERVER es obligatoria")
	}
	return cfg, nil
}

func valor(clave, porDefecto string) string {
	if v := os.Getenv(clave); v != "" {
		return v
	}
	return porDefecto
}

func entero(clave string, porDefecto int) int {
	v := os.Getenv(clave)
	if v == "" {
		return porDefecto
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return porDefecto
	}
	return n
}

func duracion(clave string, porDefecto time.Duration) time.Duration {
	v := os.Getenv(clave)
	if v == "" {
		return porDefecto
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return porDefecto
	}
	return d
}

func lista(clave, porDefecto string) []string {
	v := os.Getenv(clave)
	if v == "" {
		v = porDefecto
	}
	var out []string
	for _, parte := range strings.Split(v, ",") {
		if p := strings.TrimSpace(parte); p != "" {
			out = append(out, p)
		}
	}
	return out
}
