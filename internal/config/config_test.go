package config

import (
	"testing"
	"time"
)

func entornoMinimo(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/depuracion")
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("SMTP_SERVER", "smtp.avantika.com.co")
}

func TestLoadConDefaults(t *testing.T) {
	entornoMinimo(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("no esperaba error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("puerto = %q, esperaba 8080", cfg.Server.Port)
	}
	if cfg.SMTP.Puerto != 25 {
		t.Errorf("puerto SMTP = %d, esperaba 25", cfg.SMTP.Puerto)
	}
	if cfg.SMTP.Remitente != "tic@avantika.com.co" {
		t.Errorf("remitente = %q", cfg.SMTP.Remitente)
	}
	if len(cfg.Reporte.Destinatarios) != 1 || cfg.Reporte.Destinatarios[0] != "sistemas@avantika.com.co" {
		t.Errorf("destinatarios = %v", cfg.Reporte.Destinatarios)
	}
	// Sin intervalo configurado el envío queda solo bajo demanda.
	if cfg.Reporte.Intervalo != 0 {
		t.Errorf("intervalo = %v, esperaba 0", cfg.Reporte.Intervalo)
	}
}

func TestLoadConEntornoCompleto(t *testing.T) {
	entornoMinimo(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("REPORTE_DESTINATARIOS", "uno@avantika.com.co, dos@avantika.com.co")
	t.Setenv("REPORTE_INTERVALO", "24h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("no esperaba error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("puerto = %q", cfg.Server.Port)
	}
	if cfg.SMTP.Puerto != 587 {
		t.Errorf("puerto SMTP = %d", cfg.SMTP.Puerto)
	}
	// La lista separa por comas y recorta espacios.
	if len(cfg.Reporte.Destinatarios) != 2 || cfg.Reporte.Destinatarios[1] != "dos@avantika.com.co" {
		t.Errorf("destinatarios = %v", cfg.Reporte.Destinatarios)
	}
	if cfg.Reporte.Intervalo != 24*time.Hour {
		t.Errorf("intervalo = %v", cfg.Reporte.Intervalo)
	}
}

func TestLoadObligatorias(t *testing.T) {
	casos := []struct {
		nombre  string
		omitida string
	}{
		{"sin DATABASE_URL", "DATABASE_URL"},
		{"sin JWT_SECRET", "JWT_SECRET"},
		{"sin SMTP_SERVER", "SMTP_SERVER"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			entornoMinimo(t)
			t.Setenv(c.omitida, "")

			if _, err := Load(); err == nil {
				t.Errorf("esperaba error por %s ausente", c.omitida)
			}
		})
	}
}
