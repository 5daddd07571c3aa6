// seeduser crea o actualiza el usuario administrador inicial.
// Uso: SEED_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"os"
	"time"

	"rutaventas/internal/config"
	"rutaventas/internal/infra"
	"rutaventas/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	username := envOr("SEED_USERNAME", "admin")
	nombre := envOr("SEED_NOMBRE", "Administrador")
	email := envOr("SEED_EMAIL", "admin@rutaventas.local")
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("SEED_PASSWORD es obligatorio en produccion")
		}
		password = "admin1234"
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO usuarios (username, nombre, email, password_hash, rol)
		VALUES (?, ?, ?, ?, 'administrador')
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre = EXCLUDED.nombre,
		    email = EXCLUDED.email,
		    rol = EXCLUDED.rol,
		    activo = true
	`, username, nombre, email, hash)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert")
	}
	log.Info().Str("username", username).Msg("administrador creado/actualizado")
}
