// cmd/seeduser crea o actualiza un usuario del kiosco.
// Uso: go run ./cmd/seeduser -username admin -password 1234 -rol admin_general
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/config"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "admin", "login name")
	password := flag.String("password", "1234", "plain password, stored as bcrypt")
	nombre := flag.String("nombre", "Admin Demo", "display name")
	email := flag.String("email", "", "contact email")
	rol := flag.String("rol", model.RolAdminGeneral, "role")
	sede := flag.String("sede", "", "site id (uuid) for site-bound roles")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	u := &model.Usuario{
		Username:     *username,
		Nombre:       *nombre,
		PasswordHash: string(hash),
		Rol:          *rol,
		Activo:       true,
	}
	if *email != "" {
		u.Email = email
	}
	if *sede != "" {
		id, err := uuid.Parse(*sede)
		if err != nil {
			log.Fatal().Err(err).Str("sede", *sede).Msg("invalid site id")
		}
		u.SedeID = &id
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	if err := repository.NewUsuarioRepository(db).Upsert(context.Background(), u); err != nil {
		log.Fatal().Err(err).Msg("upsert error")
	}
	log.Info().Str("username", u.Username).Str("rol", u.Rol).Msg("usuario creado/actualizado")
}
