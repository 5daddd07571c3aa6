package service

import (
	"errors"
	"fmt"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	fechaLayout = "2006-01-02"
	timeLayout  = "2006-01-02T15:04:05Z07:00"
)

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// storeErr logs an unexpected store failure and wraps it. The HTTP layer turns
// anything that is not an *apierror.Error into a generic 500.
func storeErr(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("store failure")
	return fmt.Errorf("%s: %w", op, err)
}

// passthrough returns domain errors unchanged and wraps anything else as a
// store failure.
func passthrough(op string, err error) error {
	if _, ok := apierror.As(err); ok {
		return err
	}
	return storeErr(op, err)
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apierror.Validation(field + " invalido")
	}
	return id, nil
}

func idPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// requireVendedor checks a user lookup result is an active seller. Store
// failures are returned unwrapped for the caller to report.
func requireVendedor(u *model.Usuario, err error) (*model.Usuario, error) {
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("Vendedor no encontrado")
		}
		return nil, err
	}
	if u.Rol != model.RolVendedor || !u.Activo {
		return nil, apierror.NotFound("Vendedor no encontrado")
	}
	return u, nil
}
