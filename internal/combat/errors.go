package combat

import "github.com/tobyjaguar/rpgkernel/internal/kernelerr"

func notFound(entity, id string) error {
	return kernelerr.NotFoundf(entity, id)
}

func actionEconomyErr(format string, args ...any) error {
	return kernelerr.New(kernelerr.ActionEconomy, format, args...)
}

func spatialErr(format string, args ...any) error {
	return kernelerr.New(kernelerr.Spatial, format, args...)
}

func movementErr(format string, args ...any) error {
	return kernelerr.New(kernelerr.Movement, format, args...)
}

func stateErr(format string, args ...any) error {
	return kernelerr.New(kernelerr.State, format, args...)
}
