// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gestorweb/contactos/internal/models"
)

func TestValidEstado(t *testing.T) {
	for _, estado := range models.Estados {
		assert.True(t, models.ValidEstado(estado), estado)
	}
	assert.False(t, models.ValidEstado("perdido"))
	assert.False(t, models.ValidEstado(""))
	assert.False(t, models.ValidEstado("Abierto")) // case-sensitive
}

func TestValidPromocion(t *testing.T) {
	for _, p := range models.OpcionesPromocion {
		assert.True(t, models.ValidPromocion(p), p)
	}
	// Empty means "not specified" and is always accepted
	assert.True(t, models.ValidPromocion(""))
	assert.False(t, models.ValidPromocion("promocion inventada"))
}
