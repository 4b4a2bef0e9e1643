package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "QTD EXCLUIDA", NormalizeHeader("Qtd  Excluída"))
	assert.Equal(t, "COMENTARIO", NormalizeHeader(" comentário "))
	assert.Equal(t, "PLASTICO", NormalizeHeader("Plástico"))
	assert.Equal(t, NormalizeHeader("InitCMF info"), NormalizeHeader("INITCMF\tINFO"))
}
