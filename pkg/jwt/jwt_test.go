package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almoxsys/almoxarifado-api/pkg/jwt"
)

const testSecret = "segredo-de-teste"

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-123", "admin", "almoxarifado-api", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, perfil, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "admin", perfil)
}

func TestParse_SecretErrado(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-123", "consulta", "almoxarifado-api", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse("outro-segredo", token)
	require.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-123", "admin", "almoxarifado-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(testSecret, token)
	require.Error(t, err)
}

func TestParse_TokenAdulterado(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-123", "requisitante", "almoxarifado-api", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse(testSecret, token+"x")
	require.Error(t, err)

	_, _, err = jwt.Parse(testSecret, "nao-e-um-token")
	require.Error(t, err)
}

func TestGenerate_SecretVazio(t *testing.T) {
	_, err := jwt.Generate("", "user-123", "admin", "almoxarifado-api", 60)
	require.Error(t, err)

	_, _, err = jwt.Parse("", "qualquer")
	require.Error(t, err)
}
