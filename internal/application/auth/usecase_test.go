package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almoxsys/almoxarifado-api/internal/application/auth"
	"github.com/almoxsys/almoxarifado-api/internal/application/dto"
	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
	"github.com/almoxsys/almoxarifado-api/pkg/jwt"
)

type stubUserRepo struct {
	byEmail map[string]*entity.Usuario
}

var _ repository.UsuarioRepository = (*stubUserRepo)(nil)

func (r *stubUserRepo) Create(u *entity.Usuario) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	c := *u
	r.byEmail[u.Email] = &c
	return nil
}

func (r *stubUserRepo) GetByID(id string) (*entity.Usuario, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(email string) (*entity.Usuario, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func newAuthUseCase() (*auth.AuthUseCase, *stubUserRepo) {
	repo := &stubUserRepo{byEmail: map[string]*entity.Usuario{}}
	cfg := auth.JWTConfig{Secret: "segredo-de-teste", ExpMinutes: 60, Issuer: "almoxarifado-api"}
	return auth.NewAuthUseCase(repo, cfg), repo
}

func TestRegisterUser(t *testing.T) {
	uc, repo := newAuthUseCase()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@almox.local",
		Password: "senha-forte",
		Nome:     "Ana Pereira",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pereira", user.Nome)
	assert.Equal(t, entity.PerfilRequisitante, user.Perfil, "perfil padrão")
	assert.Equal(t, "active", user.Status)

	// A senha nunca é persistida em claro.
	stored := repo.byEmail["ana@almox.local"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "senha-forte", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterUser_Validacao(t *testing.T) {
	uc, _ := newAuthUseCase()

	_, err := uc.RegisterUser(dto.RegisterRequest{Password: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "x@x", Password: "x", Perfil: "gerente"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@x", Password: "x"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@x", Password: "y"})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc, _ := newAuthUseCase()

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@almox.local",
		Password: "senha-admin",
		Perfil:   entity.PerfilAdmin,
	})
	require.NoError(t, err)

	res, err := uc.Login(dto.LoginRequest{Email: "admin@almox.local", Password: "senha-admin"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, entity.PerfilAdmin, res.User.Perfil)

	// O token carrega identidade e perfil para o RBAC da borda.
	userID, perfil, err := jwt.Parse("segredo-de-teste", res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, entity.PerfilAdmin, perfil)
}

func TestLogin_Falhas(t *testing.T) {
	uc, repo := newAuthUseCase()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "u@almox.local", Password: "certa"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "nao-existe@almox.local", Password: "x"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "u@almox.local", Password: "errada"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.byEmail["u@almox.local"].Status = "inactive"
	_, err = uc.Login(dto.LoginRequest{Email: "u@almox.local", Password: "certa"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
