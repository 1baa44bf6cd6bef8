package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"varejopos/internal/apierror"
	"varejopos/internal/config"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	funcionarios repository.FuncionarioRepository
	cfg          *config.Config
}

func NewAuthService(funcionarios repository.FuncionarioRepository, cfg *config.Config) AuthService {
	return &authService{funcionarios: funcionarios, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	f, err := s.funcionarios.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, apierror.PermissionDenied("Credenciais inválidas")
	}
	if f.Pessoa == nil || f.Pessoa.SenhaHash == nil {
		return nil, apierror.PermissionDenied("Credenciais inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*f.Pessoa.SenhaHash), []byte(req.Senha)); err != nil {
		return nil, apierror.PermissionDenied("Credenciais inválidas")
	}
	return s.emitirTokens(f)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.PermissionDenied("Refresh token inválido ou expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.PermissionDenied("Token mal formado")
	}
	fidStr, ok := claims["funcionario_id"].(string)
	if !ok {
		return nil, apierror.PermissionDenied("Token mal formado")
	}
	fid, err := uuid.Parse(fidStr)
	if err != nil {
		return nil, apierror.PermissionDenied("Token mal formado")
	}

	f, err := s.funcionarios.FindByID(ctx, fid)
	if err != nil || !f.Ativo {
		return nil, apierror.PermissionDenied("Funcionário não encontrado ou inativo")
	}
	return s.emitirTokens(f)
}

func (s *authService) emitirTokens(f *model.Funcionario) (*dto.LoginResponse, error) {
	access, err := s.gerarToken(f, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.gerarToken(f, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	nome := ""
	if f.Pessoa != nil {
		nome = f.Pessoa.NomeCompleto
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Funcionario: dto.UsuarioResponse{
			FuncionarioID: f.ID.String(),
			PessoaID:      f.PessoaID.String(),
			Nome:          nome,
			Cargo:         string(f.Cargo),
			UnidadeID:     f.UnidadeID.String(),
		},
	}, nil
}

func (s *authService) gerarToken(f *model.Funcionario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"funcionario_id": f.ID.String(),
		"pessoa_id":      f.PessoaID.String(),
		"cargo":          string(f.Cargo),
		"unidade_id":     f.UnidadeID.String(),
		"exp":            time.Now().Add(duration).Unix(),
		"iat":            time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
