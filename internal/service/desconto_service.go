package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"varejopos/internal/apierror"
	"varejopos/internal/authz"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
)

// DescontoService resolves voucher and manual discounts during a sale and
// manages the voucher catalog.
type DescontoService interface {
	// ResolverVoucher validates the code against the clock and computes the
	// discount it grants over valorBruto. It does NOT consume the voucher;
	// consumption happens inside the sale transaction.
	ResolverVoucher(ctx context.Context, codigo string, valorBruto decimal.Decimal) (*model.Voucher, decimal.Decimal, error)
	// ConsumirVoucherTx spends one redemption inside the sale transaction.
	ConsumirVoucherTx(tx *gorm.DB, voucherID uuid.UUID) error
	// AutorizarManual checks the seller's authority over a manual discount
	// and, when a manager credential is supplied, returns the authorizer.
	AutorizarManual(ctx context.Context, vendedor *model.Funcionario, req dto.DescontoManualRequest) (*uuid.UUID, error)

	CriarVoucher(ctx context.Context, req dto.CriarVoucherRequest) (*dto.VoucherResponse, error)
	AtualizarVoucher(ctx context.Context, id uuid.UUID, req dto.AtualizarVoucherRequest) (*dto.VoucherResponse, error)
	ListarVouchers(ctx context.Context) (*dto.VoucherListResponse, error)
}

type descontoService struct {
	vouchers     repository.VoucherRepository
	funcionarios repository.FuncionarioRepository
	relogio      Relogio
}

func NewDescontoService(vouchers repository.VoucherRepository, funcionarios repository.FuncionarioRepository, relogio Relogio) DescontoService {
	return &descontoService{vouchers: vouchers, funcionarios: funcionarios, relogio: relogio}
}

func (s *descontoService) ResolverVoucher(ctx context.Context, codigo string, valorBruto decimal.Decimal) (*model.Voucher, decimal.Decimal, error) {
	v, err := s.vouchers.FindAtivoPorCodigo(ctx, strings.ToUpper(strings.TrimSpace(codigo)))
	if err != nil {
		return nil, decimal.Zero, apierror.VoucherInvalid("Voucher não encontrado ou inativo")
	}
	agora := s.relogio.Agora()
	if v.ValidadeInicio != nil && agora.Before(*v.ValidadeInicio) {
		return nil, decimal.Zero, apierror.VoucherInvalid("Voucher ainda não está vigente")
	}
	if v.ValidadeFim != nil && agora.After(*v.ValidadeFim) {
		return nil, decimal.Zero, apierror.VoucherInvalid("Voucher expirado")
	}
	if v.QuantidadeDisponivel <= 0 {
		return nil, decimal.Zero, apierror.VoucherInvalid("Voucher esgotado")
	}

	var desconto decimal.Decimal
	switch v.Tipo {
	case model.VoucherPercentual:
		desconto = valorBruto.Mul(v.Valor).Div(decimal.NewFromInt(100)).Round(2)
	case model.VoucherFixo:
		desconto = v.Valor
	default:
		return nil, decimal.Zero, apierror.VoucherInvalid("Tipo de voucher desconhecido")
	}
	// A discount never pushes the sale below zero.
	if desconto.GreaterThan(valorBruto) {
		desconto = valorBruto
	}
	return v, desconto, nil
}

func (s *descontoService) ConsumirVoucherTx(tx *gorm.DB, voucherID uuid.UUID) error {
	ok, err := s.vouchers.ConsumirTx(tx, voucherID)
	if err != nil {
		return err
	}
	if !ok {
		// Another sale spent the last redemption between validation and now.
		return apierror.VoucherInvalid("Voucher esgotado")
	}
	return nil
}

func (s *descontoService) AutorizarManual(ctx context.Context, vendedor *model.Funcionario, req dto.DescontoManualRequest) (*uuid.UUID, error) {
	if req.Valor.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.New(apierror.CodeValidation, "Desconto manual deve ser positivo")
	}
	// Management grants any amount on its own authority.
	if authz.Gestao(vendedor.Cargo) {
		return nil, nil
	}
	if req.Valor.LessThanOrEqual(TetoDescontoManual) {
		return nil, nil
	}

	// Above the cap a manager must vouch with their own credentials.
	if req.AutorizadorLogin == nil || req.AutorizadorSenha == nil {
		return nil, apierror.DiscountExceedsAuthority(
			fmt.Sprintf("Desconto acima de R$ %s exige autorização de gerente", TetoDescontoManual.StringFixed(2)))
	}
	autorizador, err := s.funcionarios.FindByLogin(ctx, *req.AutorizadorLogin)
	if err != nil {
		return nil, apierror.DiscountExceedsAuthority("Autorizador não encontrado")
	}
	if autorizador.Pessoa == nil || autorizador.Pessoa.SenhaHash == nil {
		return nil, apierror.DiscountExceedsAuthority("Autorizador sem credencial de acesso")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*autorizador.Pessoa.SenhaHash), []byte(*req.AutorizadorSenha)); err != nil {
		return nil, apierror.DiscountExceedsAuthority("Credencial do autorizador inválida")
	}
	if !authz.Gestao(autorizador.Cargo) {
		return nil, apierror.DiscountExceedsAuthority("Autorizador não possui alçada de gerência")
	}
	log.Info().
		Str("autorizador_id", autorizador.ID.String()).
		Str("vendedor_id", vendedor.ID.String()).
		Str("valor", req.Valor.StringFixed(2)).
		Msg("desconto manual autorizado por gerência")
	return &autorizador.ID, nil
}

// ─── Voucher catalog ─────────────────────────────────────────────────────────

func (s *descontoService) CriarVoucher(ctx context.Context, req dto.CriarVoucherRequest) (*dto.VoucherResponse, error) {
	codigo := strings.ToUpper(strings.TrimSpace(req.Codigo))
	if existente, err := s.vouchers.FindAtivoPorCodigo(ctx, codigo); err == nil && existente != nil {
		return nil, apierror.Conflict("Já existe voucher ativo com este código")
	}
	if req.Tipo == model.VoucherPercentual && req.Valor.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apierror.New(apierror.CodeValidation, "Percentual não pode exceder 100")
	}

	v := &model.Voucher{
		Codigo:               codigo,
		Tipo:                 req.Tipo,
		Valor:                req.Valor,
		QuantidadeDisponivel: req.QuantidadeDisponivel,
		Ativo:                true,
		Acumulativo:          req.Acumulativo,
	}
	if req.ValidadeInicio != nil {
		t, err := time.Parse("2006-01-02", *req.ValidadeInicio)
		if err != nil {
			return nil, apierror.New(apierror.CodeValidation, "validade_inicio inválida")
		}
		v.ValidadeInicio = &t
	}
	if req.ValidadeFim != nil {
		t, err := time.Parse("2006-01-02", *req.ValidadeFim)
		if err != nil {
			return nil, apierror.New(apierror.CodeValidation, "validade_fim inválida")
		}
		fim := t.Add(24*time.Hour - time.Second) // inclusive end of day
		v.ValidadeFim = &fim
	}
	if v.ValidadeInicio != nil && v.ValidadeFim != nil && v.ValidadeFim.Before(*v.ValidadeInicio) {
		return nil, apierror.New(apierror.CodeValidation, "validade_fim anterior a validade_inicio")
	}

	if err := s.vouchers.Create(ctx, v); err != nil {
		return nil, err
	}
	return voucherToResponse(v), nil
}

func (s *descontoService) AtualizarVoucher(ctx context.Context, id uuid.UUID, req dto.AtualizarVoucherRequest) (*dto.VoucherResponse, error) {
	v, err := s.vouchers.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Voucher não encontrado")
	}
	if req.QuantidadeDisponivel != nil {
		v.QuantidadeDisponivel = *req.QuantidadeDisponivel
	}
	if req.ValidadeFim != nil {
		t, err := time.Parse("2006-01-02", *req.ValidadeFim)
		if err != nil {
			return nil, apierror.New(apierror.CodeValidation, "validade_fim inválida")
		}
		fim := t.Add(24*time.Hour - time.Second)
		v.ValidadeFim = &fim
	}
	if req.Ativo != nil {
		v.Ativo = *req.Ativo
	}
	if err := s.vouchers.Update(ctx, v); err != nil {
		return nil, err
	}
	return voucherToResponse(v), nil
}

func (s *descontoService) ListarVouchers(ctx context.Context) (*dto.VoucherListResponse, error) {
	vouchers, total, err := s.vouchers.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.VoucherListResponse{Data: make([]dto.VoucherResponse, 0, len(vouchers)), Total: total}
	for i := range vouchers {
		resp.Data = append(resp.Data, *voucherToResponse(&vouchers[i]))
	}
	return resp, nil
}

func voucherToResponse(v *model.Voucher) *dto.VoucherResponse {
	resp := &dto.VoucherResponse{
		ID:                   v.ID.String(),
		Codigo:               v.Codigo,
		Tipo:                 v.Tipo,
		Valor:                v.Valor,
		QuantidadeDisponivel: v.QuantidadeDisponivel,
		Ativo:                v.Ativo,
		Acumulativo:          v.Acumulativo,
	}
	if v.ValidadeInicio != nil {
		d := v.ValidadeInicio.Format("2006-01-02")
		resp.ValidadeInicio = &d
	}
	if v.ValidadeFim != nil {
		d := v.ValidadeFim.Format("2006-01-02")
		resp.ValidadeFim = &d
	}
	return resp
}
