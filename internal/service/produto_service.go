package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"varejopos/internal/apierror"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
)

const precoCacheTTL = 5 * time.Minute

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	AtualizarVariacao(ctx context.Context, id uuid.UUID, req dto.AtualizarVariacaoRequest) (*dto.VariacaoResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)

	AjustarEstoque(ctx context.Context, variacaoID uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.EstoqueResponse, error)
	ListarEstoque(ctx context.Context, unidadeID uuid.UUID) ([]dto.EstoqueResponse, error)

	// ConsultarPreco serves the POS price lookup from Redis, falling back to
	// the database on a miss. Price updates invalidate the entry.
	ConsultarPreco(ctx context.Context, variacaoID uuid.UUID) (*dto.PrecoResponse, error)
}

type produtoService struct {
	produtos repository.ProdutoRepository
	estoque  repository.EstoqueRepository
	cache    *redis.Client
}

func NewProdutoService(produtos repository.ProdutoRepository, estoque repository.EstoqueRepository, cache *redis.Client) ProdutoService {
	return &produtoService{produtos: produtos, estoque: estoque, cache: cache}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	p := &model.ProdutoPai{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Ativo:     true,
	}
	for _, v := range req.Variacoes {
		if v.PrecoVenda.IsNegative() || v.PrecoCusto.IsNegative() {
			return nil, apierror.New(apierror.CodeValidation, "Preços não podem ser negativos")
		}
		p.Variacoes = append(p.Variacoes, model.ProdutoVariacao{
			Nome:       v.Nome,
			PrecoCusto: v.PrecoCusto,
			PrecoVenda: v.PrecoVenda,
			Ativo:      true,
		})
	}
	if err := s.produtos.Create(ctx, p); err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.produtos.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Produto não encontrado")
	}
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}
	if err := s.produtos.Update(ctx, p); err != nil {
		return nil, err
	}
	for i := range p.Variacoes {
		s.invalidarPreco(ctx, p.Variacoes[i].ID)
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) AtualizarVariacao(ctx context.Context, id uuid.UUID, req dto.AtualizarVariacaoRequest) (*dto.VariacaoResponse, error) {
	v, err := s.produtos.FindVariacaoByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Variação não encontrada")
	}
	if req.Nome != nil {
		v.Nome = *req.Nome
	}
	if req.PrecoCusto != nil {
		v.PrecoCusto = *req.PrecoCusto
	}
	if req.PrecoVenda != nil {
		if req.PrecoVenda.IsNegative() {
			return nil, apierror.New(apierror.CodeValidation, "Preço de venda não pode ser negativo")
		}
		v.PrecoVenda = *req.PrecoVenda
	}
	if req.Ativo != nil {
		v.Ativo = *req.Ativo
	}
	if err := s.produtos.UpdateVariacao(ctx, v); err != nil {
		return nil, err
	}
	s.invalidarPreco(ctx, v.ID)
	return variacaoToResponse(v), nil
}

func (s *produtoService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.produtos.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Produto não encontrado")
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	produtos, total, err := s.produtos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProdutoListResponse{
		Data:  make([]dto.ProdutoResponse, 0, len(produtos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range produtos {
		resp.Data = append(resp.Data, *produtoToResponse(&produtos[i]))
	}
	return resp, nil
}

func (s *produtoService) AjustarEstoque(ctx context.Context, variacaoID uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.EstoqueResponse, error) {
	unidadeID, err := uuid.Parse(req.UnidadeID)
	if err != nil {
		return nil, apierror.New(apierror.CodeValidation, "unidade_id inválido")
	}
	if _, err := s.produtos.FindVariacaoByID(ctx, variacaoID); err != nil {
		return nil, apierror.NotFound("Variação não encontrada")
	}

	saldo, err := s.estoque.FindSaldo(ctx, unidadeID, variacaoID)
	if err != nil {
		saldo = &model.EstoqueSaldo{UnidadeID: unidadeID, ProdutoVariacaoID: variacaoID}
	}
	saldo.QuantidadeAtual = req.QuantidadeAtual
	if req.QuantidadeMinima != nil {
		saldo.QuantidadeMinima = *req.QuantidadeMinima
	}
	if err := s.estoque.Upsert(ctx, saldo); err != nil {
		return nil, err
	}
	return estoqueToResponse(saldo), nil
}

func (s *produtoService) ListarEstoque(ctx context.Context, unidadeID uuid.UUID) ([]dto.EstoqueResponse, error) {
	saldos, err := s.estoque.ListPorUnidade(ctx, unidadeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstoqueResponse, 0, len(saldos))
	for i := range saldos {
		out = append(out, *estoqueToResponse(&saldos[i]))
	}
	return out, nil
}

func (s *produtoService) ConsultarPreco(ctx context.Context, variacaoID uuid.UUID) (*dto.PrecoResponse, error) {
	key := precoCacheKey(variacaoID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var cached dto.PrecoResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	v, err := s.produtos.FindVariacaoByID(ctx, variacaoID)
	if err != nil {
		return nil, apierror.NotFound("Variação não encontrada")
	}
	if !v.Ativo {
		return nil, apierror.InactiveEntity("Variação inativa")
	}
	resp := &dto.PrecoResponse{
		ProdutoVariacaoID: v.ID.String(),
		Nome:              v.NomeCompleto(),
		PrecoVenda:        v.PrecoVenda,
	}
	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, raw, precoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("variacao_id", variacaoID.String()).Msg("falha ao gravar cache de preço")
			}
		}
	}
	return resp, nil
}

func (s *produtoService) invalidarPreco(ctx context.Context, variacaoID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, precoCacheKey(variacaoID)).Err(); err != nil {
		log.Warn().Err(err).Str("variacao_id", variacaoID.String()).Msg("falha ao invalidar cache de preço")
	}
}

func precoCacheKey(variacaoID uuid.UUID) string {
	return fmt.Sprintf("preco:%s", variacaoID)
}

func produtoToResponse(p *model.ProdutoPai) *dto.ProdutoResponse {
	resp := &dto.ProdutoResponse{
		ID:        p.ID.String(),
		Nome:      p.Nome,
		Descricao: p.Descricao,
		Ativo:     p.Ativo,
	}
	for i := range p.Variacoes {
		resp.Variacoes = append(resp.Variacoes, *variacaoToResponse(&p.Variacoes[i]))
	}
	return resp
}

func variacaoToResponse(v *model.ProdutoVariacao) *dto.VariacaoResponse {
	return &dto.VariacaoResponse{
		ID:         v.ID.String(),
		Nome:       v.Nome,
		PrecoCusto: v.PrecoCusto,
		PrecoVenda: v.PrecoVenda,
		Ativo:      v.Ativo,
	}
}

func estoqueToResponse(s *model.EstoqueSaldo) *dto.EstoqueResponse {
	return &dto.EstoqueResponse{
		UnidadeID:         s.UnidadeID.String(),
		ProdutoVariacaoID: s.ProdutoVariacaoID.String(),
		QuantidadeAtual:   s.QuantidadeAtual,
		QuantidadeMinima:  s.QuantidadeMinima,
		Baixo:             s.QuantidadeAtual <= s.QuantidadeMinima,
	}
}
