package router

import (
	"time"

	"varejopos/internal/authz"
	"varejopos/internal/config"
	"varejopos/internal/handler"
	"varejopos/internal/middleware"
	"varejopos/internal/repository"
	"varejopos/internal/service"
	"varejopos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	relogio := service.NewRelogio(cfg.Timezone)

	// ── Repositories ─────────────────────────────────────────────────────────
	funcionarioRepo := repository.NewFuncionarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	estoqueRepo := repository.NewEstoqueRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	contaRepo := repository.NewContaReceberRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(funcionarioRepo, cfg)
	funcionarioSvc := service.NewFuncionarioService(funcionarioRepo, clienteRepo)
	clienteSvc := service.NewClienteService(clienteRepo, funcionarioRepo)
	produtoSvc := service.NewProdutoService(produtoRepo, estoqueRepo, rdb)
	caixaSvc := service.NewCaixaService(caixaRepo, relogio)
	descontoSvc := service.NewDescontoService(voucherRepo, funcionarioRepo, relogio)
	vendaSvc := service.NewVendaService(
		vendaRepo, caixaRepo, produtoRepo, estoqueRepo,
		clienteRepo, funcionarioRepo, contaRepo,
		descontoSvc, relogio, dispatcher,
	)
	contaSvc := service.NewContaReceberService(contaRepo, caixaRepo, caixaSvc, relogio, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	funcionariosH := handler.NewFuncionarioHandler(funcionarioSvc)
	clientesH := handler.NewClienteHandler(clienteSvc)
	produtosH := handler.NewProdutoHandler(produtoSvc)
	caixasH := handler.NewCaixaHandler(caixaSvc)
	vendasH := handler.NewVendaHandler(vendaSvc)
	vouchersH := handler.NewVoucherHandler(descontoSvc)
	contasH := handler.NewContaHandler(contaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		caixas := v1.Group("/caixas")
		{
			caixas.POST("/abrir", middleware.RequireOperacao(authz.OpAbrirCaixa), caixasH.Abrir)
			caixas.POST("/fechar", middleware.RequireOperacao(authz.OpFecharCaixa), caixasH.Fechar)
			caixas.POST("/movimentacoes", middleware.RequireOperacao(authz.OpMovimentarCaixa), caixasH.Movimentar)
			caixas.GET("/atual", caixasH.Atual)
			caixas.GET("/relatorio", middleware.RequireOperacao(authz.OpRelatorioCaixa), caixasH.Relatorio)
			caixas.GET("/:id", caixasH.BuscarPorID)
		}

		v1.POST("/vendas", middleware.RequireOperacao(authz.OpRegistrarVenda), vendasH.Registrar)
		v1.GET("/vendas", middleware.RequireOperacao(authz.OpListarVendas), vendasH.Listar)
		v1.GET("/vendas/:id", middleware.RequireOperacao(authz.OpListarVendas), vendasH.BuscarPorID)
		v1.POST("/vendas/:id/cancelar", middleware.RequireOperacao(authz.OpCancelarVenda), vendasH.Cancelar)
		v1.POST("/vendas/:id/reativar", middleware.RequireOperacao(authz.OpReativarVenda), vendasH.Reativar)

		v1.POST("/contas-receber/:id/pagar", middleware.RequireOperacao(authz.OpPagarParcela), contasH.PagarParcela)
		v1.GET("/contas-receber/:id", middleware.RequireOperacao(authz.OpConsultarContas), contasH.BuscarPorID)
		v1.GET("/clientes/:id/contas-receber", middleware.RequireOperacao(authz.OpConsultarContas), contasH.ListarPorCliente)

		vouchers := v1.Group("/vouchers", middleware.RequireOperacao(authz.OpGerenciarVouchers))
		{
			vouchers.POST("", vouchersH.Criar)
			vouchers.GET("", vouchersH.Listar)
			vouchers.PUT("/:id", vouchersH.Atualizar)
		}

		// Catalog reads stay open to every role (POS sync); writes are gated.
		v1.GET("/produtos", produtosH.Listar)
		v1.GET("/produtos/:id", produtosH.BuscarPorID)
		v1.GET("/preco/:variacao_id", produtosH.ConsultarPreco)
		produtos := v1.Group("", middleware.RequireOperacao(authz.OpGerenciarProdutos))
		{
			produtos.POST("/produtos", produtosH.Criar)
			produtos.PUT("/produtos/:id", produtosH.Atualizar)
			produtos.PUT("/variacoes/:id", produtosH.AtualizarVariacao)
		}

		v1.GET("/unidades/:unidade_id/estoque", produtosH.ListarEstoque)
		v1.PUT("/variacoes/:id/estoque", middleware.RequireOperacao(authz.OpGerenciarEstoque), produtosH.AjustarEstoque)

		funcionarios := v1.Group("/funcionarios", middleware.RequireOperacao(authz.OpGerenciarPessoas))
		{
			funcionarios.POST("", funcionariosH.Criar)
			funcionarios.GET("", funcionariosH.Listar)
			funcionarios.GET("/:id", funcionariosH.BuscarPorID)
			funcionarios.PUT("/:id", funcionariosH.Atualizar)
			funcionarios.PUT("/:id/pin", funcionariosH.DefinirPin)
		}

		v1.POST("/clientes", clientesH.Criar)
		v1.GET("/clientes", clientesH.Listar)
		v1.GET("/clientes/:id", clientesH.BuscarPorID)
		v1.PUT("/clientes/:id", middleware.RequireOperacao(authz.OpGerenciarPessoas), clientesH.Atualizar)
		v1.PUT("/clientes/:id/limite", middleware.RequireOperacao(authz.OpDefinirLimite), clientesH.DefinirLimite)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
