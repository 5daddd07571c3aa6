package router

import (
	"time"

	"rutaventas/internal/config"
	"rutaventas/internal/handler"
	"rutaventas/internal/middleware"
	"rutaventas/internal/model"
	"rutaventas/internal/notify"
	"rutaventas/internal/repository"
	"rutaventas/internal/service"
	"rutaventas/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	tx := repository.NewTransactor(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	camionRepo := repository.NewCamionRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	descuentoRepo := repository.NewDescuentoRepository(db)
	cargaRepo := repository.NewCargaRepository(db)
	ventaRepo := repository.NewVentaPublicoRepository(db)
	devolucionRepo := repository.NewDevolucionRepository(db)
	visitaRepo := repository.NewVisitaRepository(db)
	creditoRepo := repository.NewCreditoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	publisher := notify.NewRedisPublisher(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	camionSvc := service.NewCamionService(camionRepo, usuarioRepo, tx)
	clienteSvc := service.NewClienteService(clienteRepo, creditoRepo)
	descuentoSvc := service.NewDescuentoService(descuentoRepo, productoRepo, tx)
	cargaSvc := service.NewCargaService(cargaRepo, usuarioRepo, productoRepo, tx, publisher)
	ventaSvc := service.NewVentaPublicoService(ventaRepo, cargaRepo, usuarioRepo, tx, publisher, dispatcher)
	devolucionSvc := service.NewDevolucionService(devolucionRepo, cargaRepo, usuarioRepo, clienteRepo, tx)
	visitaSvc := service.NewVisitaService(visitaRepo, clienteRepo, usuarioRepo)
	creditoSvc := service.NewCreditoService(creditoRepo, clienteRepo, ventaRepo, tx)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	camionesH := handler.NewCamionesHandler(camionSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	descuentosH := handler.NewDescuentosHandler(descuentoSvc)
	cargasH := handler.NewCargasHandler(cargaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, cargaSvc)
	devolucionesH := handler.NewDevolucionesHandler(devolucionSvc)
	visitasH := handler.NewVisitasHandler(visitaSvc)
	creditosH := handler.NewCreditosHandler(creditoSvc)
	eventosH := handler.NewEventosHandler(publisher, cfg.JWTSecret)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/api/:rol/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/api/auth/refresh", middleware.LoginRateLimiter(), authH.Refresh)

	// SSE authenticates with ?token= because EventSource cannot send headers.
	r.GET("/api/vendedor/eventos", eventosH.Stream)

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)

	api.GET("/catalogo/productos", productosH.Catalogo)

	admin := api.Group("/admin", middleware.RequireRole(model.RolAdministrador))
	{
		admin.POST("/usuarios", usuariosH.Crear)
		admin.GET("/usuarios", usuariosH.Listar)
		admin.DELETE("/usuarios/:id", usuariosH.Desactivar)

		admin.POST("/productos", productosH.Crear)
		admin.GET("/productos", productosH.Listar)
		admin.GET("/productos/:id", productosH.Obtener)
		admin.PUT("/productos/:id", productosH.Actualizar)
		admin.DELETE("/productos/:id", productosH.Eliminar)

		admin.POST("/camiones", camionesH.Crear)
		admin.GET("/camiones", camionesH.Listar)
		admin.PUT("/camiones/:id", camionesH.Actualizar)
		admin.POST("/camiones/:id/asignar", camionesH.Asignar)

		admin.POST("/clientes", clientesH.Crear)
		admin.GET("/clientes", clientesH.Listar)
		admin.GET("/clientes/:id", clientesH.Obtener)
		admin.PUT("/clientes/:id", clientesH.Actualizar)
		admin.GET("/clientes/:id/estado-cuenta", clientesH.EstadoCuenta)
		admin.POST("/clientes/:id/creditos", creditosH.Crear)
		admin.GET("/creditos/:id/pagos", creditosH.ListarPagos)

		admin.POST("/descuentos", descuentosH.Crear)
		admin.GET("/descuentos", descuentosH.ListarVigentes)
		admin.DELETE("/descuentos/:id", descuentosH.Desactivar)

		admin.POST("/cargas/:id/procesar", cargasH.Procesar)
	}

	// Sellers collect payments on their route; administrators from the office.
	api.POST("/clientes/:id/pagos", middleware.RequireRole(model.RolAdministrador, model.RolVendedor), creditosH.Pagar)

	cargador := api.Group("/cargador", middleware.RequireRole(model.RolCargador, model.RolAdministrador))
	{
		cargador.POST("/cargas", cargasH.Abrir)
		cargador.POST("/carga-agregar/agregar", cargasH.Agregar)
		cargador.POST("/cargas/:id/lista", cargasH.MarcarLista)
		cargador.GET("/cargas/:id", cargasH.Obtener)
	}

	vendedor := api.Group("/vendedor", middleware.RequireRole(model.RolVendedor, model.RolAdministrador))
	{
		vendedor.GET("/ventapublico/carga-activa/:sellerId", ventasH.CargaActiva)
		vendedor.POST("/ventapublico/vender", ventasH.Vender)
		vendedor.GET("/ventapublico/ventas", ventasH.Listar)
		vendedor.POST("/devoluciones", devolucionesH.Registrar)
		vendedor.GET("/clientes/qr/:codigo", clientesH.BuscarPorQR)
		vendedor.POST("/visitas", visitasH.Registrar)
		vendedor.GET("/visitas", visitasH.Listar)
	}

	devoluciones := api.Group("/devoluciones", middleware.RequireRole(model.RolDevoluciones, model.RolAdministrador))
	{
		devoluciones.GET("/resumen", devolucionesH.Resumen)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
