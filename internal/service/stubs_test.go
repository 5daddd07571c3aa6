package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"
	"rutaventas/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Transactor ───────────────────────────────────────────────────────────────

// stubTx runs transaction bodies one at a time with a nil *gorm.DB, which the
// stub repositories ignore. Serializing them stands in for row locks.
type stubTx struct{ mu sync.Mutex }

func (t *stubTx) WithinTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(nil)
}

var _ repository.Transactor = (*stubTx)(nil)

// ── Usuarios ─────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) add(u model.Usuario) *model.Usuario {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = &u
	return &u
}

func (r *stubUsuarioRepo) get(id uuid.UUID) model.Usuario {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.users[id]
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || (u.Email != nil && *u.Email == username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubUsuarioRepo) List(_ context.Context, rol string, incluirInactivos bool) ([]model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Usuario
	for _, u := range r.users {
		if (rol == "" || string(u.Rol) == rol) && (incluirInactivos || u.Activo) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

func (r *stubUsuarioRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	return r.FindByIDTx(tx, id)
}

func (r *stubUsuarioRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) FindByCamionTx(_ *gorm.DB, camionID uuid.UUID) ([]model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Usuario
	for _, u := range r.users {
		if u.CamionID != nil && *u.CamionID == camionID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) SetCamionTx(_ *gorm.DB, id uuid.UUID, camionID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].CamionID = camionID
	return nil
}

func (r *stubUsuarioRepo) SetCargaActivaTx(_ *gorm.DB, id uuid.UUID, cargaID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].CargaActivaID = &cargaID
	return nil
}

func (r *stubUsuarioRepo) ClearCargaActivaTx(_ *gorm.DB, id uuid.UUID, cargaID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok && u.CargaActivaID != nil && *u.CargaActivaID == cargaID {
		u.CargaActivaID = nil
	}
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) add(nombre, precio string) model.Producto {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := model.Producto{ID: uuid.New(), Nombre: nombre, Precio: decimal.RequireFromString(precio), Activo: true}
	r.productos[p.ID] = &p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.Eliminado {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out, _ := r.ListActivos(context.Background())
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && !p.Eliminado {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Eliminado, p.Activo = true, false
	return nil
}

func (r *stubProductoRepo) FindByIDsTx(_ *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]model.Producto)
	for _, id := range ids {
		if p, ok := r.productos[id]; ok && !p.Eliminado {
			out[id] = *p
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindActivosByNombresTx(_ *gorm.DB, nombres []string) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(nombres))
	for _, n := range nombres {
		want[n] = true
	}
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && !p.Eliminado && want[strings.ToLower(p.Nombre)] {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Cargas ───────────────────────────────────────────────────────────────────

type stubCargaRepo struct {
	mu     sync.Mutex
	cargas map[uuid.UUID]*model.Carga
	lineas map[uuid.UUID]*model.CargaProducto
	orden  []uuid.UUID // line insertion order
}

func newStubCargaRepo() *stubCargaRepo {
	return &stubCargaRepo{
		cargas: make(map[uuid.UUID]*model.Carga),
		lineas: make(map[uuid.UUID]*model.CargaProducto),
	}
}

func (r *stubCargaRepo) carga(id uuid.UUID) model.Carga {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.cargas[id]
}

// linea returns the catalogued line of productoID in cargaID.
func (r *stubCargaRepo) linea(cargaID, productoID uuid.UUID) model.CargaProducto {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lineas {
		if l.CargaID == cargaID && l.ProductoID != nil && *l.ProductoID == productoID {
			return *l
		}
	}
	return model.CargaProducto{}
}

func (r *stubCargaRepo) CreateTx(_ *gorm.DB, c *model.Carga) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	cp := *c
	cp.Productos = nil
	r.cargas[c.ID] = &cp
	return nil
}

func (r *stubCargaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Carga, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubCargaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Carga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cargas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCargaRepo) FindByIDLockedTx(tx *gorm.DB, id uuid.UUID, _ string) (*model.Carga, error) {
	return r.FindByIDTx(tx, id)
}

func (r *stubCargaRepo) MarcarListaTx(_ *gorm.DB, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.cargas[id]
	c.ListaParaConfirmar = true
	c.ListaAt = &at
	return nil
}

func (r *stubCargaRepo) MarcarProcesadaTx(_ *gorm.DB, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.cargas[id]
	c.Procesada = true
	c.ProcesadaAt = &at
	return nil
}

func (r *stubCargaRepo) ListLineas(_ context.Context, cargaID uuid.UUID) ([]model.CargaProducto, error) {
	return r.ListLineasTx(nil, cargaID)
}

func (r *stubCargaRepo) ListLineasTx(_ *gorm.DB, cargaID uuid.UUID) ([]model.CargaProducto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CargaProducto
	for _, id := range r.orden {
		if l := r.lineas[id]; l.CargaID == cargaID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubCargaRepo) UpsertLineaTx(_ *gorm.DB, l *model.CargaProducto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, existing := range r.lineas {
		if existing.CargaID != l.CargaID {
			continue
		}
		sameProducto := l.ProductoID != nil && existing.ProductoID != nil && *existing.ProductoID == *l.ProductoID
		sameNombre := l.ProductoID == nil && existing.ProductoID == nil && existing.NombreProducto == l.NombreProducto
		if sameProducto || sameNombre {
			existing.CantidadCargada = existing.CantidadCargada.Add(l.CantidadCargada)
			existing.UpdatedAt = now
			*l = *existing
			return nil
		}
	}
	l.ID = uuid.New()
	l.CreatedAt, l.UpdatedAt = now, now
	cp := *l
	r.lineas[l.ID] = &cp
	r.orden = append(r.orden, l.ID)
	return nil
}

func (r *stubCargaRepo) LockLineasTx(_ *gorm.DB, cargaID uuid.UUID, f repository.LineaFilter) ([]model.CargaProducto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[uuid.UUID]bool)
	for _, id := range f.ProductoIDs {
		ids[id] = true
	}
	nombres := make(map[string]bool)
	for _, n := range f.Nombres {
		nombres[n] = true
	}
	var out []model.CargaProducto
	for _, l := range r.lineas {
		if l.CargaID != cargaID || l.ProductoID == nil {
			continue
		}
		if ids[*l.ProductoID] || nombres[strings.ToLower(l.NombreProducto)] {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductoID.String() < out[j].ProductoID.String() })
	return out, nil
}

func (r *stubCargaRepo) IncrementarVendidaTx(_ *gorm.DB, lineaID uuid.UUID, cantidad decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.lineas[lineaID]
	l.CantidadVendida = l.CantidadVendida.Add(cantidad)
	return nil
}

func (r *stubCargaRepo) IncrementarDevueltaTx(_ *gorm.DB, lineaID uuid.UUID, cantidad decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.lineas[lineaID]
	l.CantidadDevuelta = l.CantidadDevuelta.Add(cantidad)
	return nil
}

var _ repository.CargaRepository = (*stubCargaRepo)(nil)

// ── Ventas al publico ────────────────────────────────────────────────────────

type stubVentaRepo struct {
	mu     sync.Mutex
	ventas []model.VentaPublico
}

func (r *stubVentaRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ventas)
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.VentaPublico) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	for i := range v.Detalles {
		v.Detalles[i].ID = uuid.New()
		v.Detalles[i].VentaID = v.ID
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.VentaPublico, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ventas {
		if r.ventas[i].ID == id {
			v := r.ventas[i]
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) ListByVendedor(_ context.Context, vendedorID uuid.UUID, _ string) ([]model.VentaPublico, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.VentaPublico
	for _, v := range r.ventas {
		if v.VendedorID == vendedorID {
			out = append(out, v)
		}
	}
	return out, nil
}

var _ repository.VentaPublicoRepository = (*stubVentaRepo)(nil)

// ── Clientes ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	mu       sync.Mutex
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) add(c model.Cliente) model.Cliente {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = &c
	return c
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.clientes {
		if existing.CodigoQR == c.CodigoQR {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) FindByQR(_ context.Context, codigo string) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clientes {
		if c.CodigoQR == codigo && c.Activo {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByID(context.Background(), id)
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Creditos ─────────────────────────────────────────────────────────────────

type stubCreditoRepo struct {
	mu       sync.Mutex
	creditos map[uuid.UUID]*model.Credito
	pagos    []model.PagoCredito
}

func newStubCreditoRepo() *stubCreditoRepo {
	return &stubCreditoRepo{creditos: make(map[uuid.UUID]*model.Credito)}
}

func (r *stubCreditoRepo) add(clienteID uuid.UUID, monto string) model.Credito {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := model.Credito{
		ID:        uuid.New(),
		ClienteID: clienteID,
		Monto:     decimal.RequireFromString(monto),
		Estado:    model.CreditoPendiente,
		CreatedAt: time.Now(),
	}
	r.creditos[c.ID] = &c
	return c
}

func (r *stubCreditoRepo) numPagos() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pagos)
}

func (r *stubCreditoRepo) CreateTx(_ *gorm.DB, c *model.Credito) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	r.creditos[c.ID] = &cp
	return nil
}

func (r *stubCreditoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Credito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creditos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCreditoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Credito, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCreditoRepo) pagadoLocked(creditoID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.pagos {
		if p.CreditoID == creditoID {
			total = total.Add(p.Monto)
		}
	}
	return total
}

func (r *stubCreditoRepo) PagadoTx(_ *gorm.DB, creditoID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pagadoLocked(creditoID), nil
}

func (r *stubCreditoRepo) SaldoClienteTx(_ *gorm.DB, clienteID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saldo := decimal.Zero
	for _, c := range r.creditos {
		if c.ClienteID == clienteID {
			saldo = saldo.Add(decimal.Max(c.Monto.Sub(r.pagadoLocked(c.ID)), decimal.Zero))
		}
	}
	return saldo, nil
}

func (r *stubCreditoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creditos[id].Estado = estado
	return nil
}

func (r *stubCreditoRepo) CreatePagoTx(_ *gorm.DB, p *model.PagoCredito) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubCreditoRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]repository.CreditoConPagado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.CreditoConPagado
	for _, c := range r.creditos {
		if c.ClienteID == clienteID {
			out = append(out, repository.CreditoConPagado{Credito: *c, Pagado: r.pagadoLocked(c.ID)})
		}
	}
	return out, nil
}

func (r *stubCreditoRepo) ListPagos(_ context.Context, creditoID uuid.UUID) ([]model.PagoCredito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PagoCredito
	for _, p := range r.pagos {
		if p.CreditoID == creditoID {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repository.CreditoRepository = (*stubCreditoRepo)(nil)

// ── Devoluciones / Visitas ───────────────────────────────────────────────────

type stubDevolucionRepo struct {
	mu           sync.Mutex
	devoluciones []model.Devolucion
}

func (r *stubDevolucionRepo) CreateTx(_ *gorm.DB, d *model.Devolucion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	r.devoluciones = append(r.devoluciones, *d)
	return nil
}

func (r *stubDevolucionRepo) Resumen(_ context.Context, _ dto.ResumenFilter) ([]dto.ResumenDevolucionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := make(map[uuid.UUID]int)
	var out []dto.ResumenDevolucionItem
	for _, d := range r.devoluciones {
		for _, det := range d.Detalles {
			i, ok := idx[det.ProductoID]
			if !ok {
				i = len(out)
				idx[det.ProductoID] = i
				out = append(out, dto.ResumenDevolucionItem{ProductoID: det.ProductoID.String(), Nombre: det.NombreProducto})
			}
			out[i].TotalDevuelto = out[i].TotalDevuelto.Add(det.Cantidad)
			out[i].Devoluciones++
		}
	}
	return out, nil
}

var _ repository.DevolucionRepository = (*stubDevolucionRepo)(nil)

type stubVisitaRepo struct {
	mu      sync.Mutex
	visitas []model.Visita
}

func (r *stubVisitaRepo) Create(_ context.Context, v *model.Visita) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	r.visitas = append(r.visitas, *v)
	return nil
}

func (r *stubVisitaRepo) ListByVendedor(_ context.Context, vendedorID uuid.UUID, _ string) ([]model.Visita, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Visita
	for _, v := range r.visitas {
		if v.VendedorID == vendedorID {
			out = append(out, v)
		}
	}
	return out, nil
}

var _ repository.VisitaRepository = (*stubVisitaRepo)(nil)

// ── Collaborators ────────────────────────────────────────────────────────────

type publishedEvent struct {
	sellerID uuid.UUID
	typ      string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, sellerID uuid.UUID, eventType string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{sellerID: sellerID, typ: eventType})
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.typ
	}
	return out
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []worker.ComprobanteJobPayload
	err  error
}

func (e *recordingEnqueuer) EnqueueComprobante(_ context.Context, p worker.ComprobanteJobPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, p)
	return e.err
}
