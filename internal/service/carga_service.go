package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/notify"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CargaService is the load manager: it opens a seller's load, stages goods
// onto it and closes it.
type CargaService interface {
	// AbrirCarga returns the seller's open load, creating one on the seller's
	// assigned truck when there is none.
	AbrirCarga(ctx context.Context, vendedorID uuid.UUID) (*dto.CargaResponse, error)
	// AgregarProductos adds quantities to the load's lines. It is a pure
	// accumulation: no stock is checked and sale counters are never touched, so
	// batches commute.
	AgregarProductos(ctx context.Context, req dto.AgregarProductosRequest) ([]dto.CargaProductoResponse, error)
	MarcarLista(ctx context.Context, cargaID uuid.UUID) (*dto.CargaResponse, error)
	// ProcesarCarga closes the load for good and clears it as the seller's
	// active load.
	ProcesarCarga(ctx context.Context, cargaID uuid.UUID) (*dto.CargaResponse, error)
	ObtenerCarga(ctx context.Context, cargaID uuid.UUID) (*dto.CargaSnapshot, error)
	// CargaActiva returns nil when the seller has no open load with sellable
	// goods.
	CargaActiva(ctx context.Context, vendedorID uuid.UUID) (*dto.CargaSnapshot, error)
}

type cargaService struct {
	repo      repository.CargaRepository
	usuarios  repository.UsuarioRepository
	productos repository.ProductoRepository
	tx        repository.Transactor
	notifier  notify.Publisher
}

func NewCargaService(
	repo repository.CargaRepository,
	usuarios repository.UsuarioRepository,
	productos repository.ProductoRepository,
	tx repository.Transactor,
	notifier notify.Publisher,
) CargaService {
	return &cargaService{repo: repo, usuarios: usuarios, productos: productos, tx: tx, notifier: notifier}
}

// ── AbrirCarga ───────────────────────────────────────────────────────────────

func (s *cargaService) AbrirCarga(ctx context.Context, vendedorID uuid.UUID) (*dto.CargaResponse, error) {
	var carga *model.Carga
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		vendedor, err := requireVendedor(s.usuarios.FindByIDForUpdateTx(tx, vendedorID))
		if err != nil {
			return err
		}

		if vendedor.CargaActivaID != nil {
			actual, err := s.repo.FindByIDTx(tx, *vendedor.CargaActivaID)
			if err != nil && !isNotFound(err) {
				return err
			}
			if err == nil && !actual.Procesada {
				carga = actual
				return nil
			}
		}

		if vendedor.CamionID == nil {
			return apierror.Conflict("el vendedor no tiene camion asignado")
		}
		carga = &model.Carga{VendedorID: vendedor.ID, CamionID: *vendedor.CamionID}
		if err := s.repo.CreateTx(tx, carga); err != nil {
			return err
		}
		return s.usuarios.SetCargaActivaTx(tx, vendedor.ID, carga.ID)
	})
	if err != nil {
		return nil, passthrough("abrir carga", err)
	}
	resp := cargaToResponse(carga)
	return &resp, nil
}

// ── AgregarProductos (stage-in) ──────────────────────────────────────────────

// itemCarga is a validated stage-in line.
type itemCarga struct {
	productoID *uuid.UUID
	nombre     string // as typed, trimmed
	cantidad   decimal.Decimal
}

func (i itemCarga) key() string {
	if i.productoID != nil {
		return "id:" + i.productoID.String()
	}
	return "nombre:" + strings.ToLower(i.nombre)
}

func parseItemsCarga(in []dto.ItemCarga) ([]itemCarga, error) {
	if len(in) == 0 {
		return nil, apierror.InvalidItem("la solicitud no contiene items")
	}
	merged := make(map[string]*itemCarga)
	for i, raw := range in {
		it := itemCarga{}
		if raw.Nombre != nil {
			it.nombre = strings.TrimSpace(*raw.Nombre)
		}
		if raw.ProductoID != nil && strings.TrimSpace(*raw.ProductoID) != "" {
			id, err := uuid.Parse(strings.TrimSpace(*raw.ProductoID))
			if err != nil {
				return nil, apierror.InvalidItem(fmt.Sprintf("productoId invalido en el item %d", i+1))
			}
			it.productoID = &id
		} else if it.nombre == "" {
			return nil, apierror.InvalidItem(fmt.Sprintf("el item %d no indica producto", i+1))
		}
		etiqueta := it.nombre
		if it.productoID != nil {
			etiqueta = it.productoID.String()
		}
		if err := validarCantidad(raw.Cantidad, etiqueta); err != nil {
			return nil, err
		}
		it.cantidad = raw.Cantidad

		if prev, ok := merged[it.key()]; ok {
			prev.cantidad = prev.cantidad.Add(it.cantidad)
			continue
		}
		merged[it.key()] = &it
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]itemCarga, len(keys))
	for i, k := range keys {
		out[i] = *merged[k]
	}
	return out, nil
}

func (s *cargaService) AgregarProductos(ctx context.Context, req dto.AgregarProductosRequest) ([]dto.CargaProductoResponse, error) {
	cargaID, err := parseID("cargaId", req.CargaID)
	if err != nil {
		return nil, err
	}
	items, err := parseItemsCarga(req.Items)
	if err != nil {
		return nil, err
	}

	var (
		carga  *model.Carga
		lineas []model.CargaProducto
	)
	err = s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		carga, err = s.repo.FindByIDLockedTx(tx, cargaID, repository.LockShare)
		if err != nil {
			if isNotFound(err) {
				return apierror.LoadNotFound("carga no encontrada", false)
			}
			return err
		}
		if carga.Procesada {
			return apierror.LoadNotFound("la carga ya fue procesada", true)
		}

		nuevas, err := s.resolverItems(tx, cargaID, items)
		if err != nil {
			return err
		}
		for i := range nuevas {
			if err := s.repo.UpsertLineaTx(tx, &nuevas[i]); err != nil {
				return err
			}
		}

		lineas, err = s.repo.ListLineasTx(tx, cargaID)
		return err
	})
	if err != nil {
		return nil, passthrough("agregar productos", err)
	}

	s.publish(ctx, carga.VendedorID, notify.EventCargaActualizada, map[string]string{"cargaId": cargaID.String()})

	resp := make([]dto.CargaProductoResponse, len(lineas))
	for i := range lineas {
		resp[i] = lineaToResponse(&lineas[i])
	}
	return resp, nil
}

// resolverItems turns stage-in items into line rows. Catalogued products are
// captured with their current name and price. A name-only item is linked to
// the catalog when exactly one active product carries that name; otherwise it
// is kept by name for traceability and cannot be sold.
func (s *cargaService) resolverItems(tx *gorm.DB, cargaID uuid.UUID, items []itemCarga) ([]model.CargaProducto, error) {
	var ids []uuid.UUID
	var nombres []string
	for _, it := range items {
		if it.productoID != nil {
			ids = append(ids, *it.productoID)
		} else {
			nombres = append(nombres, strings.ToLower(it.nombre))
		}
	}

	catalogo, err := s.productos.FindByIDsTx(tx, ids)
	if err != nil {
		return nil, err
	}
	porNombre := make(map[string][]model.Producto)
	if len(nombres) > 0 {
		encontrados, err := s.productos.FindActivosByNombresTx(tx, nombres)
		if err != nil {
			return nil, err
		}
		for _, p := range encontrados {
			k := strings.ToLower(strings.TrimSpace(p.Nombre))
			porNombre[k] = append(porNombre[k], p)
		}
	}

	out := make([]model.CargaProducto, 0, len(items))
	for _, it := range items {
		linea := model.CargaProducto{CargaID: cargaID, CantidadCargada: it.cantidad}

		var producto *model.Producto
		if it.productoID != nil {
			if p, ok := catalogo[*it.productoID]; ok {
				producto = &p
			} else if it.nombre == "" {
				return nil, apierror.InvalidItem("el producto " + it.productoID.String() + " no existe")
			}
		} else if cands := porNombre[strings.ToLower(it.nombre)]; len(cands) == 1 {
			producto = &cands[0]
		} else if len(cands) > 1 {
			return nil, apierror.InvalidItem(fmt.Sprintf("el nombre %q coincide con %d productos; indique productoId", it.nombre, len(cands)))
		}

		if producto != nil {
			if !producto.Activo {
				return nil, apierror.InvalidItem("el producto " + producto.Nombre + " esta inactivo")
			}
			id := producto.ID
			linea.ProductoID = &id
			linea.NombreProducto = producto.Nombre
			linea.PrecioUnitario = producto.Precio
		} else {
			linea.NombreProducto = it.nombre
			linea.PrecioUnitario = decimal.Zero
		}
		out = append(out, linea)
	}

	// Two items may resolve to the same catalog product (one by id, one by
	// name); a single INSERT ... ON CONFLICT cannot touch a row twice, so merge.
	return ordenarLineas(mergeLineas(out)), nil
}

// ordenarLineas puts catalogued lines first in producto_id order, which is the
// order sales and returns lock them in, then name-only lines by name. Every
// upsert row-locks its line, so stage-ins and sales on the same load must agree
// on it.
func ordenarLineas(lineas []model.CargaProducto) []model.CargaProducto {
	sort.SliceStable(lineas, func(i, j int) bool {
		a, b := lineas[i].ProductoID, lineas[j].ProductoID
		switch {
		case a != nil && b != nil:
			return bytes.Compare(a[:], b[:]) < 0
		case a != nil || b != nil:
			return a != nil
		}
		return strings.ToLower(lineas[i].NombreProducto) < strings.ToLower(lineas[j].NombreProducto)
	})
	return lineas
}

func mergeLineas(in []model.CargaProducto) []model.CargaProducto {
	idx := make(map[string]int, len(in))
	out := in[:0]
	for _, l := range in {
		k := "nombre:" + strings.ToLower(l.NombreProducto)
		if l.ProductoID != nil {
			k = "id:" + l.ProductoID.String()
		}
		if i, ok := idx[k]; ok {
			out[i].CantidadCargada = out[i].CantidadCargada.Add(l.CantidadCargada)
			continue
		}
		idx[k] = len(out)
		out = append(out, l)
	}
	return out
}

// ── MarcarLista / ProcesarCarga ──────────────────────────────────────────────

func (s *cargaService) MarcarLista(ctx context.Context, cargaID uuid.UUID) (*dto.CargaResponse, error) {
	var carga *model.Carga
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		var err error
		carga, err = s.repo.FindByIDLockedTx(tx, cargaID, repository.LockUpdate)
		if err != nil {
			if isNotFound(err) {
				return apierror.LoadNotFound("carga no encontrada", false)
			}
			return err
		}
		if carga.Procesada {
			return apierror.LoadNotFound("la carga ya fue procesada", true)
		}
		if carga.ListaParaConfirmar {
			return nil
		}
		now := time.Now()
		if err := s.repo.MarcarListaTx(tx, cargaID, now); err != nil {
			return err
		}
		carga.ListaParaConfirmar = true
		carga.ListaAt = &now
		return nil
	})
	if err != nil {
		return nil, passthrough("marcar carga lista", err)
	}
	resp := cargaToResponse(carga)
	return &resp, nil
}

func (s *cargaService) ProcesarCarga(ctx context.Context, cargaID uuid.UUID) (*dto.CargaResponse, error) {
	var carga *model.Carga
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		var err error
		// FOR UPDATE waits for in-flight sales and stage-ins holding FOR SHARE.
		carga, err = s.repo.FindByIDLockedTx(tx, cargaID, repository.LockUpdate)
		if err != nil {
			if isNotFound(err) {
				return apierror.LoadNotFound("carga no encontrada", false)
			}
			return err
		}
		if carga.Procesada {
			return apierror.LoadNotFound("la carga ya fue procesada", true)
		}
		now := time.Now()
		if err := s.repo.MarcarProcesadaTx(tx, cargaID, now); err != nil {
			return err
		}
		if err := s.usuarios.ClearCargaActivaTx(tx, carga.VendedorID, cargaID); err != nil {
			return err
		}
		carga.Procesada = true
		carga.ProcesadaAt = &now
		return nil
	})
	if err != nil {
		return nil, passthrough("procesar carga", err)
	}

	s.publish(ctx, carga.VendedorID, notify.EventCargaProcesada, map[string]string{"cargaId": cargaID.String()})
	resp := cargaToResponse(carga)
	return &resp, nil
}

// ── Snapshots ────────────────────────────────────────────────────────────────

func (s *cargaService) ObtenerCarga(ctx context.Context, cargaID uuid.UUID) (*dto.CargaSnapshot, error) {
	carga, err := s.repo.FindByID(ctx, cargaID)
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.LoadNotFound("carga no encontrada", false)
		}
		return nil, storeErr("obtener carga", err)
	}
	return s.snapshot(ctx, carga)
}

func (s *cargaService) CargaActiva(ctx context.Context, vendedorID uuid.UUID) (*dto.CargaSnapshot, error) {
	vendedor, err := requireVendedor(s.usuarios.FindByID(ctx, vendedorID))
	if err != nil {
		return nil, passthrough("carga activa", err)
	}
	if vendedor.CargaActivaID == nil {
		return nil, nil
	}
	carga, err := s.repo.FindByID(ctx, *vendedor.CargaActivaID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, storeErr("carga activa", err)
	}
	return s.snapshot(ctx, carga)
}

// snapshot lists the lines with goods left to sell; productosNuevos are those
// first staged after the loader marked the load ready. A processed or empty
// load yields nil.
func (s *cargaService) snapshot(ctx context.Context, carga *model.Carga) (*dto.CargaSnapshot, error) {
	if carga.Procesada {
		return nil, nil
	}
	lineas, err := s.repo.ListLineas(ctx, carga.ID)
	if err != nil {
		return nil, storeErr("listar lineas de carga", err)
	}

	snap := &dto.CargaSnapshot{
		Carga:           cargaToResponse(carga),
		ProductosNuevos: []dto.CargaProductoResponse{},
		Productos:       []dto.CargaProductoResponse{},
	}
	for i := range lineas {
		l := &lineas[i]
		if !l.Disponible().IsPositive() {
			continue
		}
		r := lineaToResponse(l)
		snap.Productos = append(snap.Productos, r)
		if carga.ListaAt != nil && l.CreatedAt.After(*carga.ListaAt) {
			snap.ProductosNuevos = append(snap.ProductosNuevos, r)
		}
	}
	if len(snap.Productos) == 0 {
		return nil, nil
	}
	return snap, nil
}

func (s *cargaService) publish(ctx context.Context, vendedorID uuid.UUID, event string, data interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, vendedorID, event, data); err != nil {
		log.Warn().Err(err).Str("vendedor_id", vendedorID.String()).Str("event", event).Msg("notify failed")
	}
}

func cargaToResponse(c *model.Carga) dto.CargaResponse {
	resp := dto.CargaResponse{
		ID:                 c.ID.String(),
		VendedorID:         c.VendedorID.String(),
		CamionID:           c.CamionID.String(),
		Procesada:          c.Procesada,
		ListaParaConfirmar: c.ListaParaConfirmar,
		CreatedAt:          c.CreatedAt.Format(timeLayout),
	}
	if c.ListaAt != nil {
		s := c.ListaAt.Format(timeLayout)
		resp.ListaAt = &s
	}
	if c.ProcesadaAt != nil {
		s := c.ProcesadaAt.Format(timeLayout)
		resp.ProcesadaAt = &s
	}
	return resp
}
