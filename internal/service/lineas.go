package service

import (
	"fmt"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxDecimales is the scale of quantity columns.
const maxDecimales = 3

// lineaSolicitada is one validated request line, keyed by product id or, for
// older clients, by lower-cased name.
type lineaSolicitada struct {
	productoID *uuid.UUID
	nombre     string
	cantidad   decimal.Decimal
}

func (l lineaSolicitada) etiqueta() string {
	if l.productoID != nil {
		return l.productoID.String()
	}
	return l.nombre
}

// validarCantidad rejects non-positive quantities and those finer than the
// column scale.
func validarCantidad(cantidad decimal.Decimal, etiqueta string) error {
	if !cantidad.IsPositive() {
		return apierror.InvalidItem(fmt.Sprintf("cantidad invalida para %s: debe ser mayor a 0", etiqueta))
	}
	if !cantidad.Equal(cantidad.Round(maxDecimales)) {
		return apierror.InvalidItem(fmt.Sprintf("cantidad invalida para %s: maximo %d decimales", etiqueta, maxDecimales))
	}
	return nil
}

// parseLineas validates every line before any store access.
func parseLineas(in []dto.LineaVenta) ([]lineaSolicitada, error) {
	if len(in) == 0 {
		return nil, apierror.InvalidItem("la solicitud no contiene productos")
	}
	out := make([]lineaSolicitada, 0, len(in))
	for i, l := range in {
		var sol lineaSolicitada
		if l.ProductoID != nil && strings.TrimSpace(*l.ProductoID) != "" {
			id, err := uuid.Parse(strings.TrimSpace(*l.ProductoID))
			if err != nil {
				return nil, apierror.InvalidItem(fmt.Sprintf("productoId invalido en la linea %d", i+1))
			}
			sol.productoID = &id
		} else if l.Nombre != nil && strings.TrimSpace(*l.Nombre) != "" {
			sol.nombre = strings.ToLower(strings.TrimSpace(*l.Nombre))
		} else {
			return nil, apierror.InvalidItem(fmt.Sprintf("la linea %d no indica producto", i+1))
		}
		if err := validarCantidad(l.Cantidad, sol.etiqueta()); err != nil {
			return nil, err
		}
		sol.cantidad = l.Cantidad
		out = append(out, sol)
	}
	return out, nil
}

// filtroLineas builds the lock filter covering every requested line.
func filtroLineas(sols []lineaSolicitada) repository.LineaFilter {
	var f repository.LineaFilter
	seenID := make(map[uuid.UUID]bool)
	seenNombre := make(map[string]bool)
	for _, s := range sols {
		switch {
		case s.productoID != nil && !seenID[*s.productoID]:
			seenID[*s.productoID] = true
			f.ProductoIDs = append(f.ProductoIDs, *s.productoID)
		case s.productoID == nil && !seenNombre[s.nombre]:
			seenNombre[s.nombre] = true
			f.Nombres = append(f.Nombres, s.nombre)
		}
	}
	return f
}

// lineaResuelta is a locked load line with the total quantity requested of it.
type lineaResuelta struct {
	linea    *model.CargaProducto
	cantidad decimal.Decimal
}

// resolverLineas matches each request against the locked lines and merges
// requests that land on the same line, keeping first-appearance order.
func resolverLineas(locked []model.CargaProducto, sols []lineaSolicitada) ([]lineaResuelta, error) {
	byID := make(map[uuid.UUID]*model.CargaProducto, len(locked))
	byNombre := make(map[string][]*model.CargaProducto)
	for i := range locked {
		l := &locked[i]
		if l.ProductoID == nil {
			continue
		}
		byID[*l.ProductoID] = l
		key := strings.ToLower(strings.TrimSpace(l.NombreProducto))
		byNombre[key] = append(byNombre[key], l)
	}

	var out []lineaResuelta
	index := make(map[uuid.UUID]int)
	for _, s := range sols {
		var l *model.CargaProducto
		if s.productoID != nil {
			l = byID[*s.productoID]
		} else {
			switch cands := byNombre[s.nombre]; len(cands) {
			case 0:
			case 1:
				l = cands[0]
			default:
				return nil, apierror.Validation(fmt.Sprintf("el nombre %q coincide con %d productos de la carga; indique productoId", s.nombre, len(cands)))
			}
		}
		if l == nil {
			return nil, apierror.ProductNotInLoad(fmt.Sprintf("el producto %s no esta en la carga activa", s.etiqueta()))
		}

		if i, ok := index[l.ID]; ok {
			out[i].cantidad = out[i].cantidad.Add(s.cantidad)
			continue
		}
		index[l.ID] = len(out)
		out = append(out, lineaResuelta{linea: l, cantidad: s.cantidad})
	}
	return out, nil
}

func lineaToResponse(l *model.CargaProducto) dto.CargaProductoResponse {
	return dto.CargaProductoResponse{
		ID:               l.ID.String(),
		ProductoID:       idPtrString(l.ProductoID),
		Nombre:           l.NombreProducto,
		PrecioUnitario:   l.PrecioUnitario,
		CantidadCargada:  l.CantidadCargada,
		CantidadVendida:  l.CantidadVendida,
		CantidadDevuelta: l.CantidadDevuelta,
		Disponible:       l.Disponible(),
	}
}
