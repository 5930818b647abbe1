package entity

// ReferenceKind identifica el tipo de documento de negocio que originó un movimiento.
type ReferenceKind string

const (
	ReferenceManual         ReferenceKind = "MANUAL"          // ajuste o movimiento manual
	ReferenceOrder          ReferenceKind = "ORDER"           // venta / pedido en línea
	ReferenceTransfer       ReferenceKind = "TRANSFER"        // traslado entre bodegas
	ReferenceSupplierReturn ReferenceKind = "SUPPLIER_RETURN" // devolución a proveedor
)

// Reference enlaza un movimiento/snapshot con el documento que lo causó.
// Unión etiquetada {kind, id}: el Reversal Handler la usa para localizar qué deshacer.
type Reference struct {
	Kind ReferenceKind
	ID   string
}

// Valid indica si la referencia tiene un kind conocido y un id no vacío.
func (r Reference) Valid() bool {
	if r.ID == "" {
		return false
	}
	switch r.Kind {
	case ReferenceManual, ReferenceOrder, ReferenceTransfer, ReferenceSupplierReturn:
		return true
	}
	return false
}
