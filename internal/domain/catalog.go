package domain

// LocationStock is the per-warehouse inventory detail for an item.
type LocationStock struct {
	Warehouse string `json:"almacen"`
	Quantity  int    `json:"cantidad"`
}

// InventorySummary aggregates stock for an item across locations.
type InventorySummary struct {
	TotalQuantity     int             `json:"cantidadTotal"`
	AvailableQuantity int             `json:"cantidadDisponible"`
	ReservedQuantity  int             `json:"cantidadReservada,omitempty"`
	Locations         []LocationStock `json:"ubicaciones,omitempty"`
}

// CatalogItem is an immutable snapshot of one orderable product. A newer
// snapshot for the same ID fully replaces the old one; fields are never
// patched individually.
type CatalogItem struct {
	ID        string            `json:"id"`
	Code      string            `json:"codigo"`
	Name      string            `json:"nombre"`
	UnitPrice float64           `json:"precioUnitario"`
	Category  Category          `json:"categoria"`
	Inventory *InventorySummary `json:"inventarioResumen,omitempty"`
}

// Stock returns the quantity available for ordering.
func (i CatalogItem) Stock() int {
	if i.Inventory == nil {
		return 0
	}
	return i.Inventory.AvailableQuantity
}

// PageMeta carries server-side paging metadata for one catalog page.
type PageMeta struct {
	Page   int   `json:"page"`
	Size   int   `json:"size"`
	Total  int   `json:"total"`
	TookMs int64 `json:"tookMs"`
}

// CatalogPage is one server-ordered page of catalog items. Every HTTP fetch
// and every live-feed push produces a fresh page; pages are never mutated in
// place and item order is preserved as sent by the server.
type CatalogPage struct {
	Items []CatalogItem `json:"items"`
	Meta  PageMeta      `json:"meta"`
}
