package entity

import "sort"

// DefaultCategory se asigna cuando el artículo no indica categoría.
const DefaultCategory = "Otros"

// Categories catálogo fijo de categorías y sus subcategorías permitidas.
var Categories = map[string][]string{
	"Monitor":         {"Dell", "Asus", "HP", "Lenovo"},
	"Docking Station": {"Dell", "Lenovo"},
	"Teclado":         {"Logitech", "Cherry", "Microsoft"},
	"Mouse":           {"Logitech", "HP", "Microsoft"},
	"Headsets": {
		"Headset binaural con base",
		"Headset binaural USB-A",
		"Headset binaural",
		"Headset monoaural",
		"Fuente 4,5W base headset mono",
		"Headset teléfono USB (antiguo)",
		"Headset teléfono inalámbrico",
	},
	"Cables": {
		"Cable USB-C",
		"Cable de red 20m",
		"Cable de red 15m",
		"Cable de red 10m",
		"Cable de red 5m",
		"Cable de red 3m",
		"Cable de red 2m",
		"Cable de red 1m",
		"Cable de red 0.5m",
		"Cable DisplayPort",
		"Cable de poder",
		"Multitoma 1 salida",
		"Multitoma 2 salidas",
		"Enchufe europeo",
		"Cable HDMI",
		"Fuente Lenovo Docking 90W",
		"Fuente escáner de mesa",
		"Cable USB-A a USB-B impresora",
	},
	DefaultCategory: {},
}

// CategoryNames devuelve los nombres de categoría ordenados.
func CategoryNames() []string {
	names := make([]string, 0, len(Categories))
	for k := range Categories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Subcategories devuelve las subcategorías de una categoría (vacío si no existe).
func Subcategories(category string) []string {
	subs, ok := Categories[category]
	if !ok {
		return []string{}
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// ValidCategory indica si la pareja categoría/subcategoría es admitida.
// Una subcategoría vacía siempre es válida dentro de una categoría conocida.
func ValidCategory(category, subcategory string) bool {
	subs, ok := Categories[category]
	if !ok {
		return false
	}
	if subcategory == "" {
		return true
	}
	for _, s := range subs {
		if s == subcategory {
			return true
		}
	}
	return false
}
