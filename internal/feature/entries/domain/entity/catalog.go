package entity

// Catalog lists the suggested values offered when logging an entry.
// Values outside the catalog are accepted on write.
type Catalog struct {
	Triggers      []string `json:"triggers"`
	PainLocations []string `json:"pain_locations"`
	PainTypes     []string `json:"pain_types"`
}

// DefaultCatalog returns the built-in suggestion lists.
func DefaultCatalog() Catalog {
	return Catalog{
		Triggers: []string{
			"café", "alcohol", "queso", "chocolate", "ayuno", "estrés",
			"falta_sueño", "ruido", "luz_bril", "olor_intenso", "cambio_clima", "ejercicio_intenso",
		},
		PainLocations: []string{
			"unilateral", "bilateral", "detrás_ojos", "frontal", "temporal", "occipital", "cuello",
		},
		PainTypes: []string{"pulsátil", "punzante", "presión", "ardor"},
	}
}
