package normalizer

import "strings"

// Canonical column identifiers. Source workbooks come from more than one
// exporter, so headers arrive in English or Portuguese with inconsistent
// casing, whitespace, and underscores.
type field int

const (
	fieldUnknown field = iota
	fieldDate
	fieldTime
	fieldOrigin
	fieldDestination
	fieldPrefix
	fieldRevenue
	fieldPax
	fieldHours
	fieldLandings
	fieldTypeOfFlight
	fieldSalesModel
	fieldClassification
	fieldClient
)

var headerAliases = map[string]field{
	"date":         fieldDate,
	"flight date":  fieldDate,
	"data":         fieldDate,
	"data do voo":  fieldDate,
	"data da missao": fieldDate,

	"time":             fieldTime,
	"departure time":   fieldTime,
	"departure":        fieldTime,
	"hora":             fieldTime,
	"horario":          fieldTime,
	"horário":          fieldTime,
	"hora de partida":  fieldTime,
	"hora da decolagem": fieldTime,

	"origin": fieldOrigin,
	"from":   fieldOrigin,
	"origem": fieldOrigin,
	"saida":  fieldOrigin,
	"saída":  fieldOrigin,

	"destination": fieldDestination,
	"to":          fieldDestination,
	"destino":     fieldDestination,
	"chegada":     fieldDestination,

	"tail":         fieldPrefix,
	"tail number":  fieldPrefix,
	"registration": fieldPrefix,
	"prefix":       fieldPrefix,
	"prefixo":      fieldPrefix,
	"matricula":    fieldPrefix,
	"matrícula":    fieldPrefix,
	"aeronave":     fieldPrefix,

	"revenue":     fieldRevenue,
	"amount":      fieldRevenue,
	"value":       fieldRevenue,
	"valor":       fieldRevenue,
	"receita":     fieldRevenue,
	"faturamento": fieldRevenue,

	"pax":         fieldPax,
	"passengers":  fieldPax,
	"passageiros": fieldPax,

	"hours":        fieldHours,
	"flight hours": fieldHours,
	"flight time":  fieldHours,
	"duration":     fieldHours,
	"horas":        fieldHours,
	"horas de voo": fieldHours,
	"tempo de voo": fieldHours,

	"landings": fieldLandings,
	"pousos":   fieldLandings,
	"legs":     fieldLandings,

	"type":           fieldTypeOfFlight,
	"type of flight": fieldTypeOfFlight,
	"flight type":    fieldTypeOfFlight,
	"tipo":           fieldTypeOfFlight,
	"tipo de voo":    fieldTypeOfFlight,

	"sales model":      fieldSalesModel,
	"sales":            fieldSalesModel,
	"modelo de venda":  fieldSalesModel,
	"modelo de vendas": fieldSalesModel,

	"classification": fieldClassification,
	"category":       fieldClassification,
	"classificacao":  fieldClassification,
	"classificação":  fieldClassification,
	"categoria":      fieldClassification,

	"client":   fieldClient,
	"customer": fieldClient,
	"cliente":  fieldClient,
}

// normalizeHeader lowercases, turns underscores into spaces, and collapses
// runs of whitespace so alias lookup tolerates exporter quirks.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

// mapHeaders resolves one header row to canonical fields. Unknown headers
// keep their normalized name so values can be preserved as extras.
// When two columns map to the same canonical field the first one wins.
func mapHeaders(row []string) (map[int]field, map[int]string) {
	mapped := make(map[int]field, len(row))
	extras := make(map[int]string)
	seen := make(map[field]bool)

	for i, h := range row {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		f, ok := headerAliases[key]
		if !ok || seen[f] {
			extras[i] = key
			continue
		}
		mapped[i] = f
		seen[f] = true
	}
	return mapped, extras
}
