package importer

import (
	"math"
	"strings"

	"sheetcrm/crm"
	"sheetcrm/internal/classify"
	"sheetcrm/internal/textnorm"
)

const maxPropertyTags = 6

type PropertyMapper struct{}

func (m *PropertyMapper) Name() string {
	return "properties"
}

func (m *PropertyMapper) Map(record Record) crm.Property {
	fields := PropertyFields

	rawType := record.Field(fields.Type)
	district := record.Field(fields.District)
	operation := classify.Operation(record.Field(fields.Operation))
	status := classify.Availability(record.Field(fields.Status))
	currency := classify.Currency(record.Field(fields.Currency))

	property := crm.Property{
		ID:          fallback(record.Field(fields.ID), synthesizeID("P", record)),
		Title:       record.Field(fields.Title),
		Operation:   operation,
		Type:        classify.PropertyType(rawType),
		Currency:    currency,
		Status:      status,
		District:    district,
		Address:     record.Field(fields.Address),
		AreaM2:      nonNegative(ParseLooseNumber(record.Field(fields.Area))),
		OwnerName:   record.Field(fields.OwnerName),
		OwnerPhone:  record.Field(fields.OwnerPhone),
		Furnished:   ParseBool(record.Field(fields.Furnished)),
		Description: record.Field(fields.Description),
		Tags:        buildTags(record.Field(fields.Tags), string(operation), string(status), district),
		ImageURL:    record.Field(fields.Image),
		Version:     int(nonNegative(ParseLooseNumber(record.Field(fields.Version)))),
		UpdatedAt:   record.Field(fields.UpdatedAt),
	}

	if pen, ok := ParseMoney(record.Field(fields.PricePEN)); ok {
		pen = nonNegative(pen)
		property.PricePEN = &pen
	}
	if usd, ok := ParseMoney(record.Field(fields.PriceUSD)); ok {
		usd = nonNegative(usd)
		property.PriceUSD = &usd
	}
	property.Price = choosePrice(currency, property.PricePEN, property.PriceUSD)

	if property.Title == "" {
		property.Title = synthesizeTitle(rawType, operation, district)
	}

	return property
}

// choosePrice prefers the column matching currency and falls back to the
// other one; 0 only when both columns are empty.
func choosePrice(currency crm.Currency, pen, usd *float64) float64 {
	preferred, other := pen, usd
	if currency == crm.CurrencyUSD {
		preferred, other = usd, pen
	}
	switch {
	case preferred != nil:
		return *preferred
	case other != nil:
		return *other
	default:
		return 0
	}
}

func synthesizeTitle(rawType string, operation crm.Operation, district string) string {
	title := fallback(rawType, "Inmueble") + " en " + string(operation)
	if district != "" {
		title += " - " + district
	}
	return title
}

// buildTags puts the derived tags first, then the free-text tags column, with
// case- and accent-insensitive deduplication.
func buildTags(raw string, derived ...string) []string {
	candidates := append([]string(nil), derived...)
	candidates = append(candidates, strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})...)

	tags := make([]string, 0, maxPropertyTags)
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		tag := strings.TrimSpace(candidate)
		key := textnorm.Fold(tag)
		if tag == "" {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == maxPropertyTags {
			break
		}
	}
	return tags
}

func nonNegative(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
