// Package classify turns free-text spreadsheet values into canonical
// categories by ordered keyword matching. Exact-value lookups are avoided on
// purpose: sheets contain typos, plurals, and mixed languages.
package classify

import (
	"strings"

	"sheetcrm/crm"
	"sheetcrm/internal/textnorm"
)

type rule[T any] struct {
	keywords []string
	value    T
}

// match returns the value of the first rule with a keyword contained in raw.
func match[T any](raw string, rules []rule[T], fallback T) T {
	folded := textnorm.Fold(strings.TrimSpace(raw))
	if folded == "" {
		return fallback
	}
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(folded, keyword) {
				return r.value
			}
		}
	}
	return fallback
}

var operationRules = []rule[crm.Operation]{
	{keywords: []string{"alquil", "rent", "arriend"}, value: crm.OperationRental},
	{keywords: []string{"venta", "vende", "sell", "sale"}, value: crm.OperationSale},
}

func Operation(raw string) crm.Operation {
	return match(raw, operationRules, crm.OperationRental)
}

var propertyTypeRules = []rule[crm.PropertyType]{
	{keywords: []string{"depa", "mono", "apart", "flat"}, value: crm.PropertyApartment},
	{keywords: []string{"casa", "house"}, value: crm.PropertyHouse},
	{keywords: []string{"ofic", "office"}, value: crm.PropertyOffice},
	{keywords: []string{"terreno", "lote", "land"}, value: crm.PropertyLand},
	{keywords: []string{"local", "comerc", "shop"}, value: crm.PropertyCommercial},
}

func PropertyType(raw string) crm.PropertyType {
	return match(raw, propertyTypeRules, crm.PropertyHouse)
}

// Furnishing words ("amoblado") show up in the status column of real sheets;
// they match nothing here and fall through to Available.
var availabilityRules = []rule[crm.Availability]{
	{keywords: []string{"reserv"}, value: crm.AvailabilityReserved},
	{keywords: []string{"no disp", "vendid", "ocup", "alquilad", "unavail"}, value: crm.AvailabilityUnavailable},
}

func Availability(raw string) crm.Availability {
	return match(raw, availabilityRules, crm.AvailabilityAvailable)
}

var currencyRules = []rule[crm.Currency]{
	{keywords: []string{"usd", "dolar", "dollar", "us$"}, value: crm.CurrencyUSD},
}

// Currency treats a bare "$" as dollars; "S/" and anything else is soles.
func Currency(raw string) crm.Currency {
	if strings.TrimSpace(raw) == "$" {
		return crm.CurrencyUSD
	}
	return match(raw, currencyRules, crm.CurrencyPEN)
}

var leadStageRules = []rule[crm.LeadStage]{
	{keywords: []string{"contact"}, value: crm.LeadContacted},
	{keywords: []string{"calient", "hot"}, value: crm.LeadHot},
	{keywords: []string{"cerr", "closed", "ganad"}, value: crm.LeadClosed},
}

func LeadStage(raw string) crm.LeadStage {
	return match(raw, leadStageRules, crm.LeadNew)
}

var leadSourceRules = []rule[crm.LeadSource]{
	{keywords: []string{"whats"}, value: crm.SourceWhatsApp},
	{keywords: []string{"web"}, value: crm.SourceWeb},
	{keywords: []string{"ref"}, value: crm.SourceReferral},
	{keywords: []string{"face", "fb"}, value: crm.SourceFacebook},
}

func LeadSource(raw string) crm.LeadSource {
	return match(raw, leadSourceRules, crm.SourceSheets)
}

var leadPriorityRules = []rule[crm.LeadPriority]{
	{keywords: []string{"alta", "high", "urgent"}, value: crm.PriorityHigh},
	{keywords: []string{"baja", "low"}, value: crm.PriorityLow},
}

func LeadPriority(raw string) crm.LeadPriority {
	return match(raw, leadPriorityRules, crm.PriorityMedium)
}

var leadInterestRules = []rule[crm.LeadInterest]{
	{keywords: []string{"alquil", "rent"}, value: crm.InterestRent},
	{keywords: []string{"compr", "buy", "venta"}, value: crm.InterestBuy},
}

func LeadInterest(raw string) crm.LeadInterest {
	return match(raw, leadInterestRules, crm.InterestBuy)
}

var appointmentStatusRules = []rule[crm.AppointmentStatus]{
	{keywords: []string{"confirm"}, value: crm.AppointmentConfirmed},
	{keywords: []string{"cancel", "anul"}, value: crm.AppointmentCancelled},
	{keywords: []string{"reprog", "resched"}, value: crm.AppointmentRescheduled},
}

func AppointmentStatus(raw string) crm.AppointmentStatus {
	return match(raw, appointmentStatusRules, crm.AppointmentPending)
}
