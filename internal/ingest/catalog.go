package ingest

import (
	"strings"
	"time"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/tabular"
	"github.com/thoas/go-funk"
)

// DefaultManufacturer is used for spreadsheet rows that carry no manufacturer.
const DefaultManufacturer = "DGS"

// workbookColumns maps catalog fields onto the columns of the price-list workbook.
var workbookColumns = map[string]string{
	ColStkNo:        ColProductCode,
	ColDescription:  ColFullDescription,
	ColFreeStock:    ColFreeStock,
	ColTradePrice:   ColNet1,
	ColBandA:        ColNet1,
	ColBandB:        ColNet2,
	ColBandC:        ColNet3,
	ColBandD:        ColNet4,
	ColBandE:        ColNet5,
	ColBandF:        ColNet6,
	ColMinimumPrice: ColNet7,
	ColCategory:     ColDiscountCode,
}

var discountCodes = map[string]model.PartType{
	"gn": model.PartTypeGenuine,
	"es": model.PartTypeAftermarket,
	"br": model.PartTypeBranded,
}

// DiscountCodeCategory maps a workbook discount code to a part type.
func DiscountCodeCategory(code string) (model.PartType, bool) {
	pt, found := discountCodes[strings.ToLower(strings.TrimSpace(code))]
	return pt, found
}

type categoryResolver func(raw string) (model.PartType, bool)

// NormalizeCatalogRows validates catalog CSV rows. A category outside allowed is a row error.
func NormalizeCatalogRows(rows []tabular.Row, allowed []model.PartType, now time.Time) []Result[model.CatalogPart] {
	results := make([]Result[model.CatalogPart], 0, len(rows))
	for _, row := range rows {
		r, _ := normalizeCatalogRow(row, row.Get, model.ParsePartType, allowed, false, now)
		results = append(results, r)
	}
	return results
}

// NormalizeWorkbookRows validates price-list workbook rows. Rows whose category belongs
// to another channel are skipped and counted rather than rejected.
func NormalizeWorkbookRows(rows []tabular.Row, allowed []model.PartType, now time.Time) ([]Result[model.CatalogPart], int) {
	results := make([]Result[model.CatalogPart], 0, len(rows))
	skipped := 0

	for _, row := range rows {
		r, skip := normalizeCatalogRow(row, workbookGetter(row), DiscountCodeCategory, allowed, true, now)
		if skip {
			skipped++
			continue
		}
		results = append(results, r)
	}

	return results, skipped
}

func workbookGetter(row tabular.Row) func(string) string {
	return func(column string) string {
		// only a workbook without the column falls back; a blank cell stays blank
		if column == ColManufacturer {
			if _, found := row.Values[ColManufacturer]; !found {
				return DefaultManufacturer
			}
			return row.Get(ColManufacturer)
		}
		if wc, found := workbookColumns[column]; found {
			return row.Get(wc)
		}
		return row.Get(column)
	}
}

func normalizeCatalogRow(
	row tabular.Row,
	get func(string) string,
	resolve categoryResolver,
	allowed []model.PartType,
	skipDisallowed bool,
	now time.Time,
) (Result[model.CatalogPart], bool) {
	var errs RowErrors

	manufacturer, _ := errs.Required(ColManufacturer, get(ColManufacturer))
	stkNo, _ := errs.Required(ColStkNo, get(ColStkNo))
	description, _ := errs.Required(ColDescription, get(ColDescription))

	rawCategory := get(ColCategory)
	partType, known := resolve(rawCategory)
	switch {
	case rawCategory == "":
		errs.Add("%s is required.", ColCategory)
	case !known:
		errs.Add("Category %s is invalid.", rawCategory)
	case !funk.Contains(allowed, partType):
		if skipDisallowed {
			return Result[model.CatalogPart]{}, true
		}
		errs.Add("Category %s is not allowed for this upload.", partType)
	}

	freeStock, _ := errs.Integer(ColFreeStock, get(ColFreeStock))
	tradePrice, _ := errs.Decimal(ColTradePrice, get(ColTradePrice))
	bandA, _ := errs.Decimal(ColBandA, get(ColBandA))
	bandB, _ := errs.Decimal(ColBandB, get(ColBandB))
	bandC, _ := errs.Decimal(ColBandC, get(ColBandC))
	bandD, _ := errs.Decimal(ColBandD, get(ColBandD))
	bandE, _ := errs.Decimal(ColBandE, get(ColBandE))
	bandF, _ := errs.Decimal(ColBandF, get(ColBandF))
	minimumPrice, _ := errs.Decimal(ColMinimumPrice, get(ColMinimumPrice))

	part := model.CatalogPart{
		StkNo:           stkNo,
		Manufacturer:    manufacturer,
		LandRoverNo:     OptionalText(get(ColLandRoverNo)),
		JaguarNo:        OptionalText(get(ColJaguarNo)),
		PartType:        partType,
		Supplier:        OptionalText(get(ColSupplier)),
		Brand:           OptionalText(get(ColBrand)),
		OEM:             OptionalText(get(ColOEM)),
		Description:     description,
		FreeStock:       freeStock,
		TradePrice:      tradePrice,
		BandA:           bandA,
		BandB:           bandB,
		BandC:           bandC,
		BandD:           bandD,
		BandE:           bandE,
		BandF:           bandF,
		MinimumPrice:    minimumPrice,
		TariffCode:      OptionalText(get(ColTariffCode)),
		CountryOfOrigin: OptionalText(get(ColCountryOfOrigin)),
		Barcode:         OptionalText(get(ColBarcode)),
		IsActive:        true,
		LastSeenAt:      now,
	}

	return Result[model.CatalogPart]{Row: row, Record: part, Errors: errs}, false
}
