package ingest

import (
	"fmt"

	"github.com/dealerportal/partsfeed/internal/store/model"
)

const (
	ColManufacturer    = "Manufacturer"
	ColStkNo           = "StkNo"
	ColLandRoverNo     = "LandRover No"
	ColJaguarNo        = "Jaguar No"
	ColCategory        = "Category"
	ColSupplier        = "Supplier"
	ColBrand           = "Brand"
	ColOEM             = "OEM"
	ColDescription     = "Description"
	ColFreeStock       = "Free Stock"
	ColTradePrice      = "Trade Price"
	ColBandA           = "Band A"
	ColBandB           = "Band B"
	ColBandC           = "Band C"
	ColBandD           = "Band D"
	ColBandE           = "Band E"
	ColBandF           = "Band F"
	ColMinimumPrice    = "Minimum Price"
	ColTariffCode      = "TARIFFCODE"
	ColCountryOfOrigin = "Country of Orgin" // sic, matches the dealer export
	ColBarcode         = "Barcode"

	ColOrderNumber         = "Order Number"
	ColAccountNumber       = "Account Number"
	ColPartNumber          = "Part Number"
	ColOrderedQuantity     = "Ordered Quantity"
	ColFulfilledQuantity   = "Fulfilled Quantity"
	ColBackorderedQuantity = "Backordered Quantity"
	ColStatus              = "Status"
	ColStatusDate          = "Status Date"
	ColNotes               = "Notes"

	ColOldPartNo     = "old_part_no"
	ColNewPartNo     = "new_part_no"
	ColReason        = "reason"
	ColEffectiveDate = "effective_date"

	ColProductCode     = "Product Code"
	ColFullDescription = "Full Description"
	ColNet1            = "Net 1"
	ColNet2            = "Net 2"
	ColNet3            = "Net 3"
	ColNet4            = "Net 4"
	ColNet5            = "Net 5"
	ColNet6            = "Net 6"
	ColNet7            = "Net 7"
	ColDiscountCode    = "Discount code"
)

var PartsAftermarketHeaders = []string{
	ColManufacturer,
	ColStkNo,
	ColLandRoverNo,
	ColJaguarNo,
	ColCategory,
	ColSupplier,
	ColOEM,
	ColDescription,
	ColFreeStock,
	ColTradePrice,
	ColBandA,
	ColBandB,
	ColBandC,
	ColBandD,
	ColBandE,
	ColBandF,
	ColMinimumPrice,
	ColTariffCode,
	ColCountryOfOrigin,
	ColBarcode,
}

// PartsGenuineHeaders adds Brand after Supplier.
var PartsGenuineHeaders = []string{
	ColManufacturer,
	ColStkNo,
	ColLandRoverNo,
	ColJaguarNo,
	ColCategory,
	ColSupplier,
	ColBrand,
	ColOEM,
	ColDescription,
	ColFreeStock,
	ColTradePrice,
	ColBandA,
	ColBandB,
	ColBandC,
	ColBandD,
	ColBandE,
	ColBandF,
	ColMinimumPrice,
	ColTariffCode,
	ColCountryOfOrigin,
	ColBarcode,
}

var OrderStatusHeaders = []string{
	ColOrderNumber,
	ColAccountNumber,
	ColPartNumber,
	ColOrderedQuantity,
	ColFulfilledQuantity,
	ColBackorderedQuantity,
	ColStatus,
	ColStatusDate,
	ColNotes,
}

var SupersessionHeaders = []string{
	ColOldPartNo,
	ColNewPartNo,
	ColReason,
	ColEffectiveDate,
}

// PartsWorkbookHeaders must all be present in a catalog spreadsheet, in any order.
var PartsWorkbookHeaders = []string{
	ColProductCode,
	ColFullDescription,
	ColFreeStock,
	ColNet1,
	ColNet2,
	ColNet3,
	ColNet4,
	ColNet5,
	ColNet6,
	ColNet7,
	ColDiscountCode,
}

// HeadersFor returns the exact CSV header row expected for a batch type.
func HeadersFor(t model.BatchType) ([]string, error) {
	switch t {
	case model.BatchTypePartsAftermarket:
		return PartsAftermarketHeaders, nil
	case model.BatchTypePartsGenuine:
		return PartsGenuineHeaders, nil
	case model.BatchTypeOrderStatus:
		return OrderStatusHeaders, nil
	case model.BatchTypeSupersession:
		return SupersessionHeaders, nil
	default:
		return nil, fmt.Errorf("unknown batch type %q", t)
	}
}

// AllowedPartTypes lists the categories a catalog channel may write and sweep.
func AllowedPartTypes(t model.BatchType) []model.PartType {
	switch t {
	case model.BatchTypePartsAftermarket:
		return []model.PartType{model.PartTypeAftermarket}
	case model.BatchTypePartsGenuine:
		return []model.PartType{model.PartTypeGenuine, model.PartTypeBranded}
	default:
		return nil
	}
}

// AuditAction names the audit entry written when a batch of type t is applied.
func AuditAction(t model.BatchType) string {
	switch t {
	case model.BatchTypeOrderStatus:
		return model.AuditActionUploadOrderStatus
	case model.BatchTypeSupersession:
		return model.AuditActionUploadSupersession
	default:
		return model.AuditActionUploadParts
	}
}
