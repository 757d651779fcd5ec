package ingest_test

import (
	"strings"
	"time"

	"github.com/dealerportal/partsfeed/internal/ingest"
	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/tabular"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

const aftermarketHeader = "Manufacturer,StkNo,LandRover No,Jaguar No,Category,Supplier,OEM,Description,Free Stock,Trade Price,Band A,Band B,Band C,Band D,Band E,Band F,Minimum Price,TARIFFCODE,Country of Orgin,Barcode"

func parseRows(lines ...string) []tabular.Row {
	table, err := tabular.ParseCSV(strings.NewReader(strings.Join(lines, "\n")))
	Expect(err).To(BeNil())
	return table.Rows
}

func workbookRow(values map[string]string) tabular.Row {
	return tabular.Row{Number: 1, Line: 2, Values: values}
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var _ = Describe("ingest", func() {
	Context("catalog rows", func() {
		It("normalizes a valid aftermarket row", func() {
			rows := parseRows(aftermarketHeader,
				" DGS , AB123 ,LR1,, aftermarket ,ACME,, Brake pad ,\"1,200\",12.50,12.5,12,11,10,9,8,7.25,8708,UK,  ")

			results := ingest.NormalizeCatalogRows(rows, ingest.AllowedPartTypes(model.BatchTypePartsAftermarket), now)
			Expect(results).To(HaveLen(1))
			Expect(results[0].Valid()).To(BeTrue())

			part := results[0].Record
			Expect(part.StkNo).To(Equal("AB123"))
			Expect(part.Manufacturer).To(Equal("DGS"))
			Expect(part.Description).To(Equal("Brake pad"))
			Expect(part.PartType).To(Equal(model.PartTypeAftermarket))
			Expect(part.FreeStock).To(Equal(1200))
			Expect(part.TradePrice.Equal(decimal.RequireFromString("12.5"))).To(BeTrue())
			Expect(part.MinimumPrice.Equal(decimal.RequireFromString("7.25"))).To(BeTrue())
			Expect(*part.LandRoverNo).To(Equal("LR1"))
			Expect(part.JaguarNo).To(BeNil())
			Expect(part.OEM).To(BeNil())
			Expect(part.Barcode).To(BeNil())
			Expect(part.IsActive).To(BeTrue())
			Expect(part.LastSeenAt).To(Equal(now))
		})

		It("collects every failure on a row", func() {
			rows := parseRows(aftermarketHeader,
				",,,,WIDGET,,,,abc,x,1,1,1,1,1,1,1,,,")

			results := ingest.NormalizeCatalogRows(rows, ingest.AllowedPartTypes(model.BatchTypePartsAftermarket), now)
			Expect(results[0].Valid()).To(BeFalse())
			Expect(results[0].Errors).To(Equal(ingest.RowErrors{
				"Manufacturer is required.",
				"StkNo is required.",
				"Description is required.",
				"Category WIDGET is invalid.",
				"Free Stock must be an integer.",
				"Trade Price must be a number.",
			}))
		})

		It("rejects a category outside the upload channel", func() {
			rows := parseRows(aftermarketHeader,
				"DGS,AB1,,,GENUINE,,,Pad,1,1,1,1,1,1,1,1,1,,,")

			results := ingest.NormalizeCatalogRows(rows, ingest.AllowedPartTypes(model.BatchTypePartsAftermarket), now)
			Expect(results[0].Errors.Reason()).To(Equal("Category GENUINE is not allowed for this upload."))
		})

		It("rejects fractional stock", func() {
			rows := parseRows(aftermarketHeader,
				"DGS,AB1,,,AFTERMARKET,,,Pad,1.5,1,1,1,1,1,1,1,1,,,")

			results := ingest.NormalizeCatalogRows(rows, ingest.AllowedPartTypes(model.BatchTypePartsAftermarket), now)
			Expect(results[0].Errors.Reason()).To(Equal("Free Stock must be an integer."))
		})
	})

	Context("price-list workbook rows", func() {
		It("maps workbook columns and defaults the manufacturer", func() {
			row := workbookRow(map[string]string{
				ingest.ColProductCode:     "LR000123",
				ingest.ColFullDescription: "Oil filter",
				ingest.ColFreeStock:       "4",
				ingest.ColNet1:            "20.00",
				ingest.ColNet2:            "19",
				ingest.ColNet3:            "18",
				ingest.ColNet4:            "17",
				ingest.ColNet5:            "16",
				ingest.ColNet6:            "15",
				ingest.ColNet7:            "14",
				ingest.ColDiscountCode:    "GN",
			})

			results, skipped := ingest.NormalizeWorkbookRows([]tabular.Row{row}, ingest.AllowedPartTypes(model.BatchTypePartsGenuine), now)
			Expect(skipped).To(Equal(0))
			Expect(results).To(HaveLen(1))
			Expect(results[0].Valid()).To(BeTrue())

			part := results[0].Record
			Expect(part.StkNo).To(Equal("LR000123"))
			Expect(part.Manufacturer).To(Equal(ingest.DefaultManufacturer))
			Expect(part.PartType).To(Equal(model.PartTypeGenuine))
			Expect(part.TradePrice.Equal(part.BandA)).To(BeTrue())
			Expect(part.BandF.Equal(decimal.NewFromInt(15))).To(BeTrue())
			Expect(part.MinimumPrice.Equal(decimal.NewFromInt(14))).To(BeTrue())
		})

		It("uses the manufacturer column when the workbook has one", func() {
			values := map[string]string{
				ingest.ColProductCode: "LR1", ingest.ColFullDescription: "a", ingest.ColFreeStock: "1",
				ingest.ColNet1: "1", ingest.ColNet2: "1", ingest.ColNet3: "1", ingest.ColNet4: "1",
				ingest.ColNet5: "1", ingest.ColNet6: "1", ingest.ColNet7: "1", ingest.ColDiscountCode: "gn",
			}
			named := workbookRow(map[string]string{ingest.ColManufacturer: " Britpart "})
			blank := workbookRow(map[string]string{ingest.ColManufacturer: "  "})
			for k, v := range values {
				named.Values[k] = v
				blank.Values[k] = v
			}

			results, skipped := ingest.NormalizeWorkbookRows([]tabular.Row{named, blank}, ingest.AllowedPartTypes(model.BatchTypePartsGenuine), now)
			Expect(skipped).To(Equal(0))
			Expect(results).To(HaveLen(2))

			Expect(results[0].Valid()).To(BeTrue())
			Expect(results[0].Record.Manufacturer).To(Equal("Britpart"))

			Expect(results[1].Valid()).To(BeFalse())
			Expect(results[1].Errors.Reason()).To(Equal("Manufacturer is required."))
		})

		It("skips rows that belong to the other channel", func() {
			genuine := workbookRow(map[string]string{
				ingest.ColProductCode: "LR1", ingest.ColFullDescription: "a", ingest.ColFreeStock: "1",
				ingest.ColNet1: "1", ingest.ColNet2: "1", ingest.ColNet3: "1", ingest.ColNet4: "1",
				ingest.ColNet5: "1", ingest.ColNet6: "1", ingest.ColNet7: "1", ingest.ColDiscountCode: "gn",
			})
			unknown := workbookRow(map[string]string{ingest.ColProductCode: "LR2", ingest.ColDiscountCode: "zz"})

			results, skipped := ingest.NormalizeWorkbookRows([]tabular.Row{genuine, unknown}, ingest.AllowedPartTypes(model.BatchTypePartsAftermarket), now)
			Expect(skipped).To(Equal(1))
			Expect(results).To(HaveLen(1))
			Expect(results[0].Errors).To(ContainElement("Category zz is invalid."))
		})
	})

	Context("order status rows", func() {
		const header = "Order Number,Account Number,Part Number,Ordered Quantity,Fulfilled Quantity,Backordered Quantity,Status,Status Date,Notes"

		var order model.Order

		BeforeEach(func() {
			order = model.Order{
				ID:            uuid.New(),
				OrderNumber:   "SO-1",
				AccountNumber: "ACC-1",
				Items:         []model.OrderItem{{PartNumber: "P1"}, {PartNumber: "P2"}},
			}
		})

		It("normalizes and resolves a valid row", func() {
			results := ingest.NormalizeOrderStatusRows(parseRows(header,
				"SO-1,ACC-1,P1,5,,2,backordered,2026-02-01T10:00:00Z, waiting "))
			Expect(results[0].Valid()).To(BeTrue())

			ingest.ValidateOrderReferences(results, []model.Order{order})
			Expect(results[0].Valid()).To(BeTrue())

			rec := results[0].Record
			Expect(rec.OrderID).To(Equal(order.ID))
			Expect(rec.Status).To(Equal(model.LineStatusBackordered))
			Expect(rec.FulfilledQuantity).To(BeNil())
			Expect(*rec.BackorderedQuantity).To(Equal(2))
			Expect(*rec.Notes).To(Equal("waiting"))
			Expect(rec.StatusDate.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))).To(BeTrue())
		})

		It("reports field failures", func() {
			results := ingest.NormalizeOrderStatusRows(parseRows(header,
				"SO-1,,P1,x,y,,SHIPPED,not a date,"))
			Expect(results[0].Errors).To(Equal(ingest.RowErrors{
				"Account Number is required.",
				"Ordered Quantity must be an integer.",
				"Fulfilled Quantity must be numeric.",
				"Status SHIPPED is invalid.",
				"Status Date is invalid.",
			}))
		})

		It("checks references only on rows that passed field checks", func() {
			results := ingest.NormalizeOrderStatusRows(parseRows(header,
				"SO-404,ACC-1,P1,1,,,OPEN,2026-02-01,",
				"SO-1,ACC-9,P9,1,,,OPEN,2026-02-01,",
				"SO-404,ACC-1,P1,oops,,,OPEN,2026-02-01,",
			))
			Expect(ingest.ReferencedOrderNumbers(results)).To(Equal([]string{"SO-404", "SO-1"}))

			ingest.ValidateOrderReferences(results, []model.Order{order})
			Expect(results[0].Errors.Reason()).To(Equal("Order SO-404 not found."))
			Expect(results[1].Errors.Reason()).To(Equal("Account Number ACC-9 does not match order. Part P9 not found on order."))
			Expect(results[2].Errors.Reason()).To(Equal("Ordered Quantity must be an integer."))
		})
	})

	Context("supersession rows", func() {
		const header = "old_part_no,new_part_no,reason,effective_date"

		It("rejects self supersession and tolerates a bad date", func() {
			results := ingest.NormalizeSupersessionRows(parseRows(header,
				"A,A,,",
				"B,C,renumbered,someday",
				",D,,",
			))
			Expect(results[0].Errors.Reason()).To(Equal("old_part_no and new_part_no cannot match."))
			Expect(results[1].Valid()).To(BeTrue())
			Expect(results[1].Record.EffectiveDate).To(BeNil())
			Expect(*results[1].Record.Reason).To(Equal("renumbered"))
			Expect(results[2].Errors.Reason()).To(Equal("old_part_no is required."))
		})

		It("flags the edge that closes a cycle with stored edges", func() {
			results := ingest.NormalizeSupersessionRows(parseRows(header,
				"B,C,,",
				"C,A,,",
				"X,Y,,",
			))
			existing := []model.Supersession{{OldPartNo: "A", NewPartNo: "B"}}

			Expect(ingest.MarkCycles(results, existing)).To(Equal(1))
			Expect(results[0].Valid()).To(BeTrue())
			Expect(results[1].Errors.Reason()).To(Equal(ingest.ReasonCycleDetected))
			Expect(results[2].Valid()).To(BeTrue())
		})

		It("ignores rows that already failed", func() {
			results := ingest.NormalizeSupersessionRows(parseRows(header,
				"A,A,,",
				"A,B,,",
			))
			Expect(ingest.MarkCycles(results, nil)).To(Equal(0))
			Expect(results[1].Valid()).To(BeTrue())
		})
	})

	Context("split", func() {
		It("keeps input order and joins reasons", func() {
			results := ingest.NormalizeSupersessionRows(parseRows("old_part_no,new_part_no,reason,effective_date",
				"A,B,,",
				",,,",
				"C,C,,",
				"D,E,,",
			))

			valid, rejected := ingest.Split(results)
			Expect(valid).To(HaveLen(2))
			Expect(valid[0].OldPartNo).To(Equal("A"))
			Expect(valid[1].OldPartNo).To(Equal("D"))
			Expect(rejected).To(HaveLen(1))
			Expect(rejected[0].Row.Raw).To(Equal([]string{"C", "C", "", ""}))
		})
	})

	Context("reconcile", func() {
		It("keeps the last record per key in first-seen order", func() {
			parts := []model.CatalogPart{
				{StkNo: "A", FreeStock: 1},
				{StkNo: "B", FreeStock: 2},
				{StkNo: "A", FreeStock: 3},
			}
			deduped := ingest.DedupeByKey(parts, func(p model.CatalogPart) string { return p.StkNo })
			Expect(deduped).To(HaveLen(2))
			Expect(deduped[0].StkNo).To(Equal("A"))
			Expect(deduped[0].FreeStock).To(Equal(3))
			Expect(deduped[1].StkNo).To(Equal("B"))
		})

		It("chunks records", func() {
			chunks := ingest.Chunk([]int{1, 2, 3, 4, 5}, 2)
			Expect(chunks).To(Equal([][]int{{1, 2}, {3, 4}, {5}}))
			Expect(ingest.Chunk([]int{}, 2)).To(BeEmpty())
		})

		It("applies only strictly newer statuses", func() {
			orderID := uuid.New()
			day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
			stored := []model.OrderLineStatus{
				{OrderID: orderID, PartNumber: "P1", StatusDate: day},
				{OrderID: orderID, PartNumber: "P2", StatusDate: day},
			}
			updates := []model.OrderLineStatus{
				{OrderID: orderID, PartNumber: "P1", StatusDate: day},
				{OrderID: orderID, PartNumber: "P2", StatusDate: day.Add(time.Hour)},
				{OrderID: orderID, PartNumber: "P3", StatusDate: day.Add(-time.Hour)},
			}

			fresh, stale := ingest.FilterNewer(updates, stored)
			Expect(stale).To(Equal(1))
			Expect(fresh).To(HaveLen(2))
			Expect(fresh[0].PartNumber).To(Equal("P2"))
			Expect(fresh[1].PartNumber).To(Equal("P3"))
		})

		It("sweeps candidates missing from the upload", func() {
			keys := ingest.SweepKeys([]string{"A", "B", "C"}, []model.CatalogPart{{StkNo: "B"}})
			Expect(keys).To(Equal([]string{"A", "C"}))
		})
	})

	DescribeTable("date parsing",
		func(value string, expected time.Time) {
			t, err := ingest.ParseDate(value)
			Expect(err).To(BeNil())
			Expect(t.Equal(expected)).To(BeTrue())
		},
		Entry("date only", "2026-02-03", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
		Entry("rfc3339", "2026-02-03T04:05:06+01:00", time.Date(2026, 2, 3, 3, 5, 6, 0, time.UTC)),
		Entry("space separated", "2026-02-03 04:05:06", time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)),
		Entry("us month first", "2/3/2026", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
	)
})
